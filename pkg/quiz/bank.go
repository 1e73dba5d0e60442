package quiz

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultBank []byte

// Question is a fixed multiple choice item.
type Question struct {
	Question      string   `yaml:"question" json:"question"`
	Options       []string `yaml:"options" json:"options"`
	CorrectAnswer int      `yaml:"correct_answer" json:"-"`
}

// Bank maps subject -> topic name -> ordered questions.
type Bank map[string]map[string][]Question

func ParseBank(data []byte) (Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse quiz bank: %w", err)
	}
	for subject, topics := range b {
		for topic, qs := range topics {
			for i, q := range qs {
				if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
					return nil, fmt.Errorf("quiz bank %s/%s question %d: correct_answer %d out of range", subject, topic, i, q.CorrectAnswer)
				}
			}
		}
	}
	if b == nil {
		b = Bank{}
	}
	return b, nil
}

// LoadBank reads the bank at path, or the embedded default when path is empty.
func LoadBank(path string) (Bank, error) {
	if path == "" {
		return ParseBank(defaultBank)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz bank %s: %w", path, err)
	}
	return ParseBank(data)
}

// Questions returns the list for a subject/topic pair, nil when none exists.
func (b Bank) Questions(subject, topic string) []Question {
	return b[subject][topic]
}
