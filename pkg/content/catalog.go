// Package content resolves the static topic list shown for a subject and
// class. The table is data: it is loaded from YAML and injected.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Block is one subject/class content entry.
type Block struct {
	Title  string   `yaml:"title" json:"title"`
	Topics []string `yaml:"topics" json:"topics"`
}

// Catalog maps subject -> "class{standard}" -> Block.
type Catalog map[string]map[string]Block

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content catalog: %w", err)
	}
	if c == nil {
		c = Catalog{}
	}
	return c, nil
}

// LoadCatalog reads the catalog at path, or the embedded default when path
// is empty.
func LoadCatalog(path string) (Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// Subjects lists the subjects present in the catalog.
func (c Catalog) Subjects() []string {
	out := make([]string, 0, len(c))
	for s := range c {
		out = append(out, s)
	}
	return out
}
