package entity

import "time"

type RecordKind string

const (
	RecordKindModule RecordKind = "module"
	RecordKindTopic  RecordKind = "topic"
)

func (k RecordKind) Valid() bool {
	return k == RecordKindModule || k == RecordKindTopic
}

type Module struct {
	Id          string
	Name        string
	Description string
	Subject     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Topic struct {
	Id               string
	Name             string
	Description      string
	Subject          string
	ModuleId         *string
	Explanation      string
	RealWorldExample string
	Equation         string
	KeyPoints        []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
