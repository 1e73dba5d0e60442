package workspace

import (
	"edu-dashboard-be/internal/entity"
)

// OverlayKind tags the single active overlay of a workspace.
type OverlayKind string

const (
	OverlayIdle          OverlayKind = "idle"
	OverlayTopic         OverlayKind = "topic"
	OverlayModule        OverlayKind = "module"
	OverlayQuiz          OverlayKind = "quiz"
	OverlayVisualization OverlayKind = "visualization"
	OverlayEditDialog    OverlayKind = "edit_dialog"
)

// Overlay is a tagged union. Only the fields matching Kind are set:
// Topic for topic/quiz/visualization, Module for module, DialogKind and
// Draft for edit_dialog.
type Overlay struct {
	Kind       OverlayKind
	Topic      *entity.Topic
	Module     *entity.Module
	DialogKind entity.RecordKind
	Draft      *Draft
}

func idle() Overlay { return Overlay{Kind: OverlayIdle} }

// blocking overlays must be closed before another one opens.
func (o Overlay) blocking() bool {
	switch o.Kind {
	case OverlayQuiz, OverlayVisualization, OverlayEditDialog:
		return true
	}
	return false
}

func (o Overlay) clone() Overlay {
	c := o
	if o.Topic != nil {
		t := cloneTopic(*o.Topic)
		c.Topic = &t
	}
	if o.Module != nil {
		m := *o.Module
		c.Module = &m
	}
	if o.Draft != nil {
		d := o.Draft.clone()
		c.Draft = &d
	}
	return c
}

// Draft is the add/edit dialog form. Saving always creates a new record;
// SourceId only remembers which record an edit was seeded from.
type Draft struct {
	SourceId         string
	Name             string
	Description      string
	Explanation      string
	RealWorldExample string
	Equation         string
	KeyPoints        []string
}

func (d Draft) clone() Draft {
	d.KeyPoints = append([]string(nil), d.KeyPoints...)
	return d
}

// DraftPatch carries the form fields a client changed; nil means untouched.
type DraftPatch struct {
	Name             *string
	Description      *string
	Explanation      *string
	RealWorldExample *string
	Equation         *string
	KeyPoints        []string
}

func (d *Draft) apply(p DraftPatch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Explanation != nil {
		d.Explanation = *p.Explanation
	}
	if p.RealWorldExample != nil {
		d.RealWorldExample = *p.RealWorldExample
	}
	if p.Equation != nil {
		d.Equation = *p.Equation
	}
	if p.KeyPoints != nil {
		d.KeyPoints = append([]string(nil), p.KeyPoints...)
	}
}

func draftFromModule(m entity.Module) Draft {
	return Draft{SourceId: m.Id, Name: m.Name, Description: m.Description}
}

func draftFromTopic(t entity.Topic) Draft {
	return Draft{
		SourceId:         t.Id,
		Name:             t.Name,
		Description:      t.Description,
		Explanation:      t.Explanation,
		RealWorldExample: t.RealWorldExample,
		Equation:         t.Equation,
		KeyPoints:        append([]string(nil), t.KeyPoints...),
	}
}

func cloneTopic(t entity.Topic) entity.Topic {
	t.KeyPoints = append([]string(nil), t.KeyPoints...)
	if t.ModuleId != nil {
		id := *t.ModuleId
		t.ModuleId = &id
	}
	return t
}
