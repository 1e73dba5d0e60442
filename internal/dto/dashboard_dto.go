package dto

import (
	"time"

	"edu-dashboard-be/pkg/quiz"
)

type ModuleResponse struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TopicResponse struct {
	Id               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Subject          string    `json:"subject"`
	ModuleId         *string   `json:"module_id,omitempty"`
	Explanation      string    `json:"explanation,omitempty"`
	RealWorldExample string    `json:"real_world_example,omitempty"`
	Equation         string    `json:"equation,omitempty"`
	KeyPoints        []string  `json:"key_points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ContentResponse struct {
	Subject  string   `json:"subject"`
	Standard string   `json:"standard"`
	Title    string   `json:"title"`
	Topics   []string `json:"topics"`
}

type SelectionResponse struct {
	Subject string          `json:"subject"`
	Module  *ModuleResponse `json:"module"`
	Topic   *TopicResponse  `json:"topic"`
}

type DraftResponse struct {
	SourceId         string   `json:"source_id,omitempty"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Explanation      string   `json:"explanation,omitempty"`
	RealWorldExample string   `json:"real_world_example,omitempty"`
	Equation         string   `json:"equation,omitempty"`
	KeyPoints        []string `json:"key_points,omitempty"`
}

type OverlayResponse struct {
	Kind       string          `json:"kind"`
	Topic      *TopicResponse  `json:"topic,omitempty"`
	Module     *ModuleResponse `json:"module,omitempty"`
	DialogKind string          `json:"dialog_kind,omitempty"`
	Draft      *DraftResponse  `json:"draft,omitempty"`
}

// WorkspaceResponse is the interactive half of the dashboard; every overlay
// endpoint answers with it.
type WorkspaceResponse struct {
	Selection SelectionResponse `json:"selection"`
	Overlay   OverlayResponse   `json:"overlay"`
	Quiz      *quiz.View        `json:"quiz,omitempty"`
	Modules   []ModuleResponse  `json:"modules"`
	Topics    []TopicResponse   `json:"topics"`
}

type DashboardResponse struct {
	Profile   ProfileResponse   `json:"profile"`
	Subjects  []string          `json:"subjects"`
	Content   ContentResponse   `json:"content"`
	Workspace WorkspaceResponse `json:"workspace"`
	// Alert carries a collection load failure; the rest still renders.
	Alert string `json:"alert,omitempty"`
}

type SelectSubjectRequest struct {
	Subject string `json:"subject" validate:"required"`
}

type OpenRecordRequest struct {
	Id string `json:"id" validate:"required,uuid"`
}

type DialogRequest struct {
	Kind string `json:"kind" validate:"required,oneof=module topic"`
	// Id seeds an edit dialog from that record; empty opens an add dialog.
	Id string `json:"id" validate:"omitempty,uuid"`
}

type DraftRequest struct {
	Name             *string  `json:"name" validate:"omitempty,max=200"`
	Description      *string  `json:"description"`
	Explanation      *string  `json:"explanation"`
	RealWorldExample *string  `json:"real_world_example"`
	Equation         *string  `json:"equation"`
	KeyPoints        []string `json:"key_points"`
}

type AnswerRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}
