package events

import "time"

// Event is anything published on the domain event bus.
type Event interface {
	// EventType is the code the subject is derived from, e.g. "QUIZ_COMPLETED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

const (
	UserSignedUp     = "USER_SIGNED_UP"
	UserSignedIn     = "USER_SIGNED_IN"
	UserSignedOut    = "USER_SIGNED_OUT"
	ProfileCompleted = "PROFILE_COMPLETED"
	ModuleCreated    = "MODULE_CREATED"
	TopicCreated     = "TOPIC_CREATED"
	ModuleDeleted    = "MODULE_DELETED"
	TopicDeleted     = "TOPIC_DELETED"
	QuizCompleted    = "QUIZ_COMPLETED"
)

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
