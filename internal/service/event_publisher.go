package service

import (
	"context"
	"time"

	"edu-dashboard-be/internal/entity"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/events"
	"edu-dashboard-be/pkg/quiz"
)

// EventSink is the publishing side of the domain event bus.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// IEventPublisher emits the dashboard's domain events. Publishing is best
// effort: failures are logged and never fail the request.
type IEventPublisher interface {
	UserSignedUp(ctx context.Context, userId, email string)
	UserSignedIn(ctx context.Context, userId, sessionId string)
	UserSignedOut(ctx context.Context, userId, sessionId string)
	ProfileCompleted(ctx context.Context, profile *entity.Profile)
	ModuleCreated(ctx context.Context, module *entity.Module)
	TopicCreated(ctx context.Context, topic *entity.Topic)
	ModuleDeleted(ctx context.Context, userId, moduleId string)
	TopicDeleted(ctx context.Context, userId, topicId string)
	QuizCompleted(ctx context.Context, userId, subject, topic string, result quiz.Result)
}

type eventPublisher struct {
	sink   EventSink
	logger logger.ILogger
}

// NewEventPublisher accepts a nil sink, e.g. when NATS is unreachable; every
// publish is then skipped.
func NewEventPublisher(sink EventSink, log logger.ILogger) IEventPublisher {
	return &eventPublisher{sink: sink, logger: log}
}

func (p *eventPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sink == nil {
		return
	}
	evt := events.BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now()}
	if err := p.sink.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *eventPublisher) UserSignedUp(ctx context.Context, userId, email string) {
	p.publish(ctx, events.UserSignedUp, map[string]interface{}{
		"user_id": userId,
		"email":   email,
	})
}

func (p *eventPublisher) UserSignedIn(ctx context.Context, userId, sessionId string) {
	p.publish(ctx, events.UserSignedIn, map[string]interface{}{
		"user_id":    userId,
		"session_id": sessionId,
	})
}

func (p *eventPublisher) UserSignedOut(ctx context.Context, userId, sessionId string) {
	p.publish(ctx, events.UserSignedOut, map[string]interface{}{
		"user_id":    userId,
		"session_id": sessionId,
	})
}

func (p *eventPublisher) ProfileCompleted(ctx context.Context, profile *entity.Profile) {
	p.publish(ctx, events.ProfileCompleted, map[string]interface{}{
		"user_id":  profile.UserId,
		"standard": profile.Standard,
		"subjects": profile.Subjects,
	})
}

func (p *eventPublisher) ModuleCreated(ctx context.Context, module *entity.Module) {
	p.publish(ctx, events.ModuleCreated, map[string]interface{}{
		"module_id": module.Id,
		"name":      module.Name,
		"subject":   module.Subject,
	})
}

func (p *eventPublisher) TopicCreated(ctx context.Context, topic *entity.Topic) {
	data := map[string]interface{}{
		"topic_id": topic.Id,
		"name":     topic.Name,
		"subject":  topic.Subject,
	}
	if topic.ModuleId != nil {
		data["module_id"] = *topic.ModuleId
	}
	p.publish(ctx, events.TopicCreated, data)
}

func (p *eventPublisher) ModuleDeleted(ctx context.Context, userId, moduleId string) {
	p.publish(ctx, events.ModuleDeleted, map[string]interface{}{
		"user_id":   userId,
		"module_id": moduleId,
	})
}

func (p *eventPublisher) TopicDeleted(ctx context.Context, userId, topicId string) {
	p.publish(ctx, events.TopicDeleted, map[string]interface{}{
		"user_id":  userId,
		"topic_id": topicId,
	})
}

func (p *eventPublisher) QuizCompleted(ctx context.Context, userId, subject, topic string, result quiz.Result) {
	p.publish(ctx, events.QuizCompleted, map[string]interface{}{
		"user_id": userId,
		"subject": subject,
		"topic":   topic,
		"score":   result.Score,
		"total":   result.Total,
		"message": result.Message,
	})
}
