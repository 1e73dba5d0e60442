package service

import (
	"context"

	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/events"
	pktNats "edu-dashboard-be/pkg/nats"
)

const activityDurable = "dashboard-activity"

// EventSubscriber is the durable-consumer side of the event stream.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

// UserNotifier pushes a message to every open session of a user.
type UserNotifier interface {
	SendToUser(userID, kind string, payload interface{})
}

type IActivityService interface {
	Consume(ctx context.Context) error
	Handle(ctx context.Context, event events.Event) error
}

type activityService struct {
	subscriber EventSubscriber
	notifier   UserNotifier
	logger     logger.ILogger
}

func NewActivityService(subscriber EventSubscriber, notifier UserNotifier, log logger.ILogger) IActivityService {
	return &activityService{
		subscriber: subscriber,
		notifier:   notifier,
		logger:     log,
	}
}

func (s *activityService) Consume(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", activityDurable, s.Handle)
}

// Handle logs every dashboard event. Quiz results and finished profiles are
// also pushed to the user's open tabs.
func (s *activityService) Handle(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	s.logger.Info("ACTIVITY", "Event received", map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
		"data":        payload,
	})

	switch event.EventType() {
	case events.QuizCompleted, events.ProfileCompleted:
	default:
		return nil
	}

	userID, _ := payload["user_id"].(string)
	if userID == "" || s.notifier == nil {
		return nil
	}
	s.notifier.SendToUser(userID, "activity", map[string]interface{}{
		"event":       event.EventType(),
		"occurred_at": event.Timestamp(),
		"data":        payload,
	})
	return nil
}
