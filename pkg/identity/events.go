// Package identity carries auth-state changes from the identity provider to
// whoever tracks sessions.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const AuthStateTopic = "auth.state"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionRevoked     = errors.New("session revoked or expired")
)

// AuthEvent is one auth-state notification for a browser session. An empty
// UserID means the session signed out.
type AuthEvent struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	At        time.Time `json:"at"`
}

func (e AuthEvent) SignedIn() bool { return e.UserID != "" }

// Subscriber streams auth events until ctx is cancelled. The returned
// channel is closed when the subscription ends.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan AuthEvent, error)
}

type Publisher interface {
	Publish(ev AuthEvent) error
}

// Stream is the in-process auth-state bus. Publish blocks until every
// subscriber acked, which keeps sign-in/sign-out ordering intact.
type Stream struct {
	pubSub *gochannel.GoChannel
	wg     sync.WaitGroup
}

func NewStream(pubSub *gochannel.GoChannel) *Stream {
	if pubSub == nil {
		pubSub = gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	}
	return &Stream{pubSub: pubSub}
}

func (s *Stream) Publish(ev AuthEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal auth event: %w", err)
	}
	return s.pubSub.Publish(AuthStateTopic, message.NewMessage(watermill.NewUUID(), payload))
}

func (s *Stream) Subscribe(ctx context.Context) (<-chan AuthEvent, error) {
	messages, err := s.pubSub.Subscribe(ctx, AuthStateTopic)
	if err != nil {
		return nil, err
	}

	out := make(chan AuthEvent)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(out)
		for msg := range messages {
			var ev AuthEvent
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				// malformed payloads are dropped, redelivery would not fix them
				msg.Ack()
				continue
			}
			select {
			case out <- ev:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the bus down and waits for subscription goroutines.
func (s *Stream) Close() error {
	err := s.pubSub.Close()
	s.wg.Wait()
	return err
}
