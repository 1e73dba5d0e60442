// Package chat holds the transcript for the subject tutor assistant and
// drives one request per send against an Endpoint.
package chat

import (
	"context"
	"fmt"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type Message struct {
	Text       string   `json:"text"`
	Sender     Sender   `json:"sender"`
	Confidence *float64 `json:"confidence,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Error      bool     `json:"error,omitempty"`
}

type Request struct {
	Message string `json:"message"`
	Subject string `json:"subject"`
}

type Reply struct {
	Response   string   `json:"response"`
	Confidence *float64 `json:"confidence,omitempty"`
	Subject    string   `json:"subject"`
}

// Endpoint answers one chat request. A non-2xx answer from a remote
// endpoint is reported as *ServerError; any other error counts as a
// transport failure.
type Endpoint interface {
	Ask(ctx context.Context, req Request) (Reply, error)
}

// EndpointFunc adapts a function to Endpoint.
type EndpointFunc func(ctx context.Context, req Request) (Reply, error)

func (f EndpointFunc) Ask(ctx context.Context, req Request) (Reply, error) {
	return f(ctx, req)
}

type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat endpoint returned status %d", e.Status)
	}
	return fmt.Sprintf("chat endpoint returned status %d: %s", e.Status, e.Message)
}
