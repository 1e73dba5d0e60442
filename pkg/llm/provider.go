package llm

import (
	"context"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn in a provider-agnostic form.
type Message struct {
	Role    string
	Content string
}

type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // overrides the provider default
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// LLMProvider is any backend that can answer a chat history.
type LLMProvider interface {
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ModelLister is implemented by providers that can report which models are
// currently available to them.
type ModelLister interface {
	Models(ctx context.Context) ([]string, error)
}
