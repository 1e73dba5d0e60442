package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/chat"
	"edu-dashboard-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

const tutorPrompt = `You are a friendly %s tutor for school students in classes 9 to 12.
Answer the student's question in a few clear sentences. If the question is not about %s,
say so briefly and suggest what they could ask instead.`

// maxReplyTokens bounds a tutor answer to a few sentences.
const maxReplyTokens = 256

// InferenceError is answered to the client as {"error": Message}.
type InferenceError struct {
	Status  int
	Message string
	Err     error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

type IInferenceService interface {
	Answer(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type inferenceService struct {
	provider llm.LLMProvider
	models   map[string]string
	logger   logger.ILogger
	// availability remembers the provider's model list for a short while.
	availability *cache.Cache
}

// NewInferenceService serves the subjects in models (subject -> model name).
func NewInferenceService(provider llm.LLMProvider, models map[string]string, log logger.ILogger) IInferenceService {
	return &inferenceService{
		provider:     provider,
		models:       models,
		logger:       log,
		availability: cache.New(time.Minute, 5*time.Minute),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *inferenceService) Answer(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	subject := req.Subject
	if subject == "" {
		subject = chat.SubjectChemistry
	}
	if req.Message == "" {
		return nil, &InferenceError{Status: 400, Message: "No message provided"}
	}

	model, ok := s.loadedModel(ctx, subject)
	if !ok {
		return nil, &InferenceError{Status: 500, Message: capitalize(subject) + " model not loaded"}
	}

	answer, err := s.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(tutorPrompt, subject, subject)},
		{Role: llm.RoleUser, Content: req.Message},
	}, llm.WithModel(model), llm.WithTemperature(0.3), llm.WithMaxTokens(maxReplyTokens))
	if err != nil {
		s.logger.Error("INFERENCE", "Prediction failed", map[string]interface{}{"subject": subject, "error": err})
		return nil, &InferenceError{Status: 500, Message: fmt.Sprintf("Error processing your %s question", subject), Err: err}
	}

	return &dto.ChatResponse{Response: strings.TrimSpace(answer), Subject: subject}, nil
}

// loadedModel returns the model serving subject if the provider has it.
func (s *inferenceService) loadedModel(ctx context.Context, subject string) (string, bool) {
	model := s.models[subject]
	if model == "" || s.provider == nil {
		return "", false
	}
	lister, ok := s.provider.(llm.ModelLister)
	if !ok {
		return model, true
	}

	available, found := s.availability.Get("models")
	if !found {
		names, err := lister.Models(ctx)
		if err != nil {
			s.logger.Warn("INFERENCE", "Model list unavailable", map[string]interface{}{"error": err.Error()})
			return "", false
		}
		set := make(map[string]struct{}, len(names))
		for _, n := range names {
			set[n] = struct{}{}
			set[strings.TrimSuffix(n, ":latest")] = struct{}{}
		}
		s.availability.SetDefault("models", set)
		available = set
	}
	_, ok = available.(map[string]struct{})[model]
	return model, ok
}
