package service

import (
	"context"
	"errors"
	"testing"

	"edu-dashboard-be/internal/dto"
	"edu-dashboard-be/internal/pkg/logger"
	"edu-dashboard-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	models   []string
	modelErr error
	answer   string
	chatErr  error

	listed   int
	lastOpts llm.Options
	lastMsgs []llm.Message
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastMsgs = history
	f.lastOpts = llm.Options{}
	for _, o := range options {
		o(&f.lastOpts)
	}
	return f.answer, f.chatErr
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.answer, f.chatErr
}

func (f *fakeProvider) Models(ctx context.Context) ([]string, error) {
	f.listed++
	return f.models, f.modelErr
}

func inferenceError(t *testing.T, err error) *InferenceError {
	var ie *InferenceError
	require.True(t, errors.As(err, &ie), "want *InferenceError, got %v", err)
	return ie
}

func TestAnswerDefaultsToChemistry(t *testing.T) {
	p := &fakeProvider{models: []string{"llama3:latest"}, answer: "  An acid donates protons.\n"}
	svc := NewInferenceService(p, map[string]string{"chemistry": "llama3"}, logger.NewNopLogger())

	res, err := svc.Answer(context.Background(), &dto.ChatRequest{Message: "What is an acid?"})
	require.NoError(t, err)
	assert.Equal(t, "chemistry", res.Subject)
	assert.Equal(t, "An acid donates protons.", res.Response)
	assert.Equal(t, "llama3", p.lastOpts.Model)
	assert.Equal(t, maxReplyTokens, p.lastOpts.MaxTokens)
	require.Len(t, p.lastMsgs, 2)
	assert.Equal(t, llm.RoleSystem, p.lastMsgs[0].Role)
	assert.Equal(t, "What is an acid?", p.lastMsgs[1].Content)
}

func TestAnswerErrors(t *testing.T) {
	p := &fakeProvider{models: []string{"llama3"}}
	svc := NewInferenceService(p, map[string]string{"chemistry": "llama3"}, logger.NewNopLogger())

	_, err := svc.Answer(context.Background(), &dto.ChatRequest{Subject: "biology"})
	ie := inferenceError(t, err)
	assert.Equal(t, 400, ie.Status)
	assert.Equal(t, "No message provided", ie.Message)

	_, err = svc.Answer(context.Background(), &dto.ChatRequest{Message: "cells?", Subject: "biology"})
	ie = inferenceError(t, err)
	assert.Equal(t, 500, ie.Status)
	assert.Equal(t, "Biology model not loaded", ie.Message)

	p.chatErr = errors.New("connection refused")
	_, err = svc.Answer(context.Background(), &dto.ChatRequest{Message: "pH?", Subject: "chemistry"})
	ie = inferenceError(t, err)
	assert.Equal(t, 500, ie.Status)
	assert.Equal(t, "Error processing your chemistry question", ie.Message)
	assert.ErrorIs(t, err, p.chatErr)
}

func TestModelNotPulled(t *testing.T) {
	p := &fakeProvider{models: []string{"mistral:latest"}, answer: "ok"}
	svc := NewInferenceService(p, map[string]string{"chemistry": "llama3"}, logger.NewNopLogger())

	_, err := svc.Answer(context.Background(), &dto.ChatRequest{Message: "hi"})
	assert.Equal(t, "Chemistry model not loaded", inferenceError(t, err).Message)

	// the model list is cached between requests
	_, _ = svc.Answer(context.Background(), &dto.ChatRequest{Message: "hi"})
	assert.Equal(t, 1, p.listed)
}
