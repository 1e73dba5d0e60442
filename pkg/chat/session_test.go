package chat

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 { return &v }

func TestSendBlankIsNoop(t *testing.T) {
	var calls int32
	s := NewSession(EndpointFunc(func(ctx context.Context, req Request) (Reply, error) {
		atomic.AddInt32(&calls, 1)
		return Reply{}, nil
	}), nil)

	for _, in := range []string{"", "   ", "\n\t"} {
		require.NoError(t, s.Send(context.Background(), in))
	}

	assert.Empty(t, s.Transcript())
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.False(t, s.Loading())
}

func TestSendSuccess(t *testing.T) {
	var got Request
	s := NewSession(EndpointFunc(func(ctx context.Context, req Request) (Reply, error) {
		got = req
		return Reply{Response: "pH measures acidity", Confidence: float(0.92), Subject: "chemistry"}, nil
	}), nil)

	require.NoError(t, s.Send(context.Background(), "What is pH?"))

	assert.Equal(t, Request{Message: "What is pH?", Subject: SubjectChemistry}, got)
	tr := s.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, Message{Text: "What is pH?", Sender: SenderUser}, tr[0])
	assert.Equal(t, "pH measures acidity", tr[1].Text)
	assert.Equal(t, SenderAssistant, tr[1].Sender)
	require.NotNil(t, tr[1].Confidence)
	assert.Equal(t, 0.92, *tr[1].Confidence)
	assert.Equal(t, "chemistry", tr[1].Subject)
	assert.False(t, tr[1].Error)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Snapshot().Error)
}

func TestSendTrimsInput(t *testing.T) {
	var got Request
	s := NewSession(EndpointFunc(func(ctx context.Context, req Request) (Reply, error) {
		got = req
		return Reply{Response: "ok"}, nil
	}), nil)

	require.NoError(t, s.Send(context.Background(), "  What is DNA?  "))
	assert.Equal(t, "What is DNA?", got.Message)
	assert.Equal(t, "What is DNA?", s.Transcript()[0].Text)
}

func TestSendFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantBanner string
	}{
		{name: "server error with message", err: &ServerError{Status: 500, Message: "Chemistry model not loaded"}, wantBanner: "Chemistry model not loaded"},
		{name: "server error without message", err: &ServerError{Status: 502}, wantBanner: ErrMessageDefault},
		{name: "transport failure", err: errors.New("dial tcp: connection refused"), wantBanner: ErrMessageConnect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(EndpointFunc(func(ctx context.Context, req Request) (Reply, error) {
				return Reply{}, tt.err
			}), nil)

			err := s.Send(context.Background(), "hello")
			assert.ErrorIs(t, err, tt.err)

			snap := s.Snapshot()
			assert.Equal(t, tt.wantBanner, snap.Error)
			assert.False(t, snap.Loading)
			require.Len(t, snap.Transcript, 2)
			assert.Equal(t, Message{Text: AssistantErrorReply, Sender: SenderAssistant, Error: true}, snap.Transcript[1])
		})
	}
}

func TestSendClearsPreviousBanner(t *testing.T) {
	fail := true
	s := NewSession(EndpointFunc(func(ctx context.Context, req Request) (Reply, error) {
		if fail {
			return Reply{}, errors.New("boom")
		}
		return Reply{Response: "fine"}, nil
	}), nil)

	_ = s.Send(context.Background(), "one")
	require.NotEmpty(t, s.Snapshot().Error)

	fail = false
	require.NoError(t, s.Send(context.Background(), "two"))
	assert.Empty(t, s.Snapshot().Error)
}

func TestSetSubjectClearsTranscript(t *testing.T) {
	s := NewSession(EndpointFunc(func(ctx context.Context, req Request) (Reply, error) {
		return Reply{Response: "answer", Subject: req.Subject}, nil
	}), nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Send(context.Background(), "question"))
	}
	require.Len(t, s.Transcript(), 6)

	require.NoError(t, s.SetSubject(SubjectBiology))
	assert.Empty(t, s.Transcript())
	assert.Equal(t, SubjectBiology, s.Subject())

	assert.ErrorIs(t, s.SetSubject("history"), ErrUnknownSubject)
	assert.Equal(t, SubjectBiology, s.Subject())
}

func TestSetSubjectDiscardsInflightReply(t *testing.T) {
	started := make(chan struct{})
	s := NewSession(EndpointFunc(func(ctx context.Context, req Request) (Reply, error) {
		close(started)
		<-ctx.Done()
		return Reply{}, ctx.Err()
	}), nil)

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), "slow question") }()

	<-started
	assert.True(t, s.Loading())
	require.NoError(t, s.SetSubject(SubjectBiology))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrDiscarded)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request was not cancelled")
	}

	snap := s.Snapshot()
	assert.Empty(t, snap.Transcript)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
}
