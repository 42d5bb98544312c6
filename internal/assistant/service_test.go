package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

type fakeLLM struct {
	lastReq LLMRequest
	reply   string
	err     error
	calls   int
}

func (f *fakeLLM) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return LLMResponse{}, f.err
	}
	return LLMResponse{Text: f.reply, Usage: TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}, nil
}

func testClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)
	}
}

func TestServiceRespond(t *testing.T) {
	llm := &fakeLLM{reply: "Drink water and rest."}
	svc := NewService(llm, NewMemoryHistoryStore(), logging.Default(), WithClock(testClock()))

	reply, err := svc.Respond(context.Background(), "u1", "I have a mild headache")
	require.NoError(t, err)
	assert.Equal(t, "Drink water and rest.", reply)

	require.Len(t, llm.lastReq.System, 1)
	assert.Contains(t, llm.lastReq.System[0], "professional medical assistant")
	assert.Contains(t, llm.lastReq.System[0], "Current user ID: u1")
	assert.Contains(t, llm.lastReq.System[0], "2024-03-13")

	require.Len(t, llm.lastReq.Messages, 1)
	assert.Equal(t, ChatRoleUser, llm.lastReq.Messages[0].Role)
}

func TestServiceRespondThreadsHistory(t *testing.T) {
	llm := &fakeLLM{reply: "Since yesterday, you said."}
	history := NewMemoryHistoryStore()
	svc := NewService(llm, history, logging.Default())
	ctx := context.Background()

	_, err := svc.Respond(ctx, "u1", "I have a headache")
	require.NoError(t, err)

	_, err = svc.Respond(ctx, "u1", "When did it start?")
	require.NoError(t, err)

	// Second request carries the first exchange plus the new message.
	require.Len(t, llm.lastReq.Messages, 3)
	assert.Equal(t, "I have a headache", llm.lastReq.Messages[0].Content)
	assert.Equal(t, ChatRoleAssistant, llm.lastReq.Messages[1].Role)
	assert.Equal(t, "When did it start?", llm.lastReq.Messages[2].Content)
}

func TestServiceRespondValidatesInput(t *testing.T) {
	svc := NewService(&fakeLLM{}, nil, logging.Default())
	ctx := context.Background()

	_, err := svc.Respond(ctx, "", "hello")
	assert.Error(t, err)

	_, err = svc.Respond(ctx, "u1", "   ")
	assert.Error(t, err)
}

func TestServiceRespondUpstreamFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	history := NewMemoryHistoryStore()
	svc := NewService(llm, history, logging.Default())

	_, err := svc.Respond(context.Background(), "u1", "hello")
	require.Error(t, err)

	// Failed exchanges are not recorded.
	stored, err := history.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestServiceHistoryCap(t *testing.T) {
	history := NewMemoryHistoryStore()
	svc := NewService(&fakeLLM{reply: "ok"}, history, logging.Default())
	ctx := context.Background()

	for i := 0; i < maxHistoryMessages; i++ {
		svc.RecordExchange(ctx, "u1", fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	stored, err := history.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, maxHistoryMessages)

	// Oldest messages fall off first.
	assert.True(t, strings.HasPrefix(stored[0].Content, "question 25"), "got %q", stored[0].Content)
	assert.Equal(t, "answer 49", stored[len(stored)-1].Content)
}

func TestServiceBrokenHistoryStillResponds(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	svc := NewService(llm, failingHistory{}, logging.Default())

	reply, err := svc.Respond(context.Background(), "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

type failingHistory struct{}

func (failingHistory) Load(context.Context, string) ([]ChatMessage, error) {
	return nil, errors.New("redis down")
}

func (failingHistory) Save(context.Context, string, []ChatMessage) error {
	return errors.New("redis down")
}
