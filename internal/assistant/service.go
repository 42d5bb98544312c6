package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sathviktm/AI-Health-Assistant/pkg/logging"
)

const systemPromptTemplate = `You are a professional medical assistant. Help users with medical queries and appointment management.
Current user ID: %s
Current date: %s
Follow these rules:
1. Answer in a clear, compassionate and professional tone
2. For appointment bookings, ask for the user's email address and let them know they will receive a confirmation email
3. Only give responses to medical related queries`

// Service coordinates the chat relay: it loads the user's conversation
// history, calls the language model and records the exchange.
type Service struct {
	llm     LLMClient
	history HistoryStore
	logger  *logging.Logger
	now     func() time.Time

	maxTokens   int32
	temperature float32
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a chat service.
func NewService(llm LLMClient, history HistoryStore, logger *logging.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if history == nil {
		history = NewMemoryHistoryStore()
	}
	s := &Service{
		llm:         llm,
		history:     history,
		logger:      logger,
		now:         time.Now,
		maxTokens:   1024,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Respond answers a user message, threading prior conversation history
// into the model request and persisting the new exchange afterwards.
func (s *Service) Respond(ctx context.Context, userID, message string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("assistant: user id is required")
	}
	if strings.TrimSpace(message) == "" {
		return "", errors.New("assistant: message is required")
	}

	history, err := s.history.Load(ctx, userID)
	if err != nil {
		// A broken history backend should not take the chat down.
		s.logger.Warn("failed to load conversation history", "user_id", userID, "error", err)
		history = nil
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: message})

	req := LLMRequest{
		System:      []string{s.systemPrompt(userID)},
		Messages:    messages,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	resp, err := s.llm.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("assistant: completion failed: %w", err)
	}

	s.logger.Info("chat exchange completed",
		"user_id", userID,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)

	s.RecordExchange(ctx, userID, message, resp.Text)
	return resp.Text, nil
}

// RecordExchange appends a user/assistant message pair to the stored
// history, trimming the oldest messages once the cap is reached. Voice and
// image relays use this to keep follow-up chat turns in context.
func (s *Service) RecordExchange(ctx context.Context, userID, userText, assistantText string) {
	history, err := s.history.Load(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load history for update", "user_id", userID, "error", err)
		history = nil
	}

	history = append(history,
		ChatMessage{Role: ChatRoleUser, Content: userText},
		ChatMessage{Role: ChatRoleAssistant, Content: assistantText},
	)
	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}

	if err := s.history.Save(ctx, userID, history); err != nil {
		s.logger.Warn("failed to persist conversation history", "user_id", userID, "error", err)
	}
}

func (s *Service) systemPrompt(userID string) string {
	return fmt.Sprintf(systemPromptTemplate, userID, s.now().Format("2006-01-02"))
}
