package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultHistoryTTL is how long a user's conversation history survives
// without new activity.
const DefaultHistoryTTL = 24 * time.Hour

// maxHistoryMessages caps how many messages are retained per user so the
// prompt stays bounded.
const maxHistoryMessages = 50

// HistoryStore persists per-user conversation history.
type HistoryStore interface {
	Load(ctx context.Context, userID string) ([]ChatMessage, error)
	Save(ctx context.Context, userID string, history []ChatMessage) error
}

// RedisHistoryStore stores conversation history in Redis with a TTL.
type RedisHistoryStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewRedisHistoryStore creates a history store backed by the given Redis
// client. A zero ttl falls back to DefaultHistoryTTL.
func NewRedisHistoryStore(client *redis.Client, tracer trace.Tracer, ttl time.Duration) *RedisHistoryStore {
	if client == nil {
		panic("assistant: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("healthassistant.internal.assistant.history")
	}
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	return &RedisHistoryStore{
		redis:  client,
		tracer: tracer,
		ttl:    ttl,
	}
}

// Load returns the stored history for a user. An unknown user is not an
// error; the conversation simply starts empty.
func (s *RedisHistoryStore) Load(ctx context.Context, userID string) ([]ChatMessage, error) {
	ctx, span := s.tracer.Start(ctx, "assistant.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("assistant: failed to load history: %w", err)
	}

	var history []ChatMessage
	if err := json.Unmarshal(data, &history); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("assistant: failed to decode history: %w", err)
	}
	return history, nil
}

// Save persists the user's history and refreshes its TTL.
func (s *RedisHistoryStore) Save(ctx context.Context, userID string, history []ChatMessage) error {
	ctx, span := s.tracer.Start(ctx, "assistant.save_history")
	defer span.End()

	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(userID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: failed to persist history: %w", err)
	}
	return nil
}

func historyKey(userID string) string {
	return fmt.Sprintf("history:%s", userID)
}

// MemoryHistoryStore keeps conversation history in process memory. It is
// the fallback when no Redis address is configured.
type MemoryHistoryStore struct {
	mu        sync.RWMutex
	histories map[string][]ChatMessage
}

// NewMemoryHistoryStore creates an empty in-memory history store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{
		histories: make(map[string][]ChatMessage),
	}
}

func (s *MemoryHistoryStore) Load(_ context.Context, userID string) ([]ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.histories[userID]
	if !ok {
		return nil, nil
	}
	history := make([]ChatMessage, len(stored))
	copy(history, stored)
	return history, nil
}

func (s *MemoryHistoryStore) Save(_ context.Context, userID string, history []ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]ChatMessage, len(history))
	copy(stored, history)
	s.histories[userID] = stored
	return nil
}

var (
	_ HistoryStore = (*RedisHistoryStore)(nil)
	_ HistoryStore = (*MemoryHistoryStore)(nil)
)
