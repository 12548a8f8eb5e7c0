package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/assistant-service/internal/domain"
)

// ErrSessionNotFound is returned when a user has no active conversation.
var ErrSessionNotFound = errors.New("conversation session not found")

// SessionStore keeps the per-user conversation state while a session is
// alive. Sessions are ephemeral: they expire on TTL and are gone when the
// user ends the conversation.
type SessionStore interface {
	Get(ctx context.Context, userID string) (*domain.Conversation, error)
	Save(ctx context.Context, conv *domain.Conversation) error
	Delete(ctx context.Context, userID string) error
}

const sessionKeyPrefix = "assistant:session:"

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore keeps sessions in Redis as JSON values with a TTL.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{client: client, ttl: ttl}
}

func (s *redisSessionStore) Get(ctx context.Context, userID string) (*domain.Conversation, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var conv domain.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *redisSessionStore) Save(ctx context.Context, conv *domain.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+conv.UserID, raw, s.ttl).Err()
}

func (s *redisSessionStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+userID).Err()
}
