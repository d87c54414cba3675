package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"m-cosmetics/internal/domain"

	"github.com/redis/go-redis/v9"
)

// SessionStore persists sessions keyed by their opaque token
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Find(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

const sessionKeyPrefix = "session:"

type redisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a SessionStore backed by Redis. Entries expire
// on their own through the key TTL.
func NewRedisSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) key(token string) string {
	return sessionKeyPrefix + token
}

// Create stores the session until its expiry time
func (s *redisSessionStore) Create(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired at %s", session.ExpiresAt)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}

	return nil
}

// Find loads a session, returning domain.ErrSessionNotFound when it is missing
// or has expired
func (s *redisSessionStore) Find(ctx context.Context, token string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	session := &domain.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}

	return session, nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
