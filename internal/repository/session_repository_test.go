package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"m-cosmetics/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestSessionStore(t *testing.T) (SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSessionStore(client), mr
}

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	session := &domain.Session{
		Token:     "abc",
		UserID:    7,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	if ttl := mr.TTL("session:abc"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected key TTL within an hour, got %s", ttl)
	}

	found, err := store.Find(ctx, "abc")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.UserID != 7 {
		t.Fatalf("expected user 7, got %d", found.UserID)
	}

	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Find(ctx, "abc"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("deleting twice must succeed: %v", err)
	}
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	session := &domain.Session{Token: "short", UserID: 1, CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Minute)}
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Find(ctx, "short"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}

	expired := &domain.Session{Token: "old", UserID: 1, ExpiresAt: time.Now().Add(-time.Second)}
	if err := store.Create(ctx, expired); err == nil {
		t.Fatalf("expected storing an expired session to fail")
	}
}
