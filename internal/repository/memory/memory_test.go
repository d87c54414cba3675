package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/repository"
)

func TestProductRepo_ReturnsCopies(t *testing.T) {
	repo := New().Products()
	ctx := context.Background()

	p := &domain.Product{Name: "Rose Serum", Price: 2500}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, _ := repo.FindByID(ctx, p.ID)
	found.Name = "mutated"

	again, _ := repo.FindByID(ctx, p.ID)
	if again.Name != "Rose Serum" {
		t.Fatalf("stored product was mutated through a returned pointer")
	}
}

func TestProductRepo_ConcurrentCreates(t *testing.T) {
	repo := New().Products()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, &domain.Product{Name: "Lip Gloss", Price: 100})
		}()
	}
	wg.Wait()

	total, _ := repo.Count(ctx)
	if total != 50 {
		t.Fatalf("expected 50 products, got %d", total)
	}

	all, _ := repo.List(ctx, 0, 100)
	seen := map[int64]bool{}
	for _, p := range all {
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestUserRepo_Uniqueness(t *testing.T) {
	repo := New().Users()
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{Username: "a", Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.User{Username: "b", Email: "a@example.com"}); !errors.Is(err, repository.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := repo.Create(ctx, &domain.User{Username: "a", Email: "b@example.com"}); !errors.Is(err, repository.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	_ = store.Create(ctx, &domain.Session{Token: "t", UserID: 1, ExpiresAt: time.Now().Add(-time.Second)})
	if _, err := store.Find(ctx, "t"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be missing, got %v", err)
	}
}
