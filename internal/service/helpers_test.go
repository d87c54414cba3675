package service

import (
	"context"
	"testing"
	"time"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/repository/memory"

	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db       *memory.DB
	sessions *memory.SessionStore
	auth     AuthService
	catalog  CatalogService
	admin    AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := memory.New()
	sessions := memory.NewSessionStore()

	auth := NewAuthService(db.Users(), sessions, time.Hour)
	auth.(*authService).cost = bcrypt.MinCost

	catalog := NewCatalogService(db.Products())

	return &fixture{
		db:       db,
		sessions: sessions,
		auth:     auth,
		catalog:  catalog,
		admin:    NewAdminService(db.Products(), db.Users(), catalog),
	}
}

func (f *fixture) createUser(t *testing.T, username string, staff bool) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass-123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsStaff:      staff,
	}
	if err := f.db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func adminActor(f *fixture, t *testing.T) *domain.Actor {
	return &domain.Actor{User: f.createUser(t, "admin", true), SessionToken: "admin-token"}
}

func customerActor(f *fixture, t *testing.T) *domain.Actor {
	return &domain.Actor{User: f.createUser(t, "customer", false), SessionToken: "customer-token"}
}
