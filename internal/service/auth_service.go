package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/repository"
	"m-cosmetics/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// DefaultSessionTTL matches a two week browser session
	DefaultSessionTTL = 14 * 24 * time.Hour
)

// RegistrationInput is the sign-up form
type RegistrationInput struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"required,max=254,email"`
	FirstName string `form:"first_name" json:"first_name" validate:"max=30"`
	LastName  string `form:"last_name" json:"last_name" validate:"max=30"`
	Password1 string `form:"password1" json:"password1" validate:"required"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

// SuperuserInput provisions a privileged account from the command line
type SuperuserInput struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Email    string `form:"email" validate:"required,max=254,email"`
	Password string `form:"password" validate:"required"`
}

// AuthService defines the interface for authentication and sessions
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Register(ctx context.Context, input RegistrationInput) (*domain.User, *domain.Session, error)
	EstablishSession(ctx context.Context, user *domain.User) (*domain.Session, error)
	EndSession(ctx context.Context, token string) error
	ResolveActor(ctx context.Context, token string) (*domain.Actor, error)
	SetPassword(ctx context.Context, username, password string) error
	CreateSuperuser(ctx context.Context, input SuperuserInput) (*domain.User, error)
}

type authService struct {
	users      repository.UserRepository
	sessions   repository.SessionStore
	sessionTTL time.Duration
	cost       int
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionStore,
	sessionTTL time.Duration,
) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &authService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		cost:       BcryptCost,
		now:        time.Now,
	}
}

// Authenticate verifies the credentials. Every failure is reported as
// domain.ErrInvalidCredentials.
func (s *authService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Spend the same time as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.verifyPassword(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now

	return user, nil
}

// Register validates the sign-up form, creates a regular account and signs
// the new user in
func (s *authService) Register(ctx context.Context, input RegistrationInput) (*domain.User, *domain.Session, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	var errs domain.ValidationErrors
	if err := validation.Struct(input); err != nil {
		ve, ok := domain.AsValidationErrors(err)
		if !ok {
			return nil, nil, err
		}
		errs = ve
	}

	if !errs.Has("email") {
		exists, err := s.users.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			errs.Add("email", "This email is already registered.")
		}
	}

	if !errs.Has("username") {
		exists, err := s.users.ExistsByUsername(ctx, input.Username)
		if err != nil {
			return nil, nil, err
		}
		if exists {
			errs.Add("username", "A user with that username already exists.")
		}
	}

	user := &domain.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	if !errs.Has("password2") {
		for _, problem := range ValidatePassword(input.Password2, user) {
			errs.Add("password2", problem)
		}
	}

	if err := errs.Err(); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := s.hashPassword(input.Password1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashedPassword
	user.DateJoined = s.now().UTC()

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, nil, domain.ValidationErrors{{Field: "email", Message: "This email is already registered."}}
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, nil, domain.ValidationErrors{{Field: "username", Message: "A user with that username already exists."}}
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	session, err := s.EstablishSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// EstablishSession issues a fresh opaque session token for the user
func (s *authService) EstablishSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := s.now()
	session := &domain.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to establish session: %w", err)
	}

	return session, nil
}

// EndSession invalidates the token. Unknown tokens are ignored.
func (s *authService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// ResolveActor maps a session token to the acting user. Missing, expired or
// orphaned sessions resolve to an anonymous actor.
func (s *authService) ResolveActor(ctx context.Context, token string) (*domain.Actor, error) {
	if token == "" {
		return domain.Anonymous(), nil
	}

	session, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Anonymous(), nil
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, token)
			return domain.Anonymous(), nil
		}
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	return &domain.Actor{User: user, SessionToken: token}, nil
}

// SetPassword replaces the password of an existing account
func (s *authService) SetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return domain.ValidationErrors{{Field: "password", Message: "This field is required."}}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, user.ID, hashedPassword)
}

// CreateSuperuser creates a staff account with every permission
func (s *authService) CreateSuperuser(ctx context.Context, input SuperuserInput) (*domain.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		IsStaff:      true,
		IsSuperuser:  true,
		DateJoined:   s.now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *authService) verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (s *authService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("m-cosmetics-dummy-password"), s.cost)
	})
	return s.dummyHash
}
