package domain

import (
	"time"
)

// User represents a registered account
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	IsStaff      bool       `json:"is_staff" db:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser" db:"is_superuser"`
	DateJoined   time.Time  `json:"date_joined" db:"date_joined"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// IsAdmin reports whether the user may use the admin panel
func (u *User) IsAdmin() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

// DisplayName returns the first name when set, the username otherwise
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Session binds an opaque token to an authenticated user
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Actor is the identity a request runs as. A nil User means anonymous.
type Actor struct {
	User         *User
	SessionToken string
}

// Anonymous returns an actor with no session
func Anonymous() *Actor {
	return &Actor{}
}

// IsAuthenticated reports whether the actor has an established session
func (a *Actor) IsAuthenticated() bool {
	return a != nil && a.User != nil
}

// IsAdmin reports whether the actor is staff or superuser
func (a *Actor) IsAdmin() bool {
	return a.IsAuthenticated() && a.User.IsAdmin()
}
