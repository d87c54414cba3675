package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Message levels
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

const (
	flashCookieName = "messages"
	flashTTL        = 10 * time.Minute

	// maxFlashMessages bounds the cookie size; older notices are dropped first
	maxFlashMessages = 10
)

// Message is a one-time notice shown on the next page
type Message struct {
	Level string `json:"level"`
	Text  string `json:"message"`
}

type flashClaims struct {
	Messages []Message `json:"messages"`
	jwt.RegisteredClaims
}

// Flasher keeps notices in a signed cookie between a redirect and the page
// it leads to
type Flasher struct {
	secret []byte
	secure bool
	method jwt.SigningMethod
	logger *zap.Logger
	now    func() time.Time
}

// NewFlasher creates a Flasher signing cookies with secret
func NewFlasher(secret string, secure bool, logger *zap.Logger) *Flasher {
	return &Flasher{
		secret: []byte(secret),
		secure: secure,
		method: jwt.SigningMethodHS256,
		logger: logger,
		now:    time.Now,
	}
}

// Add queues a notice, keeping any not yet shown
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, level, text string) {
	messages := append(f.read(r), Message{Level: level, Text: text})
	if len(messages) > maxFlashMessages {
		messages = messages[len(messages)-maxFlashMessages:]
	}

	now := f.now()
	claims := flashClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
		},
	}

	token, err := jwt.NewWithClaims(f.method, claims).SignedString(f.secret)
	if err != nil {
		f.logger.Error("Failed to sign flash messages",
			zap.Error(err),
			zap.String("level", level),
			zap.String("path", r.URL.Path),
		)
		return
	}

	// Later reads within the same request see the new value
	r.AddCookie(&http.Cookie{Name: flashCookieName, Value: token})
	http.SetCookie(w, f.cookie(token, int(flashTTL.Seconds())))
}

// Pop returns the queued notices and clears them
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []Message {
	messages := f.read(r)
	if _, err := r.Cookie(flashCookieName); err == nil {
		http.SetCookie(w, f.cookie("", -1))
	}
	if messages == nil {
		return []Message{}
	}
	return messages
}

func (f *Flasher) read(r *http.Request) []Message {
	var latest string
	for _, c := range r.Cookies() {
		if c.Name == flashCookieName {
			latest = c.Value
		}
	}
	if latest == "" {
		return nil
	}

	claims := &flashClaims{}
	token, err := jwt.ParseWithClaims(latest, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return f.secret, nil
	}, jwt.WithTimeFunc(f.now))
	if err != nil || !token.Valid {
		return nil
	}

	return claims.Messages
}

func (f *Flasher) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
