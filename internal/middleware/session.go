package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"m-cosmetics/internal/domain"

	"go.uber.org/zap"
)

// ActorResolver maps a session token to the acting identity
type ActorResolver interface {
	ResolveActor(ctx context.Context, token string) (*domain.Actor, error)
}

// SessionCookie describes the cookie that carries the session token
type SessionCookie struct {
	Name   string
	Secure bool
}

// Set writes the session token cookie
func (c SessionCookie) Set(w http.ResponseWriter, session *domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session token cookie
func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the session token sent with the request, if any
func (c SessionCookie) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SessionMiddleware resolves the session cookie into an actor available
// through ActorFromContext. Stale cookies are cleared.
func SessionMiddleware(resolver ActorResolver, cookie SessionCookie, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Token(r)

			actor, err := resolver.ResolveActor(r.Context(), token)
			if err != nil {
				logger.Error("Failed to resolve session",
					zap.Error(err),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if token != "" && !actor.IsAuthenticated() {
				cookie.Clear(w)
			}

			if actor.IsAuthenticated() {
				logger.Debug("Session resolved",
					zap.String("user_id", strconv.FormatInt(actor.User.ID, 10)),
					zap.Bool("is_admin", actor.IsAdmin()),
				)
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}
