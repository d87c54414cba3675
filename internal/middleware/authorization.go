package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/metrics"
	"m-cosmetics/internal/service"

	"go.uber.org/zap"
)

const (
	// LoginPath is where anonymous visitors of guarded pages are sent
	LoginPath = "/login/"

	// CatalogPath is the storefront landing page
	CatalogPath = "/"
)

// LoginRedirectURL builds the login URL that returns to target afterwards
func LoginRedirectURL(target string) string {
	if target == "" || target == CatalogPath {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(target)
}

// RequireStaff lets staff and superusers through. Anonymous visitors are sent
// to the login page and signed-in customers to the catalog, each with a notice.
func RequireStaff(flasher *Flasher, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())

			err := service.Authorize(actor)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, domain.ErrUnauthenticated):
				metrics.GuardRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				logger.Debug("Anonymous request to admin area",
					zap.String("path", r.URL.Path),
				)
				flasher.Add(w, r, LevelError, "You need to be logged in to access the admin panel.")
				http.Redirect(w, r, LoginRedirectURL(r.URL.RequestURI()), http.StatusFound)
			default:
				metrics.GuardRejectionsTotal.WithLabelValues("forbidden").Inc()
				logger.Warn("Non-staff user attempted to access admin area",
					zap.String("user_id", strconv.FormatInt(actor.User.ID, 10)),
					zap.String("path", r.URL.Path),
				)
				flasher.Add(w, r, LevelError, "You do not have permission to access the admin panel.")
				http.Redirect(w, r, CatalogPath, http.StatusFound)
			}
		})
	}
}

// RequireLogin sends anonymous visitors to the login page
func RequireLogin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := service.RequireAuthenticated(ActorFromContext(r.Context())); err != nil {
				metrics.GuardRejectionsTotal.WithLabelValues("unauthenticated").Inc()
				logger.Debug("Login required",
					zap.String("path", r.URL.Path),
				)
				http.Redirect(w, r, LoginRedirectURL(r.URL.RequestURI()), http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
