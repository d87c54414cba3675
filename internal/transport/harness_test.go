package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"m-cosmetics/internal/config"
	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/middleware"
	"m-cosmetics/internal/repository/memory"
	"m-cosmetics/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Velvet-Rose-77"

type harness struct {
	t       *testing.T
	db      *memory.DB
	auth    service.AuthService
	router  http.Handler
	cookie  middleware.SessionCookie
	flasher *middleware.Flasher
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := zap.NewNop()
	db := memory.New()
	sessions := memory.NewSessionStore()

	auth := service.NewAuthService(db.Users(), sessions, time.Hour)
	catalog := service.NewCatalogService(db.Products())
	admin := service.NewAdminService(db.Products(), db.Users(), catalog)

	cookie := middleware.SessionCookie{Name: "sessionid"}
	flasher := middleware.NewFlasher("test-secret", false, zap.NewNop())
	passthrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware(auth, cookie, logger))

	NewStorefrontHandler(catalog, config.ContactConfig{Email: "hello@example.com"}, flasher, logger).
		RegisterRoutes(r, middleware.RequireLogin(logger))
	NewAuthHandler(auth, cookie, flasher, logger).RegisterRoutes(r, passthrough)
	NewAdminHandler(catalog, admin, flasher, logger).RegisterRoutes(r, middleware.RequireStaff(flasher, logger))

	return &harness{t: t, db: db, auth: auth, router: r, cookie: cookie, flasher: flasher}
}

// createUser stores an account with testPassword
func (h *harness) createUser(username string, staff bool) *domain.User {
	h.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		h.t.Fatalf("hash: %v", err)
	}
	user := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsStaff:      staff,
	}
	if err := h.db.Users().Create(context.Background(), user); err != nil {
		h.t.Fatalf("create user: %v", err)
	}
	return user
}

// signIn returns a session cookie for a new account
func (h *harness) signIn(username string, staff bool) *http.Cookie {
	h.t.Helper()

	user := h.createUser(username, staff)
	session, err := h.auth.EstablishSession(context.Background(), user)
	if err != nil {
		h.t.Fatalf("establish session: %v", err)
	}
	return &http.Cookie{Name: h.cookie.Name, Value: session.Token}
}

func (h *harness) do(method, target string, body url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	h.t.Helper()

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(body.Encode())
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) doJSON(method, target string, payload string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	h.t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeView[T any](t *testing.T, w *httptest.ResponseRecorder) (View, T) {
	t.Helper()

	var envelope struct {
		Viewer   ViewerResponse       `json:"user"`
		Messages []middleware.Message `json:"messages"`
		Data     T                    `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid view payload %q: %v", w.Body.String(), err)
	}
	return View{Viewer: envelope.Viewer, Messages: envelope.Messages}, envelope.Data
}

func (h *harness) productCount() int {
	h.t.Helper()
	n, err := h.db.Products().Count(context.Background())
	if err != nil {
		h.t.Fatalf("count: %v", err)
	}
	return n
}
