package transport

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"m-cosmetics/internal/domain"
	"m-cosmetics/internal/metrics"
	"m-cosmetics/internal/middleware"
	"m-cosmetics/internal/service"
	"m-cosmetics/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest is the login form
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=150"`
	Password string `form:"password" json:"password" validate:"required"`
}

// FormResponse describes the fields a form page expects
type FormResponse struct {
	Fields []string `json:"fields"`
	Next   string   `json:"next,omitempty"`
}

var (
	registrationFields = []string{"first_name", "last_name", "email", "username", "password1", "password2"}
	loginFields        = []string{"username", "password"}
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	auth   service.AuthService
	cookie middleware.SessionCookie
	pages
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	auth service.AuthService,
	cookie middleware.SessionCookie,
	flasher *middleware.Flasher,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		cookie: cookie,
		pages:  pages{flasher: flasher, logger: logger},
	}
}

// RegisterRoutes registers the account routes. The limiter guards the
// credential-accepting endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(limiter)
		r.Get("/register/", h.RegisterForm)
		r.Post("/register/", h.Register)
		r.Get("/login/", h.LoginForm)
		r.Post("/login/", h.Login)
	})
	r.Post("/logout/", h.Logout)
}

// RegisterForm shows the sign-up form
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.ActorFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, middleware.CatalogPath, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, FormResponse{Fields: registrationFields})
}

// Register creates a customer account and signs it in
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if middleware.ActorFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, middleware.CatalogPath, http.StatusFound)
		return
	}

	var req service.RegistrationInput
	if err := bindForm(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, session, err := h.auth.Register(r.Context(), req)
	if err != nil {
		h.logger.Debug("Registration rejected", zap.Error(err))
		h.fail(w, r, err)
		return
	}

	h.cookie.Set(w, session)
	metrics.RegistrationsTotal.Inc()
	h.logger.Info("User registered successfully",
		zap.String("user_id", strconv.FormatInt(user.ID, 10)),
		zap.String("username", user.Username),
	)

	h.redirect(w, r, middleware.CatalogPath, middleware.LevelSuccess,
		"Account created successfully! Welcome to M Cosmetics.")
}

// LoginForm shows the login form
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.ActorFromContext(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, middleware.CatalogPath, http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, FormResponse{
		Fields: loginFields,
		Next:   safeNext(r.URL.Query().Get("next")),
	})
}

// Login authenticates the credentials and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFromContext(r.Context())
	if actor.IsAuthenticated() {
		http.Redirect(w, r, middleware.CatalogPath, http.StatusFound)
		return
	}

	var req LoginRequest
	if err := bindForm(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Struct(req); err != nil {
		h.fail(w, r, err)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			h.logger.Info("Login failed", zap.String("username", req.Username))
		}
		h.fail(w, r, err)
		return
	}

	// A fresh token on every login
	if token := h.cookie.Token(r); token != "" {
		_ = h.auth.EndSession(r.Context(), token)
	}

	session, err := h.auth.EstablishSession(r.Context(), user)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.cookie.Set(w, session)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.logger.Info("User logged in",
		zap.String("user_id", strconv.FormatInt(user.ID, 10)),
	)

	h.redirect(w, r, safeNext(r.URL.Query().Get("next")), middleware.LevelSuccess,
		"Welcome back, "+user.DisplayName()+"!")
}

// Logout ends the session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ActorFromContext(r.Context()).SessionToken
	if token == "" {
		token = h.cookie.Token(r)
	}

	if err := h.auth.EndSession(r.Context(), token); err != nil {
		h.fail(w, r, err)
		return
	}

	h.cookie.Clear(w)
	h.redirect(w, r, middleware.CatalogPath, middleware.LevelSuccess, "You have been logged out.")
}

// safeNext accepts only local absolute paths as redirect targets
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return middleware.CatalogPath
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return middleware.CatalogPath
	}
	return next
}
