package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"m-cosmetics/internal/config"
	"m-cosmetics/internal/database"
	custommiddleware "m-cosmetics/internal/middleware"
	"m-cosmetics/internal/repository"
	"m-cosmetics/internal/service"
	"m-cosmetics/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	server := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	server.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      server.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) routes() http.Handler {
	cfg := s.config

	// Initialize repositories
	productRepo := repository.NewProductRepository(s.db.DB())
	userRepo := repository.NewUserRepository(s.db.DB())
	sessionStore := repository.NewRedisSessionStore(s.redis)

	// Initialize services
	authService := service.NewAuthService(userRepo, sessionStore, cfg.Session.TTL)
	catalogService := service.NewCatalogService(productRepo)
	adminService := service.NewAdminService(productRepo, userRepo, catalogService)

	secure := cfg.Session.Secure || cfg.IsProduction()
	cookie := custommiddleware.SessionCookie{Name: cfg.Session.CookieName, Secure: secure}
	flasher := custommiddleware.NewFlasher(cfg.Session.Secret, secure, s.logger)

	// Initialize handlers
	storefrontHandler := transport.NewStorefrontHandler(catalogService, cfg.Contact, flasher, s.logger)
	authHandler := transport.NewAuthHandler(authService, cookie, flasher, s.logger)
	adminHandler := transport.NewAdminHandler(catalogService, adminService, flasher, s.logger)

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, !cfg.IsProduction()))
	router.Use(custommiddleware.MetricsMiddleware)

	router.Get("/health", s.health)
	router.Handle("/metrics", promhttp.Handler())

	limiter := custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         "ratelimit:auth",
		OnlyMethods:       []string{http.MethodPost},
	}, s.logger)

	// Register routes
	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.SessionMiddleware(authService, cookie, s.logger))

		storefrontHandler.RegisterRoutes(r, custommiddleware.RequireLogin(s.logger))
		authHandler.RegisterRoutes(r, limiter)
		adminHandler.RegisterRoutes(r, custommiddleware.RequireStaff(flasher, s.logger))
	})

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbHealth := s.db.Health(ctx)
	redisStatus := "up"
	if err := s.redis.Ping(ctx).Err(); err != nil {
		s.logger.Warn("Redis health check failed", zap.Error(err))
		redisStatus = "down"
	}

	status := http.StatusOK
	overall := "ok"
	if dbHealth["status"] != "up" || redisStatus != "up" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
		"status":   overall,
		"database": dbHealth,
		"redis":    redisStatus,
	})
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
