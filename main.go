package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notes-be/internal/cache"
	"notes-be/internal/config"
	"notes-be/internal/database"
	"notes-be/internal/jwt"
	"notes-be/internal/logger"
	"notes-be/internal/middleware"
	"notes-be/internal/repository"
	"notes-be/internal/router"
	"notes-be/internal/service"
	"notes-be/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"
)

func main() {
	started := time.Now()

	// Load configuration
	cfg := config.Load()
	log := logger.New("notes-api", cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validation.Register(); err != nil {
		log.Error("register validators", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewConnection(ctx, cfg.DatabaseURL, cfg.DBConnectAttempts, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run database migrations
	if err := database.RunMigrations(ctx, db, log); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var (
		cacheClient cache.Cache
		windowStore middleware.WindowStore = middleware.NewMemoryWindowStore()
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", "error", err)
			cacheClient = nil
		} else {
			log.Info("connected to redis cache")
			windowStore = middleware.NewCacheWindowStore(cacheClient)
			defer cacheClient.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)

	// Initialize services
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTDuration())
	authService := service.NewAuthService(userRepo, cacheClient, jwtService, log)
	noteService := service.NewNoteService(noteRepo, log)
	userService := service.NewUserService(userRepo, cacheClient, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	authRateLimiter := middleware.NewRateLimiter("auth", rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst, metrics)
	defer authRateLimiter.Close()

	handler := router.New(router.Deps{
		Log:             log,
		Development:     cfg.IsDevelopment(),
		CORSOrigins:     cfg.CORSOrigins,
		TrustedProxies:  cfg.TrustedProxies,
		FrontendURL:     cfg.FrontendURL,
		Started:         started,
		AuthService:     authService,
		NoteService:     noteService,
		UserService:     userService,
		WindowStore:     windowStore,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		AuthLimiter:     authRateLimiter,
		Metrics:         metrics,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
