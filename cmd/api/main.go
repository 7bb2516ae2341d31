package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hszk-dev/shortreel/internal/api/handler"
	"github.com/hszk-dev/shortreel/internal/api/middleware"
	"github.com/hszk-dev/shortreel/internal/config"
	"github.com/hszk-dev/shortreel/internal/infrastructure/auth"
	"github.com/hszk-dev/shortreel/internal/infrastructure/cache"
	"github.com/hszk-dev/shortreel/internal/infrastructure/postgres"
	"github.com/hszk-dev/shortreel/internal/infrastructure/queue"
	"github.com/hszk-dev/shortreel/internal/infrastructure/storage"
	"github.com/hszk-dev/shortreel/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Initialize infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	// Repositories and cache
	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	userRepo := postgres.NewUserRepository(pgClient.Pool())
	engagementRepo := postgres.NewEngagementRepository(pgClient.Pool())
	videoCache := cache.NewRedisVideoCache(redisClient)

	// Auth primitives
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := auth.NewPasswordHasher()

	// Usecases
	readSvc := usecase.NewVideoReadService(
		videoRepo, userRepo, engagementRepo, videoCache,
		usecase.DefaultVideoReadServiceConfig(),
	)
	engagementSvc := usecase.NewEngagementService(
		videoRepo, userRepo, engagementRepo, videoCache,
		usecase.DefaultEngagementServiceConfig(),
	)
	authSvc := usecase.NewAuthService(userRepo, hasher, jwtManager)
	uploadSvc := usecase.NewUploadService(videoRepo, storageClient, queueClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	videoHandler := handler.NewVideoHandler(readSvc, uploadSvc, engagementSvc)

	r := setupRouter(logger, jwtManager, authHandler, videoHandler, cfg.RateLimit)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(
	logger *slog.Logger,
	jwtManager *auth.JWTManager,
	authHandler *handler.AuthHandler,
	videoHandler *handler.VideoHandler,
	rl config.RateLimitConfig,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	globalLimiter := middleware.RateLimit(float64(rl.GlobalRatePerSecond), rl.GlobalRatePerSecond)
	likeLimiter := middleware.RateLimit(float64(rl.LikeRatePerMinute)/60.0, rl.LikeRatePerMinute)

	r.Route("/v1", func(r chi.Router) {
		r.Use(globalLimiter)

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Get("/videos", videoHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(jwtManager))
			r.Get("/videos/{id}", videoHandler.Get)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(jwtManager))
			r.Post("/videos", videoHandler.Upload)

			r.Group(func(r chi.Router) {
				r.Use(likeLimiter)
				r.Post("/videos/{id}/like", videoHandler.Like)
			})
		})
	})

	return r
}
