package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dkovalenko/railgo/internal/config"
	"github.com/dkovalenko/railgo/internal/postgres"
	"github.com/dkovalenko/railgo/internal/redis"
	postgresrepo "github.com/dkovalenko/railgo/internal/repository/postgres"
	redisrepo "github.com/dkovalenko/railgo/internal/repository/redis"
	"github.com/dkovalenko/railgo/internal/scheduler"
	"github.com/dkovalenko/railgo/internal/service"
	"github.com/dkovalenko/railgo/internal/service/journeys"
	"github.com/dkovalenko/railgo/internal/service/orders"
	httpgin "github.com/dkovalenko/railgo/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	scheduler  *scheduler.Scheduler
	pubsub     *redisrepo.JourneysPubSub
	services   *service.Services
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{
		DSN:      dsn,
		MinConns: int32(cfg.Postgres.MinConns),
		MaxConns: int32(cfg.Postgres.MaxConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewJourneysPubSub(rdb)

	var limiter *redisrepo.SlidingWindowLimiter
	if cfg.RateLimit.Enabled {
		limiter = redisrepo.NewSlidingWindowLimiter(
			rdb,
			"railgo:v1:rl:orders",
			cfg.RateLimit.Limit,
			cfg.RateLimit.Window,
		)
	}
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Services
	services := service.NewServices(store, cache, pubsub, limiter, service.Config{
		Journeys: journeys.Config{
			AvailabilityTTL: 15 * time.Second,
			SummaryTTL:      time.Minute,
		},
		Orders: orders.Config{},
	})

	router := httpgin.NewRouter(services, idempotencyStore, logger)

	sched := scheduler.New(services.Audit, scheduler.Config{
		Enabled:   cfg.Audit.PruneEnabled,
		RunAt:     cfg.Audit.PruneRunAt,
		Retention: cfg.Audit.Retention,
	}, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		scheduler: sched,
		pubsub:    pubsub,
		services:  services,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := a.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Rebuild the availability projection for journeys changed by any
	// instance, so the next read after a write hits a warm cache.
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, journeyID int64) {
			if _, err := a.services.Journeys.Availability(ctx, journeyID); err != nil {
				a.logger.Warn("availability refresh failed",
					"journey_id", journeyID, "error", err)
			}
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down")
		a.scheduler.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
