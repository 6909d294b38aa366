package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pulseboard/backend/internal/api"
	"github.com/pulseboard/backend/internal/api/handlers"
	"github.com/pulseboard/backend/internal/cache/redis"
	"github.com/pulseboard/backend/internal/dashboard"
	"github.com/pulseboard/backend/internal/insights"
	"github.com/pulseboard/backend/internal/metrics"
	"github.com/pulseboard/backend/internal/middleware/ratelimit"
	"github.com/pulseboard/backend/internal/stream"
	"github.com/pulseboard/backend/pkg/circuitbreaker"
	"github.com/pulseboard/backend/pkg/config"
	appLogger "github.com/pulseboard/backend/pkg/logger"
	"github.com/pulseboard/backend/pkg/random"
	"github.com/pulseboard/backend/pkg/retry"
)

const shutdownTimeout = 10 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pulseboard",
	Short: "Live analytics dashboard API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Pulseboard API Server", zap.Uint64("seed", cfg.Stream.Seed))

	metrics.Init()

	src := random.New(cfg.Stream.Seed)

	feed := stream.NewFeed(
		stream.NewMetricStream(src, stream.DefaultSeeds()),
		stream.NewChartStream(src, stream.DefaultRevenue(), stream.DefaultCategories()),
		stream.NewHub(cfg.Stream.SubscriberBuffer),
		stream.OnRefresh(metrics.ObserveFrame),
	)

	responder, err := insights.NewResponder(src,
		insights.WithConfidenceRange(cfg.Insights.MinConfidence, cfg.Insights.MaxConfidence),
	)
	if err != nil {
		return fmt.Errorf("failed to create insight responder: %w", err)
	}

	var (
		counter insights.Counter = insights.NewMemoryCounter()
		ready   func() error
	)
	if cfg.Redis.Enabled {
		breaker := circuitbreaker.New("redis", circuitbreaker.Config{
			Logger: appLogger.Named("breaker"),
			OnStateChange: func(name string, _, to circuitbreaker.State) {
				metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			},
		})

		retryCfg := retry.DefaultConfig()
		retryCfg.Source = src
		retryCfg.Logger = appLogger.Named("retry")

		redisClient, err := redis.NewClient(context.Background(), redis.Options{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			Retry:     retryCfg,
			Breaker:   breaker,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()

		counter = redisClient
		ready = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return redisClient.Ping(ctx)
		}
	}

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:            appLogger.Named("ratelimit"),
		SweepEvery:        time.Minute,
	})
	defer limiter.Stop()

	shutdown := make(chan struct{})

	app := api.NewApp(api.Deps{
		Server: cfg.Server,
		Insights: handlers.InsightConfig{
			Delay:             cfg.Insights.Delay,
			MaxQuestionLength: cfg.Insights.MaxQuestionLength,
			Timeout:           time.Duration(cfg.Server.WriteTimeout) * time.Second,
			Done:              shutdown,
		},
		Data:       dashboard.NewGenerator(src, nil),
		Feed:       feed,
		Responder:  responder,
		Counter:    counter,
		Catalog:    insights.DefaultCatalog(),
		Limiter:    limiter,
		Ready:      ready,
		RequestLog: true,
	})

	var scheduler *stream.Scheduler
	if cfg.Stream.AutoRefresh {
		scheduler = stream.NewScheduler(appLogger.Named("scheduler"))
		if err := scheduler.ScheduleFeed(feed, cfg.Stream.MetricsInterval, cfg.Stream.ChartsInterval); err != nil {
			return fmt.Errorf("failed to schedule feed: %w", err)
		}
		scheduler.Start()
	} else {
		appLogger.Info("Auto refresh disabled")
	}

	addr := cfg.Server.Address()
	appLogger.Info("Server starting", zap.String("address", addr))

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	appLogger.Info("Server shutting down gracefully...")
	close(shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(ctx); err != nil {
			appLogger.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}

	appLogger.Info("Server stopped")
	return nil
}
