package main

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

	"github.com/gin-gonic/gin"

	"shopadmin/api/routes"
	"shopadmin/internal/audit"
	"shopadmin/internal/auth"
	"shopadmin/internal/shared/config"
	"shopadmin/internal/shared/database"
	"shopadmin/pkg/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		logger.GetDefault().Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	appLogger := logger.New(cfg.LogLevel)
	logger.SetDefault(appLogger)
	appLogger.Info("Starting shopadmin",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("commit", GitCommit),
	)

	tokens, err := auth.NewTokenProvider(cfg.JWT)
	if err != nil {
		return fmt.Errorf("token provider: %w", err)
	}

	db, err := database.InitDB(cfg, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	var publisher audit.Publisher = audit.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := audit.NewKafkaPublisher(audit.DefaultProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic))
		if err != nil {
			return fmt.Errorf("audit publisher: %w", err)
		}
		publisher = kafkaPublisher
		appLogger.Info("Audit events publishing to Kafka",
			slog.Any("brokers", cfg.Kafka.Brokers),
			slog.String("topic", cfg.Kafka.AuditTopic),
		)
	} else {
		appLogger.Info("Kafka disabled, audit events are dropped")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			appLogger.Error("Error closing audit publisher", slog.Any("error", err))
		}
	}()

	router := routes.NewRouter(cfg, db, tokens, audit.NewRecorder(publisher, appLogger), appLogger)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router.Engine(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("kafka_audit", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-quit:
	}
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
	return nil
}
