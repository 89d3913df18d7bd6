package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"shopadmin/internal/audit"
	"shopadmin/internal/shared/config"
	"shopadmin/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.GetDefault().Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	gin.SetMode(cfg.GinMode)
	log := logger.New(cfg.LogLevel)

	consumer, err := audit.NewConsumer(
		audit.DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.AuditTopic),
		audit.LogHandler(log),
		log,
	)
	if err != nil {
		log.Error("failed to start audit consumer", slog.Any("error", err))
		os.Exit(1)
	}
	defer consumer.Close()

	log.Info("Audit worker consuming",
		slog.String("brokers", strings.Join(cfg.Kafka.Brokers, ",")),
		slog.String("topic", cfg.Kafka.AuditTopic),
		slog.String("group", cfg.Kafka.GroupID),
	)
	if err := consumer.Run(ctx); err != nil {
		log.Error("audit consumer stopped", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("Audit worker exited")
}
