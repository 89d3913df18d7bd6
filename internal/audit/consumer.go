package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"shopadmin/pkg/logger"
)

// HandlerFunc processes one decoded audit event
type HandlerFunc func(ctx context.Context, event *Event) error

type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topic          string
	SessionTimeout time.Duration
	Heartbeat      time.Duration
	OffsetOldest   bool
}

func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		SessionTimeout: 30 * time.Second,
		Heartbeat:      3 * time.Second,
		OffsetOldest:   true,
	}
}

// Consumer reads the audit topic as part of a consumer group
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler *groupHandler
	log     *logger.Logger
}

func NewConsumer(cfg *ConsumerConfig, handle HandlerFunc, log *logger.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = cfg.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second
	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &Consumer{
		group:   group,
		topic:   cfg.Topic,
		handler: &groupHandler{handle: handle, log: log},
		log:     log,
	}, nil
}

// Run consumes until ctx is cancelled
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.log.Error("audit consumer group error", slog.String("error", err.Error()))
		}
	}()

	for {
		if err := c.group.Consume(ctx, []string{c.topic}, c.handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.log.Error("audit consume failed", slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handle HandlerFunc
	log    *logger.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.process(session.Context(), msg)
			session.MarkMessage(msg, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// process never blocks the partition: undecodable or failed events are logged and skipped
func (h *groupHandler) process(ctx context.Context, msg *sarama.ConsumerMessage) {
	event, err := EventFromJSON(msg.Value)
	if err != nil {
		h.log.Warn("skipping undecodable audit event",
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := h.handle(ctx, event); err != nil {
		h.log.Error("audit event handler failed",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}

// LogHandler writes each audit event to the structured log
func LogHandler(log *logger.Logger) HandlerFunc {
	return func(ctx context.Context, event *Event) error {
		log.InfoContext(ctx, "audit event",
			slog.String("event_id", event.ID.String()),
			slog.String("type", string(event.Type)),
			slog.String("subject", event.Subject),
			slog.Any("attributes", event.Attributes),
			slog.Time("occurred_at", event.OccurredAt),
		)
		return nil
	}
}
