package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"shopadmin/internal/shared/metrics"
	"shopadmin/pkg/logger"
)

// Publisher delivers audit events to a durable stream
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka audit producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	Timeout          time.Duration
	IdempotentWrites bool
}

func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		Timeout:          10 * time.Second,
		IdempotentWrites: true,
	}
}

// KafkaPublisher publishes audit events with a synchronous sarama producer
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(cfg *ProducerConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Timeout = cfg.Timeout
	saramaConfig.Producer.Idempotent = cfg.IdempotentWrites
	if cfg.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return newKafkaPublisher(producer, cfg.Topic), nil
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
			{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		},
		Timestamp: event.OccurredAt,
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send audit event to Kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }

func (NopPublisher) Close() error { return nil }

// Recorder emits audit events on behalf of handlers. Delivery failures are
// logged and counted, never returned to the request.
type Recorder struct {
	publisher Publisher
	log       *logger.Logger
}

func NewRecorder(publisher Publisher, log *logger.Logger) *Recorder {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Recorder{publisher: publisher, log: log}
}

func (r *Recorder) Record(ctx context.Context, eventType EventType, subject string, attrs map[string]string) {
	if r == nil {
		return
	}
	event := NewEvent(eventType, subject, attrs)
	if err := r.publisher.Publish(ctx, event); err != nil {
		metrics.AuditEventsPublishedTotal.WithLabelValues(string(eventType), "error").Inc()
		r.log.WarnContext(ctx, "audit event not published",
			slog.String("type", string(eventType)),
			slog.String("error", err.Error()),
		)
		return
	}
	metrics.AuditEventsPublishedTotal.WithLabelValues(string(eventType), "ok").Inc()
}
