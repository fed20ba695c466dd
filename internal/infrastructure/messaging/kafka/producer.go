package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
)

var (
	ErrProducerClosed = errors.New(errors.ErrCodeMessageQueueError, "producer closed")
	ErrPublishFailed  = errors.New(errors.ErrCodeMessageQueueError, "publish failed")
)

// Publisher is the event publishing contract.  Publishing is best-effort in
// the analysis pipeline: callers log failures but never fail the analysis.
type Publisher interface {
	PublishAnalysisCompleted(ctx context.Context, event *AnalysisCompletedEvent) error
	Close() error
}

// writerInterface abstracts kafka.Writer for testing.
type writerInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type producer struct {
	writer writerInterface
	logger logging.Logger
	closed atomic.Bool
}

// NewProducer creates a Publisher writing to the configured brokers.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) Publisher {
	batchSize := cfg.BatchSize
	if batchSize == 0 {
		batchSize = 100
	}
	retries := cfg.ProducerRetries
	if retries == 0 {
		retries = 3
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchSize:    batchSize,
		BatchTimeout: 250 * time.Millisecond,
		MaxAttempts:  retries,
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 10 * time.Second,
	}
	return &producer{writer: writer, logger: log}
}

func (p *producer) PublishAnalysisCompleted(ctx context.Context, event *AnalysisCompletedEvent) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}
	if event.CompletedAt.IsZero() {
		event.CompletedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode analysis event")
	}

	msg := kafka.Message{
		Topic: TopicAnalysisCompleted,
		Key:   []byte(event.ImageHash),
		Value: payload,
		Time:  event.CompletedAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return ErrPublishFailed.WithCause(err)
	}

	p.logger.Debug("published analysis event",
		logging.String("topic", TopicAnalysisCompleted),
		logging.String("analysis_id", event.AnalysisID),
	)
	return nil
}

func (p *producer) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.writer.Close()
}

// nopPublisher discards events.  Used when Kafka is not configured and in
// tests.
type nopPublisher struct{}

func (nopPublisher) PublishAnalysisCompleted(context.Context, *AnalysisCompletedEvent) error {
	return nil
}
func (nopPublisher) Close() error { return nil }

// NewNopPublisher returns a Publisher that discards all events.
func NewNopPublisher() Publisher { return nopPublisher{} }
