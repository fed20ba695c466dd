package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
)

// AnalysisEventHandler processes one analysis-completed event.  Returning an
// error leaves the offset uncommitted so the event is redelivered.
type AnalysisEventHandler func(ctx context.Context, event *AnalysisCompletedEvent) error

// Consumer reads analysis-completed events within a consumer group.
type Consumer struct {
	reader *kafka.Reader
	logger logging.Logger
}

// NewConsumer creates a Consumer for TopicAnalysisCompleted.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger) *Consumer {
	startOffset := kafka.FirstOffset
	if cfg.AutoOffsetReset == "latest" {
		startOffset = kafka.LastOffset
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       TopicAnalysisCompleted,
		StartOffset: startOffset,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})
	return &Consumer{reader: reader, logger: log}
}

// Run consumes events until ctx is cancelled.  Malformed payloads are logged
// and committed so they do not wedge the partition.
func (c *Consumer) Run(ctx context.Context, handler AnalysisEventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var event AnalysisCompletedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("skipping malformed analysis event",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err),
			)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, &event); err != nil {
			c.logger.Error("analysis event handler failed; leaving offset uncommitted",
				logging.String("analysis_id", event.AnalysisID),
				logging.Err(err),
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// Close shuts down the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
