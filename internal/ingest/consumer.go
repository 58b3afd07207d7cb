// Package ingest consumes content-update events from Kafka and invalidates
// the search index so the next query rebuilds against fresh content. The
// content pipeline (out of process) publishes an event whenever a life
// situation is created, updated, or removed.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/nishantgupta83/mindful-living/internal/search"
	"github.com/nishantgupta83/mindful-living/pkg/kafka"
)

// ContentEvent describes one content change published by the pipeline.
type ContentEvent struct {
	DocumentID string    `json:"document_id"`
	Action     string    `json:"action"` // created, updated, deleted
	OccurredAt time.Time `json:"occurred_at"`
}

// Consumer wraps a Kafka consumer that drives index invalidation.
type Consumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// New creates a Consumer backed by the given Kafka consumer.
func New(kafkaConsumer *kafka.Consumer) *Consumer {
	return &Consumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "content-consumer"),
	}
}

// Start begins consuming content events. It blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("content consumer starting")
	return c.consumer.Start(ctx)
}

// Close closes the underlying Kafka consumer.
func (c *Consumer) Close() error {
	return c.consumer.Close()
}

// HandleContentUpdate returns a Kafka MessageHandler that requests a reindex
// for each content event. Malformed events are logged and skipped so the
// consumer keeps making progress.
func HandleContentUpdate(svc *search.Service) kafka.MessageHandler {
	logger := slog.Default().With("component", "content-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ContentEvent](value)
		if err != nil {
			logger.Error("failed to decode content event", "error", err, "key", string(key))
			return nil
		}
		logger.Info("content changed, scheduling reindex",
			"doc_id", event.DocumentID,
			"action", event.Action,
		)
		return svc.Reindex(ctx)
	}
}
