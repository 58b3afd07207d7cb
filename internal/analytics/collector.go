// Package analytics tracks search usage: events are buffered in-process,
// published to Kafka for the downstream pipeline, and aggregated in memory
// for the service's own analytics endpoint.
package analytics

import (
	"context"
	"log/slog"

	"github.com/nishantgupta83/mindful-living/pkg/kafka"
)

// Collector buffers search events and forwards them without blocking the
// query path. When the buffer is full, events are dropped rather than
// slowing down searches.
type Collector struct {
	producer   *kafka.Producer
	aggregator *Aggregator
	eventCh    chan SearchEvent
	logger     *slog.Logger
	done       chan struct{}
}

// NewCollector creates a Collector. producer may be nil, in which case
// events are only aggregated locally.
func NewCollector(producer *kafka.Producer, aggregator *Aggregator, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		producer:   producer,
		aggregator: aggregator,
		eventCh:    make(chan SearchEvent, bufferSize),
		logger:     slog.Default().With("component", "analytics-collector"),
		done:       make(chan struct{}),
	}
}

// Start launches the forwarding loop. It runs until ctx is cancelled or
// Close is called, draining any buffered events on the way out.
func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event, ok := <-c.eventCh:
				if !ok {
					return
				}
				c.forward(ctx, event)
			case <-ctx.Done():
				c.drain()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event without blocking.
func (c *Collector) Track(event SearchEvent) {
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("analytics event dropped (buffer full)")
	}
}

// Close stops accepting events and waits for the loop to finish.
func (c *Collector) Close() {
	close(c.eventCh)
	<-c.done
}

func (c *Collector) forward(ctx context.Context, event SearchEvent) {
	if c.aggregator != nil {
		c.aggregator.Record(event)
	}
	if c.producer == nil {
		return
	}
	if err := c.producer.Publish(ctx, kafka.Event{Key: string(event.Type), Value: event}); err != nil {
		c.logger.Error("failed to publish analytics event", "error", err)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event, ok := <-c.eventCh:
			if !ok {
				return
			}
			c.forward(context.Background(), event)
		default:
			return
		}
	}
}
