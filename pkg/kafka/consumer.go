// Package kafka consumes dataset change events so cached match results are
// invalidated before their TTL when the catalog changes.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"

	"github.com/Ramsey-B/aster/pkg/metrics"
)

// Dataset event types published by catalog loaders.
const (
	EventDatasetUpdated  = "dataset.updated"
	EventDatasetDeleted  = "dataset.deleted"
	EventEntriesImported = "entries.imported"
)

// Offset constants
const (
	FirstOffset int64 = -2 // Start from the oldest message
	LastOffset  int64 = -1 // Start from the newest message
)

// DatasetEvent is one catalog change notification.
type DatasetEvent struct {
	Type        string    `json:"type"`
	DatasetID   string    `json:"dataset_id,omitempty"`
	DatasetName string    `json:"dataset_name,omitempty"`
	OccurredAt  time.Time `json:"occurred_at,omitempty"`
}

// EventHandler is called for each dataset event received from Kafka
type EventHandler func(ctx context.Context, event DatasetEvent) error

// ConsumerConfig configures the dataset events consumer
type ConsumerConfig struct {
	// Brokers is a list of Kafka broker addresses
	Brokers []string

	// Topic is the dataset events topic
	Topic string

	// GroupID is the consumer group ID
	GroupID string

	// MinBytes is the minimum batch size for fetching messages
	MinBytes int

	// MaxBytes is the maximum batch size for fetching messages
	MaxBytes int

	// MaxWait is the maximum time to wait for messages
	MaxWait time.Duration

	// StartOffset determines where to start reading when there's no committed offset
	StartOffset int64
}

// DefaultConsumerConfig returns a ConsumerConfig with sensible defaults
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers:     []string{"localhost:9092"},
		Topic:       "dataset-events",
		GroupID:     "aster-consumer",
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		MaxWait:     3 * time.Second,
		StartOffset: LastOffset,
	}
}

// Consumer consumes dataset events from Kafka
type Consumer struct {
	reader  *kafka.Reader
	logger  ectologger.Logger
	config  ConsumerConfig
	handler EventHandler
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	running bool
	mu      sync.Mutex
}

// NewConsumer creates a new dataset events consumer
func NewConsumer(config ConsumerConfig, logger ectologger.Logger) (*Consumer, error) {
	if len(config.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if config.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}
	if config.GroupID == "" {
		return nil, fmt.Errorf("group ID is required")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.GroupID,
		MinBytes:    config.MinBytes,
		MaxBytes:    config.MaxBytes,
		MaxWait:     config.MaxWait,
		StartOffset: config.StartOffset,
	})

	return &Consumer{
		reader: reader,
		logger: logger,
		config: config,
	}, nil
}

// Start begins consuming events in the background
func (c *Consumer) Start(ctx context.Context, handler EventHandler) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("consumer is already running")
	}
	c.running = true
	c.handler = handler
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.consumeLoop(ctx)

	c.logger.Infof("Kafka consumer started for topic %s (group: %s)", c.config.Topic, c.config.GroupID)
	return nil
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	c.wg.Wait()

	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("failed to close reader: %w", err)
	}

	c.logger.Info("Kafka consumer stopped")
	return nil
}

// consumeLoop continuously fetches and processes events. Bad messages are
// committed and skipped; an unprocessable event must never wedge the group.
func (c *Consumer) consumeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return // Context cancelled, exit gracefully
			}
			c.logger.WithError(err).Error("Failed to fetch message")
			continue
		}

		var event DatasetEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.WithError(err).Errorf("Failed to parse dataset event at offset %d", msg.Offset)
			metrics.RecordKafkaMessage(c.config.Topic, "parse_error")
			if commitErr := c.reader.CommitMessages(ctx, msg); commitErr != nil {
				c.logger.WithError(commitErr).Error("Failed to commit bad message")
			}
			continue
		}

		if err := c.handler(ctx, event); err != nil {
			// Cache invalidation is idempotent; the next event retries it.
			c.logger.WithError(err).Errorf("Handler failed for event %q at offset %d", event.Type, msg.Offset)
			metrics.RecordKafkaMessage(c.config.Topic, "handler_error")
		} else {
			metrics.RecordKafkaMessage(c.config.Topic, "ok")
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.WithError(err).Errorf("Failed to commit message at offset %d", msg.Offset)
		}
	}
}

// Stats returns consumer statistics
func (c *Consumer) Stats() kafka.ReaderStats {
	return c.reader.Stats()
}

// Lag returns the current consumer lag
func (c *Consumer) Lag() int64 {
	return c.reader.Stats().Lag
}
