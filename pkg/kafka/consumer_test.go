package kafka

import (
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger(t *testing.T) ectologger.Logger {
	t.Helper()
	zapLogger, err := zap.NewDevelopment()
	require.NoError(t, err)
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func TestNewConsumerValidatesConfig(t *testing.T) {
	logger := testLogger(t)

	tests := []struct {
		name   string
		mutate func(*ConsumerConfig)
	}{
		{"no brokers", func(c *ConsumerConfig) { c.Brokers = nil }},
		{"no topic", func(c *ConsumerConfig) { c.Topic = "" }},
		{"no group", func(c *ConsumerConfig) { c.GroupID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConsumerConfig()
			tt.mutate(&cfg)

			consumer, err := NewConsumer(cfg, logger)

			require.Error(t, err)
			assert.Nil(t, consumer)
		})
	}
}

func TestNewConsumerExposesReaderStats(t *testing.T) {
	cfg := DefaultConsumerConfig()
	cfg.Brokers = []string{"localhost:9092"}
	cfg.Topic = "dataset-events"

	consumer, err := NewConsumer(cfg, testLogger(t))
	require.NoError(t, err)

	// Never started, so nothing has been fetched yet.
	assert.Equal(t, "dataset-events", consumer.Stats().Topic)
	assert.Zero(t, consumer.Lag())
	require.NoError(t, consumer.Stop())
}
