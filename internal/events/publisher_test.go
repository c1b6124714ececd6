package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vietcart-be/internal/metrics"
)

func TestNoop(t *testing.T) {
	var p Publisher = Noop{}

	require.NoError(t, p.PublishOrderEvent(context.Background(), OrderEvent{Type: TypeOrderCreated}))
	assert.NoError(t, p.Close())
}

func TestKafkaPublisher_Close(t *testing.T) {
	p := NewKafkaPublisher("localhost:9092", "order-events", metrics.NewRegistry())

	// The writer dials lazily, so closing an unused publisher must not error.
	assert.NoError(t, p.Close())
}
