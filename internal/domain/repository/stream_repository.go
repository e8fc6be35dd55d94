package repository

import (
	"context"

	"github.com/croppulse/farm-boundary-service/internal/domain"
)

// StreamRepository handles the redis streams carrying verification jobs.
type StreamRepository interface {
	// CreateConsumerGroup creates the consumer group for a stream.
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch reads up to count pending messages without blocking.
	ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error)

	// AckMessage acknowledges one processed message.
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// PublishToStream publishes a JSON-serialized payload.
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
