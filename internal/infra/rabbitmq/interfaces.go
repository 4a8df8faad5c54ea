package rabbitmq

import "context"

// PublisherInterface is what the coordinators publish post-commit events
// through; the concrete Publisher is swapped for a mock in tests.
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

var _ PublisherInterface = (*Publisher)(nil)
