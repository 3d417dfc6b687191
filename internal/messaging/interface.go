package messaging

import "context"

// PublisherInterface is the publishing contract services depend on, so
// tests can swap in an in-memory publisher.
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, eventData interface{}) error
	Close() error
}

var _ PublisherInterface = (*Publisher)(nil)
