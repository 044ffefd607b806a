package mq

import "context"

// Publisher is the broker-agnostic fan-out used for accepted wellness
// events. Implementations return the broker-assigned message ID.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Noop discards every message. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return "", nil
}

func (Noop) Close() error { return nil }
