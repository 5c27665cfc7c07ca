package infrastructure

import (
	"context"
)

// MessagePublisher sends one message to a subject. msgID lets the bus drop
// redelivered duplicates.
type MessagePublisher interface {
	Publish(ctx context.Context, subject, msgID string, data []byte) error
}
