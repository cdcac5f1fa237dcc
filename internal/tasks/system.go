package tasks

import (
	"context"

	"github.com/google/uuid"
)

// System defines the worker side of the queue.
type System interface {
	// Claim moves the oldest pending task to processing and returns it, or
	// nil when the queue is empty. Concurrent callers never receive the
	// same task.
	Claim(ctx context.Context) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
