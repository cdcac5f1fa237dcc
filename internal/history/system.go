package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/pagination"
)

// System defines read access to segment history.
type System interface {
	// List returns a page of entries for a segment, newest first.
	List(ctx context.Context, segmentID uuid.UUID, page pagination.PageRequest) (*pagination.PageResult[Entry], error)
	// Reconstruct replays the full chain and returns the current target text.
	Reconstruct(ctx context.Context, segmentID uuid.UUID) (string, error)
}
