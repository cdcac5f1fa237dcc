package memories

import (
	"context"

	"github.com/google/uuid"
)

// System defines translation-memory lookups and write-back.
type System interface {
	// Exact returns the record in scope with an identical source, newest
	// changed_at first, or nil when none exists.
	Exact(ctx context.Context, source string, memoryIDs []uuid.UUID) (*Record, error)
	// Fuzzy returns the best trigram match in scope whose similarity is at
	// least threshold, or nil when none qualifies.
	Fuzzy(ctx context.Context, source string, threshold float64, memoryIDs []uuid.UUID) (*Match, error)
	Upsert(ctx context.Context, cmd UpsertCommand) (*Record, error)
}
