package glossaries

import (
	"context"

	"github.com/google/uuid"
)

// System defines glossary lookups used during substitution and machine translation.
type System interface {
	// Exact returns the newest record in scope whose source equals source,
	// or nil when none exists.
	Exact(ctx context.Context, source string, glossaryIDs []uuid.UUID) (*Record, error)
	// Hints returns the records in scope whose source occurs in text,
	// ignoring case, longest term first.
	Hints(ctx context.Context, text string, glossaryIDs []uuid.UUID) ([]Record, error)
	Create(ctx context.Context, cmd CreateCommand) (*Record, error)
}
