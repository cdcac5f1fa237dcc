package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
)

// Store persists the history chain of segments.
type Store interface {
	// Chain returns all entries for a segment ordered oldest to newest.
	Chain(ctx context.Context, segmentID uuid.UUID) ([]Entry, error)
	Append(ctx context.Context, entry Entry) (Entry, error)
	// Rewrite replaces the diff and timestamp of an existing entry.
	Rewrite(ctx context.Context, id uuid.UUID, diff string, at time.Time) (Entry, error)
}

type store struct {
	db repository.DB
}

// NewStore binds a Store to db, which may be a *sql.DB or a *sql.Tx.
func NewStore(db repository.DB) Store {
	return &store{db: db}
}

func (s *store) Chain(ctx context.Context, segmentID uuid.UUID) ([]Entry, error) {
	q, args := query.
		NewBuilder(projection, chronological...).
		WhereEquals("SegmentID", segmentID).
		Build()

	return repository.QueryMany(ctx, s.db, q, args, scanEntry)
}

func (s *store) Append(ctx context.Context, e Entry) (Entry, error) {
	q := `
		INSERT INTO segment_history(id, segment_id, diff, author_id, change_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + returning

	entry, err := repository.QueryOne(
		ctx, s.db, q,
		[]any{e.ID, e.SegmentID, e.Diff, e.AuthorID, e.ChangeType, e.Timestamp},
		scanEntry,
	)
	if err != nil {
		return Entry{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return entry, nil
}

func (s *store) Rewrite(ctx context.Context, id uuid.UUID, diff string, at time.Time) (Entry, error) {
	q := `
		UPDATE segment_history SET diff = $2, created_at = $3
		WHERE id = $1
		RETURNING ` + returning

	entry, err := repository.QueryOne(ctx, s.db, q, []any{id, diff, at}, scanEntry)
	if err != nil {
		return Entry{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return entry, nil
}
