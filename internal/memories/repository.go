package memories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a memory repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "memories"),
	}
}

func (r *repo) Exact(ctx context.Context, source string, memoryIDs []uuid.UUID) (*Record, error) {
	if len(memoryIDs) == 0 {
		return nil, nil
	}

	q, args := query.
		NewBuilder(projection, newestFirst).
		WhereEquals("Source", Normalize(source)).
		WhereIn("MemoryID", idArgs(memoryIDs)).
		BuildFirst()

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory exact lookup: %w", err)
	}
	return &rec, nil
}

func (r *repo) Fuzzy(ctx context.Context, source string, threshold float64, memoryIDs []uuid.UUID) (*Match, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	if len(memoryIDs) == 0 {
		return nil, nil
	}

	q := fmt.Sprintf(`
		SELECT %s, similarity(m.source, $1) AS score
		FROM %s
		WHERE m.memory_id IN (%s) AND similarity(m.source, $1) >= $2
		ORDER BY score DESC, m.changed_at DESC
		LIMIT 1`,
		projection.Columns(),
		projection.From(),
		query.Placeholders(3, len(memoryIDs)),
	)

	args := append([]any{Normalize(source), threshold}, idArgs(memoryIDs)...)

	m, err := repository.QueryOne(ctx, r.db, q, args, scanMatch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("memory fuzzy lookup: %w", err)
	}
	return &m, nil
}

func (r *repo) Upsert(ctx context.Context, cmd UpsertCommand) (*Record, error) {
	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		return Upsert(ctx, tx, cmd)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("memory record written", "id", rec.ID, "memory_id", rec.MemoryID)
	return &rec, nil
}

// Upsert writes cmd through db so callers can include it in their own
// transaction. An existing record keeps its target when it changed later
// than cmd.ChangedAt.
func Upsert(ctx context.Context, db repository.DB, cmd UpsertCommand) (Record, error) {
	source := Normalize(cmd.Source)
	if strings.TrimSpace(source) == "" || cmd.Target == "" {
		return Record{}, ErrEmptyPair
	}

	q := `
		INSERT INTO memory_records(id, memory_id, source, target, created_at, changed_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (memory_id, source) DO UPDATE
		SET target = EXCLUDED.target, changed_at = EXCLUDED.changed_at
		WHERE memory_records.changed_at <= EXCLUDED.changed_at
		RETURNING ` + returning

	rec, err := repository.QueryOne(
		ctx, db, q,
		[]any{uuid.New(), cmd.MemoryID, source, cmd.Target, cmd.ChangedAt},
		scanRecord,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return existing(ctx, db, cmd.MemoryID, source)
	}
	if err != nil {
		return Record{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return rec, nil
}

// existing returns the stored record left in place by a stale upsert.
func existing(ctx context.Context, db repository.DB, memoryID uuid.UUID, source string) (Record, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("MemoryID", memoryID).
		WhereEquals("Source", source).
		BuildFirst()

	rec, err := repository.QueryOne(ctx, db, q, args, scanRecord)
	if err != nil {
		return Record{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return rec, nil
}
