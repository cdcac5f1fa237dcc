package glossaries

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

// New creates a glossary repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "glossaries"),
	}
}

func (r *repo) Exact(ctx context.Context, source string, glossaryIDs []uuid.UUID) (*Record, error) {
	if len(glossaryIDs) == 0 {
		return nil, nil
	}

	q, args := query.
		NewBuilder(projection, newestFirst).
		WhereEquals("Source", Normalize(source)).
		WhereIn("GlossaryID", idArgs(glossaryIDs)).
		BuildFirst()

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("glossary lookup: %w", err)
	}
	return &rec, nil
}

func (r *repo) Hints(ctx context.Context, text string, glossaryIDs []uuid.UUID) ([]Record, error) {
	if len(glossaryIDs) == 0 || text == "" {
		return nil, nil
	}

	q, args := query.
		NewBuilder(projection, longestFirst).
		WhereIn("GlossaryID", idArgs(glossaryIDs)).
		Where("strpos(lower($%d), lower(g.source)) > 0", Normalize(text)).
		Build()

	recs, err := repository.QueryMany(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("glossary hints: %w", err)
	}
	return recs, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Record, error) {
	source, target := Normalize(cmd.Source), cmd.Target
	if strings.TrimSpace(source) == "" || target == "" {
		return nil, ErrEmptyTerm
	}

	q := `
		INSERT INTO glossary_records(id, glossary_id, source, target)
		VALUES ($1, $2, $3, $4)
		RETURNING id, glossary_id, source, target, created_at`

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Record, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), cmd.GlossaryID, source, target}, scanRecord)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("glossary record created", "id", rec.ID, "glossary_id", rec.GlossaryID)
	return &rec, nil
}
