package segments

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/history"
	"github.com/JaimeStill/scribe/internal/memories"
	"github.com/JaimeStill/scribe/pkg/pagination"
	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
	"github.com/JaimeStill/scribe/pkg/wordcount"
)

type repo struct {
	db         *sql.DB
	history    *history.Engine
	counter    *wordcount.Counter
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a segment repository implementing the System interface.
func New(
	db *sql.DB,
	engine *history.Engine,
	counter *wordcount.Counter,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		history:    engine,
		counter:    counter,
		logger:     logger.With("system", "segments"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	documentID uuid.UUID,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Segment], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("DocumentID", documentID).
		WhereSearch(page.Search, "Source", "Target")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count segments: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	segs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSegment)
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}

	result := pagination.NewPageResult(segs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Segment, error) {
	seg, err := find(ctx, r.db, id)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &seg, nil
}

func (r *repo) Import(ctx context.Context, documentID uuid.UUID, drafts []Draft) ([]Segment, error) {
	insert := `
		INSERT INTO segments(id, document_id, position, source, target, approved, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	ids, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]uuid.UUID, error) {
		store := history.NewStore(tx)
		ids := make([]uuid.UUID, len(drafts))

		for i, d := range drafts {
			id := uuid.New()
			ids[i] = id

			if _, err := tx.ExecContext(
				ctx, insert,
				id, documentID, i, d.Unit.Source, d.Unit.Target, d.Unit.Approved,
				r.counter.Count(d.Unit.Source),
			); err != nil {
				return nil, fmt.Errorf("insert segment %d: %w", i, err)
			}

			stmt, args, err := linkage(d.Unit.Locator)
			if err != nil {
				return nil, err
			}
			if _, err := tx.ExecContext(ctx, stmt, append([]any{id}, args...)...); err != nil {
				return nil, fmt.Errorf("insert segment %d linkage: %w", i, err)
			}

			if _, err := r.history.Track(ctx, store, history.Change{
				SegmentID: id,
				New:       d.Unit.Target,
				Type:      d.Change,
			}); err != nil {
				return nil, fmt.Errorf("segment %d history: %w", i, err)
			}
		}
		return ids, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("segments imported", "document", documentID, "count", len(ids))

	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("DocumentID", documentID).
		Build()
	return repository.QueryMany(ctx, r.db, q, args, scanSegment)
}

func (r *repo) Update(ctx context.Context, cmd UpdateCommand) (*Segment, error) {
	if !utf8.ValidString(cmd.Target) {
		return nil, ErrInvalidTarget
	}

	seg, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Segment, error) {
		var (
			documentID     uuid.UUID
			source, target string
		)
		err := tx.QueryRowContext(
			ctx,
			"SELECT document_id, source, target FROM segments WHERE id = $1 FOR UPDATE",
			cmd.SegmentID,
		).Scan(&documentID, &source, &target)
		if err != nil {
			return Segment{}, err
		}

		if err := r.apply(ctx, tx, cmd.SegmentID, target, cmd, history.ManualEdit); err != nil {
			return Segment{}, err
		}

		if cmd.Approved {
			if err := r.writeBack(ctx, tx, documentID, source, cmd.Target); err != nil {
				return Segment{}, err
			}
		}

		if cmd.Propagate {
			if err := r.propagate(ctx, tx, documentID, source, cmd); err != nil {
				return Segment{}, err
			}
		}

		return find(ctx, tx, cmd.SegmentID)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("segment updated", "id", seg.ID, "approved", seg.Approved, "propagate", cmd.Propagate)
	return &seg, nil
}

// apply writes the new target and approval of a locked segment and tracks
// the change.
func (r *repo) apply(ctx context.Context, tx *sql.Tx, id uuid.UUID, old string, cmd UpdateCommand, change history.ChangeType) error {
	if err := repository.ExecExpectOne(
		ctx, tx,
		"UPDATE segments SET target = $2, approved = $3, updated_at = NOW() WHERE id = $1",
		id, cmd.Target, cmd.Approved,
	); err != nil {
		return err
	}

	_, err := r.history.Track(ctx, history.NewStore(tx), history.Change{
		SegmentID: id,
		Old:       old,
		New:       cmd.Target,
		AuthorID:  cmd.AuthorID,
		Type:      change,
	})
	return err
}

func (r *repo) writeBack(ctx context.Context, tx *sql.Tx, documentID uuid.UUID, source, target string) error {
	ids, err := repository.QueryMany(
		ctx, tx,
		"SELECT memory_id FROM document_memories WHERE document_id = $1 AND mode = 'write'",
		[]any{documentID},
		func(s repository.Scanner) (uuid.UUID, error) {
			var id uuid.UUID
			err := s.Scan(&id)
			return id, err
		},
	)
	if err != nil {
		return fmt.Errorf("query write memories: %w", err)
	}

	at := r.history.Now()
	for _, id := range ids {
		if _, err := memories.Upsert(ctx, tx, memories.UpsertCommand{
			MemoryID:  id,
			Source:    source,
			Target:    target,
			ChangedAt: at,
		}); err != nil {
			return fmt.Errorf("memory write-back: %w", err)
		}
	}
	return nil
}

func (r *repo) propagate(ctx context.Context, tx *sql.Tx, documentID uuid.UUID, source string, cmd UpdateCommand) error {
	type repeat struct {
		id     uuid.UUID
		target string
	}

	repeats, err := repository.QueryMany(
		ctx, tx,
		`SELECT id, target FROM segments
		WHERE document_id = $1 AND source = $2 AND id <> $3 AND NOT approved
		ORDER BY position
		FOR UPDATE`,
		[]any{documentID, source, cmd.SegmentID},
		func(s repository.Scanner) (repeat, error) {
			var rp repeat
			err := s.Scan(&rp.id, &rp.target)
			return rp, err
		},
	)
	if err != nil {
		return fmt.Errorf("query repetitions: %w", err)
	}

	for _, rp := range repeats {
		if err := r.apply(ctx, tx, rp.id, rp.target, cmd, history.Repetition); err != nil {
			return fmt.Errorf("propagate to %s: %w", rp.id, err)
		}
	}
	return nil
}

func find(ctx context.Context, db repository.Querier, id uuid.UUID) (Segment, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)
	return repository.QueryOne(ctx, db, q, args, scanSegment)
}
