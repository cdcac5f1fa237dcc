package tasks

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a task repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "tasks"),
	}
}

func (r *repo) Claim(ctx context.Context) (*Task, error) {
	q := `
		UPDATE tasks SET status = 'processing'
		WHERE id = (
			SELECT id FROM tasks
			WHERE status = 'pending'
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING ` + columns

	t, err := repository.QueryOne(ctx, r.db, q, nil, scanTask)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	r.logger.Info("task claimed", "id", t.ID)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM tasks WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Enqueue inserts a pending task. It takes a repository.DB so callers can
// enqueue inside their own transaction.
func Enqueue(ctx context.Context, db repository.DB, p Payload) (*Task, error) {
	payload, err := p.Encode()
	if err != nil {
		return nil, err
	}

	q := `
		INSERT INTO tasks(id, payload, status)
		VALUES ($1, $2, 'pending')
		RETURNING ` + columns

	t, err := repository.QueryOne(ctx, db, q, []any{uuid.New(), payload}, scanTask)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
