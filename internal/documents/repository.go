package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/memories"
	"github.com/JaimeStill/scribe/internal/tasks"
	"github.com/JaimeStill/scribe/pkg/pagination"
	"github.com/JaimeStill/scribe/pkg/query"
	"github.com/JaimeStill/scribe/pkg/repository"
	"github.com/JaimeStill/scribe/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Links(ctx context.Context, id uuid.UUID) (*Links, error) {
	mems, err := repository.QueryMany(
		ctx, r.db,
		"SELECT memory_id, mode FROM document_memories WHERE document_id = $1 ORDER BY memory_id",
		[]any{id},
		scanMemoryLink,
	)
	if err != nil {
		return nil, fmt.Errorf("query memory links: %w", err)
	}

	glossaries, err := repository.QueryMany(
		ctx, r.db,
		"SELECT glossary_id FROM document_glossaries WHERE document_id = $1 ORDER BY glossary_id",
		[]any{id},
		func(s repository.Scanner) (uuid.UUID, error) {
			var id uuid.UUID
			err := s.Scan(&id)
			return id, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("query glossary links: %w", err)
	}

	return &Links{Memories: mems, Glossaries: glossaries}, nil
}

func (r *repo) Open(ctx context.Context, doc *Document) (io.ReadCloser, error) {
	return r.storage.Download(ctx, doc.StorageKey)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}

	id := uuid.New()
	key := storage.SourceKey(id, cmd.Name)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), contentType(cmd.Format)); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, name, format, source_lang, target_lang, storage_key, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'uploaded')
		RETURNING ` + returning

	insertArgs := []any{
		id,
		cmd.Name,
		string(cmd.Format),
		cmd.SourceLang,
		cmd.TargetLang,
		key,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		d, err := repository.QueryOne(ctx, tx, q, insertArgs, scanDocument)
		if err != nil {
			return d, err
		}
		for _, m := range cmd.Memories {
			if _, err := tx.ExecContext(
				ctx,
				"INSERT INTO document_memories(document_id, memory_id, mode) VALUES ($1, $2, $3)",
				id, m.MemoryID, string(m.Mode),
			); err != nil {
				return d, err
			}
		}
		for _, g := range cmd.Glossaries {
			if _, err := tx.ExecContext(
				ctx,
				"INSERT INTO document_glossaries(document_id, glossary_id) VALUES ($1, $2)",
				id, g,
			); err != nil {
				return d, err
			}
		}
		return d, nil
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", d.ID, "name", d.Name, "format", d.Format)
	return &d, nil
}

func (r *repo) Submit(ctx context.Context, id uuid.UUID, settings tasks.Settings) (*tasks.Task, error) {
	task, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*tasks.Task, error) {
		var (
			format formats.Kind
			status Status
		)
		err := tx.QueryRowContext(
			ctx,
			"SELECT format, status FROM documents WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&format, &status)
		if err != nil {
			return nil, err
		}

		switch status {
		case StatusUploaded:
		case StatusError:
			if _, err := tx.ExecContext(ctx, "DELETE FROM segments WHERE document_id = $1", id); err != nil {
				return nil, fmt.Errorf("clear segments: %w", err)
			}
		default:
			return nil, fmt.Errorf("%w: status %s", ErrNotSubmitable, status)
		}

		if _, err := tx.ExecContext(
			ctx,
			"UPDATE documents SET status = 'pending', updated_at = NOW() WHERE id = $1",
			id,
		); err != nil {
			return nil, err
		}

		return tasks.Enqueue(ctx, tx, tasks.Payload{
			Type:       format,
			DocumentID: id,
			Settings:   &settings,
		})
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document submitted", "id", id, "task", task.ID)
	return task, nil
}

func (r *repo) Claim(ctx context.Context, id uuid.UUID) (*Document, error) {
	q := `
		UPDATE documents SET status = 'processing', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + returning

	d, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotPending, ErrDuplicate)
	}
	return &d, nil
}

func (r *repo) Complete(ctx context.Context, id uuid.UUID, status Status) error {
	if status != StatusDone && status != StatusError {
		return fmt.Errorf("invalid completion status: %s", status)
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"UPDATE documents SET status = $2, updated_at = NOW() WHERE id = $1 AND status = 'processing'",
		id, string(status),
	)
	if err != nil {
		return repository.MapError(err, ErrNotProcessing, ErrDuplicate)
	}

	r.logger.Info("document completed", "id", id, "status", status)
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	// segments, links, history and linkage rows go with the document
	if err := repository.ExecExpectOne(ctx, r.db, "DELETE FROM documents WHERE id = $1", id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, doc.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", doc.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("document deleted", "id", id)
	return nil
}

func validateCreate(cmd CreateCommand) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidFile)
	}
	if _, err := formats.ParseKind(string(cmd.Format)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if len(cmd.Data) == 0 {
		return fmt.Errorf("%w: empty file", ErrInvalidFile)
	}
	if cmd.SourceLang == "" || cmd.TargetLang == "" {
		return fmt.Errorf("%w: source and target language required", ErrInvalidFile)
	}
	for _, m := range cmd.Memories {
		if _, err := memories.ParseMode(string(m.Mode)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidFile, err)
		}
	}
	return nil
}

func contentType(k formats.Kind) string {
	switch k {
	case formats.Xliff:
		return "application/xliff+xml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// IsRejected reports whether err means the document was in the wrong state
// or missing, as opposed to a storage failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotPending) ||
		errors.Is(err, ErrNotProcessing) ||
		errors.Is(err, ErrNotSubmitable)
}
