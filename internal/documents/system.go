package documents

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/tasks"
	"github.com/JaimeStill/scribe/pkg/pagination"
)

// System defines the public contract for document domain operations.
type System interface {
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Document], error)

	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	Links(ctx context.Context, id uuid.UUID) (*Links, error)
	// Open streams the raw uploaded file.
	Open(ctx context.Context, doc *Document) (io.ReadCloser, error)
	Create(ctx context.Context, cmd CreateCommand) (*Document, error)

	// Submit moves an uploaded or errored document to pending and queues a
	// processing task in the same transaction. Segments left by a failed
	// run are removed.
	Submit(ctx context.Context, id uuid.UUID, settings tasks.Settings) (*tasks.Task, error)
	// Claim moves a pending document to processing. It fails with
	// ErrNotPending when another worker got there first.
	Claim(ctx context.Context, id uuid.UUID) (*Document, error)
	// Complete moves a processing document to done or error.
	Complete(ctx context.Context, id uuid.UUID, status Status) error

	Delete(ctx context.Context, id uuid.UUID) error
}
