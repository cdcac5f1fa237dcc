package segments

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/pagination"
)

// System defines segment storage and editing.
type System interface {
	List(
		ctx context.Context,
		documentID uuid.UUID,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Segment], error)

	Find(ctx context.Context, id uuid.UUID) (*Segment, error)

	// Import stores the drafts of a document as ordered segments, with
	// their format linkage and initial history, in a single transaction.
	Import(ctx context.Context, documentID uuid.UUID, drafts []Draft) ([]Segment, error)

	// Update edits one segment under a row lock and records the change in
	// its history. Approving a segment writes its pair to the document's
	// write-mode memories.
	Update(ctx context.Context, cmd UpdateCommand) (*Segment, error)
}
