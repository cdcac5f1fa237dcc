// Package segments stores the translatable units of a document and
// applies edits to them with history tracking.
package segments

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/history"
)

// Segment is one ordered unit of a document.
type Segment struct {
	ID         uuid.UUID       `json:"id" yaml:"id"`
	DocumentID uuid.UUID       `json:"document_id" yaml:"document_id"`
	Position   int             `json:"position" yaml:"position"`
	Source     string          `json:"source" yaml:"source"`
	Target     string          `json:"target" yaml:"target"`
	Approved   bool            `json:"approved" yaml:"approved"`
	WordCount  int             `json:"word_count" yaml:"word_count"`
	Locator    formats.Locator `json:"locator" yaml:"locator"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" yaml:"updated_at"`
}

// Draft is a processed unit ready to be stored. Change records how the
// target was produced and is written as the segment's first history
// entry when the target is not empty.
type Draft struct {
	Unit   formats.Unit
	Change history.ChangeType
}

// UpdateCommand edits a segment's target or approval.
type UpdateCommand struct {
	SegmentID uuid.UUID
	Target    string
	Approved  bool
	AuthorID  *uuid.UUID
	// Propagate copies the edit to unapproved segments of the same
	// document with an identical source.
	Propagate bool
}

// Filters contains optional filtering criteria for segment queries.
type Filters struct {
	Approved *bool   `json:"approved,omitempty"`
	Source   *string `json:"source,omitempty"`
}
