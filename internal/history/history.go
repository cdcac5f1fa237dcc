// Package history records every change to a segment's target text as a
// compact diff. Consecutive edits by the same author with the same change
// type are merged into a single entry; system-generated changes never merge.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChangeType classifies why a segment's target changed.
type ChangeType string

const (
	InitialImport        ChangeType = "initial_import"
	MachineTranslation   ChangeType = "machine_translation"
	MemorySubstitution   ChangeType = "tm_substitution"
	GlossarySubstitution ChangeType = "glossary_substitution"
	Repetition           ChangeType = "repetition"
	ManualEdit           ChangeType = "manual_edit"
)

// Valid reports whether c is a known change type.
func (c ChangeType) Valid() bool {
	switch c {
	case InitialImport, MachineTranslation, MemorySubstitution,
		GlossarySubstitution, Repetition, ManualEdit:
		return true
	}
	return false
}

// ParseChangeType validates s as a change type.
func ParseChangeType(s string) (ChangeType, error) {
	c := ChangeType(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChangeType, s)
	}
	return c, nil
}

// Entry is one stored diff with its authorship metadata.
// A nil AuthorID marks a system-generated change.
type Entry struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	SegmentID  uuid.UUID  `json:"segment_id" yaml:"segment_id"`
	Diff       string     `json:"diff" yaml:"diff"`
	AuthorID   *uuid.UUID `json:"author" yaml:"author"`
	ChangeType ChangeType `json:"change_type" yaml:"change_type"`
	Timestamp  time.Time  `json:"timestamp" yaml:"timestamp"`
}

// Change describes a target text transition to be tracked.
type Change struct {
	SegmentID uuid.UUID
	Old       string
	New       string
	AuthorID  *uuid.UUID
	Type      ChangeType
}
