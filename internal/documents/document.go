// Package documents manages uploaded source documents: their blob, their
// links to translation memories and glossaries, and the status machine
// that drives processing.
package documents

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/memories"
	"github.com/JaimeStill/scribe/internal/substitution"
)

// Status is the processing state of a document.
//
//	uploaded → pending → processing → done | error
//
// Errored documents may be submitted again.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// ParseStatus validates s as a document status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusUploaded, StatusPending, StatusProcessing, StatusDone, StatusError:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Document is an uploaded source file and its processing state.
type Document struct {
	ID         uuid.UUID    `json:"id" yaml:"id"`
	Name       string       `json:"name" yaml:"name"`
	Format     formats.Kind `json:"format" yaml:"format"`
	SourceLang string       `json:"source_lang" yaml:"source_lang"`
	TargetLang string       `json:"target_lang" yaml:"target_lang"`
	StorageKey string       `json:"storage_key" yaml:"storage_key"`
	Status     Status       `json:"status" yaml:"status"`
	CreatedAt  time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" yaml:"updated_at"`
}

// MemoryLink attaches a translation memory to a document.
type MemoryLink struct {
	MemoryID uuid.UUID     `json:"memory_id" yaml:"memory_id"`
	Mode     memories.Mode `json:"mode" yaml:"mode"`
}

// Links are the memories and glossaries a document draws on.
type Links struct {
	Memories   []MemoryLink `json:"memories" yaml:"memories"`
	Glossaries []uuid.UUID  `json:"glossaries" yaml:"glossaries"`
}

// Scope returns the lookup scope for substitution. Read and write
// memories are both consulted.
func (l Links) Scope() substitution.Scope {
	ids := make([]uuid.UUID, len(l.Memories))
	for i, m := range l.Memories {
		ids[i] = m.MemoryID
	}
	return substitution.Scope{Memories: ids, Glossaries: l.Glossaries}
}

// WriteMemories returns the ids of memories linked in write mode.
func (l Links) WriteMemories() []uuid.UUID {
	var ids []uuid.UUID
	for _, m := range l.Memories {
		if m.Mode == memories.ModeWrite {
			ids = append(ids, m.MemoryID)
		}
	}
	return ids
}

// CreateCommand carries the data needed to upload and register a document.
type CreateCommand struct {
	Name       string
	Format     formats.Kind
	SourceLang string
	TargetLang string
	Data       []byte
	Memories   []MemoryLink
	Glossaries []uuid.UUID
}
