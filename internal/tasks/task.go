// Package tasks is the work queue that triggers document processing.
// A task is a fire-once item: workers claim it, run it and delete it.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/mt"
)

// Status is the queue state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
)

// Task is a queued work item. Payload is stored as opaque text and only
// interpreted by ParsePayload.
type Task struct {
	ID        uuid.UUID `json:"id"`
	Payload   string    `json:"payload"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings controls one processing run.
type Settings struct {
	SimilarityThreshold float64 `json:"similarity_threshold"`
	// Translation enables machine translation of unresolved segments. It
	// is merged over the worker's configured defaults.
	Translation *mt.Config `json:"translation,omitempty"`
}

// Payload is the decoded task body.
type Payload struct {
	Type       formats.Kind `json:"type"`
	DocumentID uuid.UUID    `json:"document_id"`
	Settings   *Settings    `json:"settings"`
}

// Encode returns the stored form of p.
func (p Payload) Encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParsePayload decodes and validates a stored payload. The type must be a
// known format, the document id must be set, and settings must be present
// with a threshold in [0, 1].
func ParsePayload(raw string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if _, err := formats.ParseKind(string(p.Type)); err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if p.DocumentID == uuid.Nil {
		return p, fmt.Errorf("%w: document_id required", ErrInvalidPayload)
	}
	if p.Settings == nil {
		return p, fmt.Errorf("%w: settings required", ErrInvalidPayload)
	}
	if t := p.Settings.SimilarityThreshold; t < 0 || t > 1 {
		return p, fmt.Errorf("%w: similarity_threshold %v out of range", ErrInvalidPayload, t)
	}
	return p, nil
}
