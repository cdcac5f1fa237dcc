package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/pkg/diff"
)

// Engine decides whether a change appends a new entry or merges into the latest one.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an Engine. A nil clock defaults to time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Now returns the current time from the engine's clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Track records c against store. It returns nil without touching the store
// when the text is unchanged. The caller is responsible for serializing
// concurrent Track calls for the same segment, typically by holding a row
// lock on the segment inside the transaction that backs store.
func (e *Engine) Track(ctx context.Context, store Store, c Change) (*Entry, error) {
	if c.Old == c.New {
		return nil, nil
	}
	if !c.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidChangeType, c.Type)
	}

	chain, err := store.Chain(ctx, c.SegmentID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	if mergeable(chain, c) {
		return e.merge(ctx, store, chain, c)
	}

	entry, err := store.Append(ctx, Entry{
		ID:         uuid.New(),
		SegmentID:  c.SegmentID,
		Diff:       diff.Compute(c.Old, c.New).Encode(),
		AuthorID:   c.AuthorID,
		ChangeType: c.Type,
		Timestamp:  e.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("append history: %w", err)
	}
	return &entry, nil
}

func (e *Engine) merge(ctx context.Context, store Store, chain []Entry, c Change) (*Entry, error) {
	latest := chain[len(chain)-1]

	base, err := Replay(chain[:len(chain)-1])
	if err != nil {
		return nil, err
	}

	entry, err := store.Rewrite(ctx, latest.ID, diff.Compute(base, c.New).Encode(), e.now())
	if err != nil {
		return nil, fmt.Errorf("merge history: %w", err)
	}
	return &entry, nil
}

// mergeable holds when the latest entry was written by the same non-nil
// author with the same change type.
func mergeable(chain []Entry, c Change) bool {
	if len(chain) == 0 || c.AuthorID == nil {
		return false
	}

	latest := chain[len(chain)-1]
	if latest.AuthorID == nil || *latest.AuthorID != *c.AuthorID {
		return false
	}
	return latest.ChangeType == c.Type
}

// Replay reconstructs the text produced by entries ordered oldest to newest.
func Replay(entries []Entry) (string, error) {
	diffs := make([]diff.Diff, 0, len(entries))
	for _, entry := range entries {
		if entry.Diff == "" {
			continue
		}
		d, err := diff.Decode(entry.Diff)
		if err != nil {
			return "", fmt.Errorf("%w: entry %s: %w", ErrCorruptChain, entry.ID, err)
		}
		diffs = append(diffs, d)
	}

	text, err := diff.Reconstruct(diffs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCorruptChain, err)
	}
	return text, nil
}
