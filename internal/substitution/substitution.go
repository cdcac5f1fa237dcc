// Package substitution resolves a segment source to a translation from
// cheap deterministic sources before any machine translation is attempted.
package substitution

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/glossaries"
	"github.com/JaimeStill/scribe/internal/memories"
)

// ErrInvalidThreshold indicates a similarity threshold outside [0, 1].
var ErrInvalidThreshold = errors.New("similarity threshold must be between 0 and 1")

// Kind identifies which source resolved a segment.
type Kind string

const (
	FullMatch Kind = "full_match"
	Glossary  Kind = "glossary"
	Memory    Kind = "memory"
)

// AutoApproved reports whether a match of this kind approves the segment.
// Translation-memory matches always need review.
func (k Kind) AutoApproved() bool {
	return k == FullMatch || k == Glossary
}

// Match is a resolved translation.
type Match struct {
	Target string
	Kind   Kind
	// Score is the trigram similarity of a fuzzy memory match, 1 otherwise.
	Score float64
}

// Scope limits lookups to the memories and glossaries linked to a document.
type Scope struct {
	Memories   []uuid.UUID
	Glossaries []uuid.UUID
}

// GlossaryLookup finds exact glossary terms.
type GlossaryLookup interface {
	Exact(ctx context.Context, source string, glossaryIDs []uuid.UUID) (*glossaries.Record, error)
}

// MemoryLookup finds translation-memory records.
type MemoryLookup interface {
	Exact(ctx context.Context, source string, memoryIDs []uuid.UUID) (*memories.Record, error)
	Fuzzy(ctx context.Context, source string, threshold float64, memoryIDs []uuid.UUID) (*memories.Match, error)
}

// Engine applies the substitution priority chain.
type Engine struct {
	glossary GlossaryLookup
	memory   MemoryLookup
}

// New creates an Engine over the given lookups.
func New(glossary GlossaryLookup, memory MemoryLookup) *Engine {
	return &Engine{glossary: glossary, memory: memory}
}

// Translate returns the best available translation of source, or nil when
// no source resolves it. The first match wins, in order: numeric source,
// exact glossary term, translation memory. A threshold of 1 requires an
// exact memory source; lower thresholds use trigram similarity.
func (e *Engine) Translate(ctx context.Context, source string, threshold float64, scope Scope) (*Match, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}

	if isNumeric(source) {
		return &Match{Target: source, Kind: FullMatch, Score: 1}, nil
	}

	term, err := e.glossary.Exact(ctx, source, scope.Glossaries)
	if err != nil {
		return nil, err
	}
	if term != nil {
		return &Match{Target: term.Target, Kind: Glossary, Score: 1}, nil
	}

	if threshold == 1 {
		rec, err := e.memory.Exact(ctx, source, scope.Memories)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return &Match{Target: rec.Target, Kind: Memory, Score: 1}, nil
		}
		return nil, nil
	}

	m, err := e.memory.Fuzzy(ctx, source, threshold, scope.Memories)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return &Match{Target: m.Target, Kind: Memory, Score: m.Score}, nil
	}
	return nil, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
