// Package mt translates batches of lines through a machine-translation
// provider with bounded retries.
package mt

import (
	"context"
	"fmt"
)

// Hint is a glossary term found in a line, offered to providers that can
// honour terminology.
type Hint struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Line is one source text with its glossary hints.
type Line struct {
	Text  string
	Hints []Hint
}

// Request is a single provider call.
type Request struct {
	SourceLang string
	TargetLang string
	Lines      []Line
}

// Provider performs one translation call. Implementations return one
// string per request line, in order.
type Provider interface {
	Name() string
	Translate(ctx context.Context, req Request) ([]string, error)
	Close() error
}

// NewProvider creates the provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderGoogle:
		return newGoogle(ctx, cfg)
	case ProviderAgent:
		return newAgent(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
