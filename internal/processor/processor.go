// Package processor turns an uploaded document into stored segments.
// Units are resolved from glossaries and translation memories first,
// whatever remains is machine translated, and the result is persisted in
// one transaction.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/documents"
	"github.com/JaimeStill/scribe/internal/formats"
	"github.com/JaimeStill/scribe/internal/glossaries"
	"github.com/JaimeStill/scribe/internal/history"
	"github.com/JaimeStill/scribe/internal/mt"
	"github.com/JaimeStill/scribe/internal/segments"
	"github.com/JaimeStill/scribe/internal/substitution"
	"github.com/JaimeStill/scribe/internal/tasks"
)

// ErrProcessFailed wraps every failure of a processing run. Nothing is
// persisted when it is returned.
var ErrProcessFailed = errors.New("document processing failed")

// Documents loads a document's links and raw content.
type Documents interface {
	Links(ctx context.Context, id uuid.UUID) (*documents.Links, error)
	Open(ctx context.Context, doc *documents.Document) (io.ReadCloser, error)
}

// Substituter resolves a source from glossaries and memories.
type Substituter interface {
	Translate(ctx context.Context, source string, threshold float64, scope substitution.Scope) (*substitution.Match, error)
}

// Glossaries supplies terminology hints for machine translation.
type Glossaries interface {
	Hints(ctx context.Context, text string, glossaryIDs []uuid.UUID) ([]glossaries.Record, error)
}

// Segments persists processed units.
type Segments interface {
	Import(ctx context.Context, documentID uuid.UUID, drafts []segments.Draft) ([]segments.Segment, error)
}

// ProviderFactory creates the machine-translation provider for a run.
type ProviderFactory func(ctx context.Context, cfg mt.Config) (mt.Provider, error)

// Deps are the collaborators of a Processor.
type Deps struct {
	Documents    Documents
	Substitution Substituter
	Glossaries   Glossaries
	Segments     Segments
}

// Option configures a Processor.
type Option func(*Processor)

// WithProviderFactory replaces mt.NewProvider.
func WithProviderFactory(f ProviderFactory) Option {
	return func(p *Processor) { p.providers = f }
}

// WithSleep replaces the backoff sleep used between translation attempts.
func WithSleep(s mt.SleepFunc) Option {
	return func(p *Processor) { p.sleep = s }
}

// Processor runs the processing pipeline for one document at a time.
type Processor struct {
	deps        Deps
	translation mt.Config
	providers   ProviderFactory
	sleep       mt.SleepFunc
	logger      *slog.Logger
}

// New creates a Processor. translation holds the worker's machine
// translation defaults; a task's own translation settings are merged over
// them.
func New(deps Deps, translation mt.Config, logger *slog.Logger, opts ...Option) *Processor {
	p := &Processor{
		deps:        deps,
		translation: translation,
		providers:   mt.NewProvider,
		sleep:       mt.Sleep,
		logger:      logger.With("system", "processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts, resolves, translates and stores the segments of doc.
// It returns nil only when every stage succeeded.
func (p *Processor) Process(ctx context.Context, doc documents.Document, settings tasks.Settings) error {
	n, err := p.process(ctx, doc, settings)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProcessFailed, err)
	}
	p.logger.Info("document processed", "id", doc.ID, "segments", n)
	return nil
}

func (p *Processor) process(ctx context.Context, doc documents.Document, settings tasks.Settings) (int, error) {
	links, err := p.deps.Documents.Links(ctx, doc.ID)
	if err != nil {
		return 0, fmt.Errorf("load links: %w", err)
	}
	scope := links.Scope()

	units, err := p.extract(ctx, &doc)
	if err != nil {
		return 0, err
	}

	drafts := make([]segments.Draft, len(units))
	var unresolved []int

	for i, u := range units {
		drafts[i] = segments.Draft{Unit: u, Change: history.InitialImport}
		if u.Approved {
			continue
		}

		m, err := p.deps.Substitution.Translate(ctx, u.Source, settings.SimilarityThreshold, scope)
		if err != nil {
			return 0, fmt.Errorf("substitute unit %d: %w", i, err)
		}
		if m != nil {
			setTarget(&drafts[i], m.Target, changeFor(m.Kind))
			drafts[i].Unit.Approved = m.Kind.AutoApproved()
			continue
		}

		if u.Target == "" {
			unresolved = append(unresolved, i)
		}
	}

	p.logger.Info(
		"substitution complete",
		"id", doc.ID,
		"units", len(units),
		"unresolved", len(unresolved),
	)

	if settings.Translation != nil && len(unresolved) > 0 {
		if err := p.translate(ctx, doc, settings.Translation, scope, drafts, unresolved); err != nil {
			return 0, err
		}
	}

	if _, err := p.deps.Segments.Import(ctx, doc.ID, drafts); err != nil {
		return 0, fmt.Errorf("persist segments: %w", err)
	}
	return len(drafts), nil
}

func (p *Processor) extract(ctx context.Context, doc *documents.Document) ([]formats.Unit, error) {
	extractor, err := formats.ExtractorFor(doc.Format)
	if err != nil {
		return nil, err
	}

	rc, err := p.deps.Documents.Open(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer rc.Close()

	units, err := extractor.Extract(rc)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.Format, err)
	}
	return units, nil
}

func (p *Processor) translate(
	ctx context.Context,
	doc documents.Document,
	overlay *mt.Config,
	scope substitution.Scope,
	drafts []segments.Draft,
	unresolved []int,
) error {
	cfg, err := p.translation.Resolve(overlay)
	if err != nil {
		return err
	}

	provider, err := p.providers(ctx, cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	lines := make([]mt.Line, len(unresolved))
	for j, i := range unresolved {
		source := drafts[i].Unit.Source
		terms, err := p.deps.Glossaries.Hints(ctx, source, scope.Glossaries)
		if err != nil {
			return fmt.Errorf("glossary hints: %w", err)
		}
		lines[j] = mt.Line{Text: source, Hints: hints(terms)}
	}

	adapter := mt.NewAdapter(provider, cfg, p.sleep, p.logger)
	out, err := adapter.TranslateLines(ctx, doc.SourceLang, doc.TargetLang, lines)
	if err != nil {
		return fmt.Errorf("machine translation: %w", err)
	}

	translated := 0
	for j, i := range unresolved {
		if out[j] == "" {
			continue
		}
		setTarget(&drafts[i], out[j], history.MachineTranslation)
		translated++
	}

	p.logger.Info(
		"machine translation complete",
		"id", doc.ID,
		"provider", provider.Name(),
		"requested", len(unresolved),
		"translated", translated,
	)
	return nil
}

// setTarget records a newly produced target. XLIFF units move to the
// translated state.
func setTarget(d *segments.Draft, target string, change history.ChangeType) {
	d.Unit.Target = target
	d.Change = change
	if loc, ok := d.Unit.Locator.(formats.XliffLocator); ok {
		loc.State = formats.StateTranslated
		d.Unit.Locator = loc
	}
}

func changeFor(k substitution.Kind) history.ChangeType {
	switch k {
	case substitution.Glossary:
		return history.GlossarySubstitution
	case substitution.Memory:
		return history.MemorySubstitution
	default:
		return history.InitialImport
	}
}

func hints(terms []glossaries.Record) []mt.Hint {
	if len(terms) == 0 {
		return nil
	}
	out := make([]mt.Hint, len(terms))
	for i, t := range terms {
		out[i] = mt.Hint{Source: t.Source, Target: t.Target}
	}
	return out
}
