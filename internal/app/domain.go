// Package app wires the domain systems of scribe from its infrastructure.
package app

import (
	"github.com/JaimeStill/scribe/internal/documents"
	"github.com/JaimeStill/scribe/internal/glossaries"
	"github.com/JaimeStill/scribe/internal/history"
	"github.com/JaimeStill/scribe/internal/memories"
	"github.com/JaimeStill/scribe/internal/processor"
	"github.com/JaimeStill/scribe/internal/segments"
	"github.com/JaimeStill/scribe/internal/substitution"
	"github.com/JaimeStill/scribe/internal/tasks"
	"github.com/JaimeStill/scribe/internal/worker"
)

// Domain holds all domain systems.
type Domain struct {
	Documents  documents.System
	Segments   segments.System
	History    history.System
	Glossaries glossaries.System
	Memories   memories.System
	Tasks      tasks.System
	Processor  *processor.Processor
	Worker     *worker.Service
}

// NewDomain creates all domain systems from the runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()
	engine := history.NewEngine(runtime.Clock)

	docsSystem := documents.New(db, runtime.Storage, runtime.Logger, runtime.Pagination)
	segmentsSystem := segments.New(db, engine, runtime.Words, runtime.Logger, runtime.Pagination)
	glossariesSystem := glossaries.New(db, runtime.Logger)
	memoriesSystem := memories.New(db, runtime.Logger)
	tasksSystem := tasks.New(db, runtime.Logger)

	proc := processor.New(
		processor.Deps{
			Documents:    docsSystem,
			Substitution: substitution.New(glossariesSystem, memoriesSystem),
			Glossaries:   glossariesSystem,
			Segments:     segmentsSystem,
		},
		runtime.Translation,
		runtime.Logger,
	)

	return &Domain{
		Documents:  docsSystem,
		Segments:   segmentsSystem,
		History:    history.New(db, runtime.Logger, runtime.Pagination),
		Glossaries: glossariesSystem,
		Memories:   memoriesSystem,
		Tasks:      tasksSystem,
		Processor:  proc,
		Worker: worker.New(
			tasksSystem,
			docsSystem,
			proc,
			runtime.PollInterval,
			runtime.Logger,
			worker.WithClock(runtime.Clock),
		),
	}
}
