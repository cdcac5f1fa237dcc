package app

import (
	"time"

	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
	"github.com/JaimeStill/scribe/internal/mt"
	"github.com/JaimeStill/scribe/pkg/pagination"
)

// Runtime extends Infrastructure with the configuration domain systems
// read at construction.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination   pagination.Config
	Translation  mt.Config
	PollInterval time.Duration
	Clock        func() time.Time
}

// NewRuntime creates a runtime with a command-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure, command string) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("command", command),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Words:     infra.Words,
		},
		Pagination:   cfg.Pagination,
		Translation:  cfg.Translation,
		PollInterval: cfg.Worker.PollIntervalDuration(),
		Clock:        time.Now,
	}
}
