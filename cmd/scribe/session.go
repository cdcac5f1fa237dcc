package main

import (
	"fmt"

	"github.com/JaimeStill/scribe/internal/app"
	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/internal/infrastructure"
)

// session is the started infrastructure and domain behind one command.
type session struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *app.Domain
}

// open loads configuration, starts the infrastructure and waits until the
// database and storage are ready.
func open(g *globals, command string) (*session, error) {
	cfg, err := config.LoadFile(g.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		return nil, err
	}
	infra.Lifecycle.WaitForStartup()

	if err := infra.Database.Err(); err != nil {
		infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		return nil, err
	}

	return &session{
		cfg:    cfg,
		infra:  infra,
		domain: app.NewDomain(app.NewRuntime(cfg, infra, command)),
	}, nil
}

func (s *session) close() error {
	return s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration())
}
