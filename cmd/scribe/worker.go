package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWorkerCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the task worker",
		Long: `Run the task worker until interrupted.

The worker claims queued tasks one at a time, processes the referenced
document and records its final status. A task in flight when the worker is
interrupted runs to completion before shutdown. Health checks are served on
/healthz and /readyz unless disabled in the [health] configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(g)
		},
	}
}

func runWorker(g *globals) error {
	s, err := open(g, "worker")
	if err != nil {
		return err
	}

	logger := s.infra.Logger
	logger.Info(
		"scribe worker starting",
		"version", s.cfg.Version,
		"env", s.cfg.Env(),
		"poll_interval", s.cfg.Worker.PollInterval,
	)

	if s.cfg.Health.On() {
		health := newHealthServer(&s.cfg.Health, s.infra.Lifecycle, s.cfg.ShutdownTimeoutDuration(), logger)
		if err := health.Start(s.infra.Lifecycle); err != nil {
			return err
		}
	}

	if err := s.domain.Worker.Start(s.infra.Lifecycle); err != nil {
		return fmt.Errorf("worker start failed: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("initiating shutdown")
	if err := s.close(); err != nil {
		return err
	}

	logger.Info("scribe worker stopped")
	return nil
}
