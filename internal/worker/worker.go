// Package worker runs the polling loop that claims processing tasks and
// drives documents through pending, processing, and done or error.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/scribe/internal/documents"
	"github.com/JaimeStill/scribe/internal/tasks"
	"github.com/JaimeStill/scribe/pkg/lifecycle"
)

// Tasks is the queue the worker drains.
type Tasks interface {
	Claim(ctx context.Context) (*tasks.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Documents are the state transitions the worker performs.
type Documents interface {
	Find(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	Claim(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	Complete(ctx context.Context, id uuid.UUID, status documents.Status) error
}

// Processor runs the pipeline for one claimed document.
type Processor interface {
	Process(ctx context.Context, doc documents.Document, settings tasks.Settings) error
}

// Clock supplies the current time.
type Clock func() time.Time

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(s *Service) { s.now = c }
}

// WithSleep replaces the idle sleep between polls.
func WithSleep(fn SleepFunc) Option {
	return func(s *Service) { s.sleep = fn }
}

// Service polls for tasks and processes them one at a time.
type Service struct {
	tasks     Tasks
	documents Documents
	processor Processor
	interval  time.Duration
	now       Clock
	sleep     SleepFunc
	logger    *slog.Logger
}

// New creates a Service that polls every interval while the queue is empty.
func New(
	queue Tasks,
	docs Documents,
	proc Processor,
	interval time.Duration,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		tasks:     queue,
		documents: docs,
		processor: proc,
		interval:  interval,
		now:       time.Now,
		sleep:     sleep,
		logger:    logger.With("system", "worker"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the loop in the background until the coordinator begins
// draining. The task in flight finishes before the database closes.
func (s *Service) Start(lc *lifecycle.Coordinator) error {
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.Run(lc.Draining())
	}()

	lc.OnDrain(func() {
		<-lc.Draining().Done()
		<-done
		s.logger.Info("worker stopped")
	})

	return nil
}

// Run polls until ctx is cancelled. Task failures are logged and never end
// the loop.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info("worker started", "poll_interval", s.interval)

	for ctx.Err() == nil {
		ran, err := s.RunOnce(ctx)
		if err != nil {
			s.logger.Error("task failed", "error", err)
		}
		if ran {
			continue
		}
		if err := s.sleep(ctx, s.interval); err != nil {
			return
		}
	}
}

// RunOnce claims and handles at most one task. It reports whether a task
// was claimed; the error is the task's failure, if any. The claimed task
// is always deleted.
func (s *Service) RunOnce(ctx context.Context) (bool, error) {
	task, err := s.tasks.Claim(ctx)
	if err != nil {
		return false, fmt.Errorf("claim task: %w", err)
	}
	if task == nil {
		return false, nil
	}

	// a claimed task runs to completion even if shutdown begins
	return true, s.handle(context.WithoutCancel(ctx), task)
}

func (s *Service) handle(ctx context.Context, task *tasks.Task) (err error) {
	started := s.now()
	logger := s.logger.With("task", task.ID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
		if delErr := s.tasks.Delete(ctx, task.ID); delErr != nil {
			logger.Error("task delete failed", "error", delErr)
			err = errors.Join(err, fmt.Errorf("delete task: %w", delErr))
		}
		logger.Info("task finished", "elapsed", s.now().Sub(started), "ok", err == nil)
	}()

	payload, err := tasks.ParsePayload(task.Payload)
	if err != nil {
		return err
	}
	logger = logger.With("document", payload.DocumentID)

	doc, err := s.documents.Find(ctx, payload.DocumentID)
	if err != nil {
		return err
	}
	if doc.Status != documents.StatusPending {
		return fmt.Errorf("%w: status %s", documents.ErrNotPending, doc.Status)
	}
	if doc.Format != payload.Type {
		return fmt.Errorf("%w: task %s, document %s", ErrFormatMismatch, payload.Type, doc.Format)
	}

	doc, err = s.documents.Claim(ctx, doc.ID)
	if err != nil {
		return err
	}
	logger.Info("document claimed", "format", doc.Format)

	procErr := s.process(ctx, *doc, *payload.Settings)

	status := documents.StatusDone
	if procErr != nil {
		status = documents.StatusError
	}
	if err := s.documents.Complete(ctx, doc.ID, status); err != nil {
		return errors.Join(procErr, fmt.Errorf("complete document: %w", err))
	}
	return procErr
}

// process isolates processor panics so the document still reaches error.
func (s *Service) process(ctx context.Context, doc documents.Document, settings tasks.Settings) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return s.processor.Process(ctx, doc, settings)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
