package mt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Adapter splits lines into batches and sends them to a Provider.
type Adapter struct {
	provider Provider
	cfg      Config
	sleep    SleepFunc
	logger   *slog.Logger
}

// NewAdapter creates an Adapter. cfg is expected to be resolved; a nil
// sleep uses Sleep.
func NewAdapter(provider Provider, cfg Config, sleep SleepFunc, logger *slog.Logger) *Adapter {
	if sleep == nil {
		sleep = Sleep
	}
	return &Adapter{
		provider: provider,
		cfg:      cfg,
		sleep:    sleep,
		logger:   logger.With("system", "mt", "provider", provider.Name()),
	}
}

// TranslateLines returns one translation per line, in order. A batch that
// fails every attempt contributes empty strings. Only invalid config,
// permanent provider failures and cancellation are returned as errors.
func (a *Adapter) TranslateLines(ctx context.Context, sourceLang, targetLang string, lines []Line) ([]string, error) {
	out := make([]string, len(lines))
	if len(lines) == 0 {
		return out, nil
	}

	size := max(a.cfg.BatchSize, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.cfg.Concurrency, 1))

	for start := 0; start < len(lines); start += size {
		end := min(start+size, len(lines))
		req := Request{
			SourceLang: sourceLang,
			TargetLang: targetLang,
			Lines:      lines[start:end],
		}
		g.Go(func() error {
			res, err := a.translateBatch(gctx, req)
			if err != nil {
				return err
			}
			copy(out[start:end], res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Adapter) translateBatch(ctx context.Context, req Request) ([]string, error) {
	attempts := max(a.cfg.MaxAttempts, 1)
	backoff := a.cfg.BackoffDuration()

	for attempt := range attempts {
		if attempt > 0 {
			if err := a.sleep(ctx, backoff<<(attempt-1)); err != nil {
				return nil, err
			}
		}

		res, err := a.attempt(ctx, req)
		if err == nil {
			return res, nil
		}
		if isFatal(err) || ctx.Err() != nil {
			return nil, err
		}
		a.logger.Warn("translation attempt failed",
			"attempt", attempt+1,
			"max_attempts", attempts,
			"lines", len(req.Lines),
			"error", err,
		)
	}

	a.logger.Error("translation batch exhausted", "lines", len(req.Lines))
	return make([]string, len(req.Lines)), nil
}

func (a *Adapter) attempt(ctx context.Context, req Request) ([]string, error) {
	if timeout := a.cfg.TimeoutDuration(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := a.provider.Translate(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(res) != len(req.Lines) {
		return nil, errLineCount(len(req.Lines), len(res))
	}
	return res, nil
}

func isFatal(err error) bool {
	return errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrPermanent)
}
