// File: internal/usecase/poller.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"vector-doc-search/internal/domain"
	"vector-doc-search/internal/domain/model"
	"vector-doc-search/internal/domain/ports/adapter"
	"vector-doc-search/internal/infra/metrics"
)

// CheckFunc is one status observation of a remote asynchronous job.
type CheckFunc func(ctx context.Context) (adapter.JobState, error)

// Poller repeatedly invokes a status check until the job reaches a
// terminal state. The loop is bounded: it stops on context cancellation
// or when the configured timeout elapses between checks.
type Poller struct {
	interval time.Duration
	timeout  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	log      *zerolog.Logger
}

func NewPoller(interval, timeout time.Duration, logger *zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	pollLog := logger.With().Str("component", "Poller").Logger()
	return &Poller{
		interval: interval,
		timeout:  timeout,
		sleep:    sleepCtx,
		log:      &pollLog,
	}
}

// Wait blocks until check reports a terminal status.
//   - completed: the final state is returned with a nil error and no
//     further checks are issued.
//   - failed / cancelled: the error wraps domain.ErrJobFailed or
//     domain.ErrJobCancelled and carries the service's last-error detail.
//   - any other status: wait one interval and check again.
//
// A check error aborts immediately; the deadline error wraps
// domain.ErrDeadlineExceeded.
func (p *Poller) Wait(ctx context.Context, check CheckFunc) (adapter.JobState, error) {
	deadline := time.Now().Add(p.timeout)

	for {
		state, err := check(ctx)
		if err != nil {
			return state, err
		}
		metrics.IncPollAttempt(string(state.Status))

		switch state.Status {
		case model.JobStatusCompleted:
			return state, nil
		case model.JobStatusFailed:
			return state, fmt.Errorf("%w: %s", domain.ErrJobFailed, lastErrorOr(state, "no detail reported"))
		case model.JobStatusCancelled:
			return state, fmt.Errorf("%w: %s", domain.ErrJobCancelled, lastErrorOr(state, "cancelled by service"))
		}

		if time.Now().After(deadline) {
			return state, fmt.Errorf("%w after %s (last status %q)", domain.ErrDeadlineExceeded, p.timeout, state.Status)
		}
		p.log.Debug().Str("status", string(state.Status)).Dur("interval", p.interval).Msg("job not terminal, waiting")
		if err := p.sleep(ctx, p.interval); err != nil {
			return state, err
		}
	}
}

func lastErrorOr(state adapter.JobState, fallback string) string {
	if state.LastError != "" {
		return state.LastError
	}
	return fallback
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
