package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/waitfor/internal/domain"
	"github.com/hamed0406/waitfor/internal/output"
	"github.com/hamed0406/waitfor/internal/probe"
)

// DefaultInterval is the fixed pause between attempts.
const DefaultInterval = time.Second

// ErrInterrupted is returned when the context is cancelled mid-wait.
var ErrInterrupted = domain.ErrInterrupted

type Waiter struct {
	Checker  probe.Checker
	Printer  output.Printer
	Logger   *zap.Logger
	Timeout  time.Duration // 0 waits forever
	Interval time.Duration

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func New(checker probe.Checker, p output.Printer, log *zap.Logger, timeout time.Duration) *Waiter {
	if timeout < 0 {
		timeout = 0
	}
	return &Waiter{
		Checker:  checker,
		Printer:  p,
		Logger:   log,
		Timeout:  timeout,
		Interval: DefaultInterval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait checks target until it is reachable, the timeout passes, a
// non-retryable error comes back or ctx is cancelled.
// The timeout is only checked between attempts.
func (w *Waiter) Wait(ctx context.Context, target domain.Target) error {
	start := w.now()
	w.Printer.Info("Waiting for %s to become available...", target)
	w.Logger.Info("wait_started",
		zap.String("target", target.String()),
		zap.String("kind", target.Kind.String()),
		zap.Duration("timeout", w.Timeout),
	)

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return w.interrupted(target, attempt, err)
		}
		elapsed := w.now().Sub(start)
		if w.Timeout > 0 && elapsed >= w.Timeout {
			w.Logger.Warn("wait_timeout",
				zap.String("target", target.String()),
				zap.Int("attempts", attempt-1),
				zap.Duration("elapsed", elapsed),
			)
			return &domain.Error{
				Kind: domain.Timeout,
				Msg:  fmt.Sprintf("Timeout waiting for service after %d seconds", int64(w.Timeout/time.Second)),
			}
		}

		res := w.Checker.Check(ctx, target)
		if res.Success {
			w.Printer.Success("Service is available!")
			w.Logger.Info("service_available",
				zap.String("target", target.String()),
				zap.Int("attempts", attempt),
				zap.Int("status", res.StatusCode),
				zap.Float64("latency_ms", res.LatencyMS),
				zap.Duration("elapsed", w.now().Sub(start)),
			)
			return nil
		}

		err := res.Err
		if err == nil {
			err = errors.New(res.Message)
		}
		if ctx.Err() != nil {
			return w.interrupted(target, attempt, ctx.Err())
		}
		if !domain.Retryable(err) {
			w.Logger.Error("check_aborted",
				zap.String("target", target.String()),
				zap.Int("attempt", attempt),
				zap.String("kind", domain.KindOf(err).String()),
				zap.Error(err),
			)
			return err
		}

		w.Logger.Info("check_failed",
			zap.String("target", target.String()),
			zap.Int("attempt", attempt),
			zap.String("kind", domain.KindOf(err).String()),
			zap.Int("status", res.StatusCode),
			zap.Errors("addr_errors", probe.AddressErrors(err)),
			zap.Error(err),
		)
		w.Printer.Warning("Check failed: %s", failureText(err))
		w.Printer.Warning("Retrying in 1 second...")

		if err := w.sleep(ctx, w.Interval); err != nil {
			return w.interrupted(target, attempt, err)
		}
	}
}

func (w *Waiter) interrupted(target domain.Target, attempt int, cause error) error {
	w.Logger.Warn("wait_interrupted",
		zap.String("target", target.String()),
		zap.Int("attempt", attempt),
		zap.NamedError("cause", cause),
	)
	return ErrInterrupted
}

// failureText drops the per-address causes of a ConnectFailed error, which
// the TCP checker has already printed line by line.
func failureText(err error) string {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind == domain.ConnectFailed {
		return de.Msg
	}
	return err.Error()
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
