package forecast

import (
	"context"
	"time"
)

const (
	initialBackoff = time.Second
	maxBackoff     = time.Minute
)

// Run recomputes today's forecast every interval until the context is
// cancelled. This keeps the hourly cache warm and publishes fresh scores.
// Failed refreshes are retried with exponential backoff.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	s.logger.Info("forecast refresher started", "interval", interval)

	backoff := initialBackoff
	for {
		wait := interval
		if _, err := s.SunsetForecast(ctx, s.Today()); err != nil {
			if ctx.Err() != nil {
				break
			}
			s.logger.Error("forecast refresh failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = nextBackoff(backoff, maxBackoff)
		} else {
			backoff = initialBackoff
		}

		if !sleepWithContext(ctx, wait) {
			break
		}
	}

	s.logger.Info("forecast refresher stopping", "reason", ctx.Err())
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
