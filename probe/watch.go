package probe

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultInterval between watch polls.
const DefaultInterval = 60 * time.Second

// Checker is the probe operation the watcher polls.
type Checker interface {
	Check(ctx context.Context) (Result, error)
}

// Notifier posts watch alerts; the slack client satisfies it.
type Notifier interface {
	PostMessage(ctx context.Context, channel, text string) error
}

// Watcher polls the probe until the API reports ok.
type Watcher struct {
	Checker  Checker
	Interval time.Duration
	Logger   *log.Logger
	// Notifier and Channel are optional; leaving either empty skips the
	// Slack alert.
	Notifier Notifier
	Channel  string
}

// Watch polls until a probe reports ok, logging every result. On exit it
// posts one alert: a reset notice when the run saw rate limiting, an
// accessible notice otherwise. A cancelled context returns the last result
// with the context error.
func (w *Watcher) Watch(ctx context.Context) (Result, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	wasLimited := false
	for {
		result, err := w.Checker.Check(ctx)
		if err != nil {
			return Result{}, err
		}
		w.logResult(result)

		if result.Status == StatusOK {
			alert := "✅ OpenAI API is accessible - no rate limit detected."
			if wasLimited {
				alert = "🟢 OpenAI rate limit has RESET - you're good to go!"
			}
			w.notify(ctx, alert)
			return result, nil
		}
		if result.Status == StatusRateLimited {
			wasLimited = true
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(interval):
		}
	}
}

func (w *Watcher) logResult(result Result) {
	if w.Logger == nil {
		return
	}
	switch result.Status {
	case StatusOK:
		w.Logger.Info("probe ok",
			"remaining_requests", result.RateLimit.RemainingRequests,
			"remaining_tokens", result.RateLimit.RemainingTokens,
		)
	case StatusRateLimited:
		w.Logger.Warn("rate limited",
			"retry_after", result.RetryAfter,
			"reset_requests", result.RateLimit.ResetRequests,
		)
	default:
		w.Logger.Error("probe failed",
			"status", result.Status,
			"http_code", result.HTTPCode,
			"message", result.Message,
		)
	}
}

func (w *Watcher) notify(ctx context.Context, text string) {
	if w.Notifier == nil || w.Channel == "" {
		return
	}
	if err := w.Notifier.PostMessage(ctx, w.Channel, text); err != nil && w.Logger != nil {
		w.Logger.Error("slack alert failed", "err", err)
	}
}
