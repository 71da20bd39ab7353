package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/pribylovaa/news-radar/internal/pkg/log"
)

// Retrying повторяет вызов Next с экспоненциальной задержкой.
// Ответы 4xx (кроме 429) и ErrEmptyAnswer не повторяются.
type Retrying struct {
	Next     Summarizer
	Attempts int
	Initial  time.Duration
}

// NewRetrying — обёртка с политикой по умолчанию: 3 попытки, задержки 2s и 4s.
func NewRetrying(next Summarizer, attempts int, initial time.Duration) *Retrying {
	if attempts <= 0 {
		attempts = 3
	}
	if initial <= 0 {
		initial = 2 * time.Second
	}
	return &Retrying{Next: next, Attempts: attempts, Initial: initial}
}

func (r *Retrying) Summarize(ctx context.Context, title, content string) (string, error) {
	const op = "summarize.Retrying.Summarize"

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.Initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = r.Initial << uint(r.Attempts)
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.Attempts-1)), ctx)

	var (
		out     string
		attempt int
	)
	operation := func() error {
		attempt++
		s, err := r.Next.Summarize(ctx, title, content)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = s
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.From(ctx).Warn("summary_retry",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("err", err.Error()),
		)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", fmt.Errorf("%s: after %d attempts: %w", op, attempt, err)
	}

	return out, nil
}

func retryable(err error) bool {
	if errors.Is(err, ErrEmptyAnswer) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
