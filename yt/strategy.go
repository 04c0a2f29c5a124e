package yt

import (
	"context"
	"fmt"
	"time"

	"github.com/Strum355/log"
)

// strategy is one alternative attempt in an ordered fallback chain.
type strategy[T any] struct {
	name    string
	attempt func(ctx context.Context) (T, error)
}

// runStrategies tries each strategy in order and returns the first success.
// Failures are logged and followed by a short pause so the source provider
// is not hammered. On exhaustion the returned error carries the last
// meaningful category seen across the chain.
func runStrategies[T any](ctx context.Context, label string, gap time.Duration, strategies []strategy[T]) (T, error) {
	var zero T
	lastCategory := CategoryGeneric
	var lastErr error

	for i, s := range strategies {
		if err := ctx.Err(); err != nil {
			return zero, &CategorizedError{Category: CategoryTimeout, Err: err}
		}

		result, err := s.attempt(ctx)
		if err == nil {
			return result, nil
		}

		if c := Categorize(err); c != CategoryGeneric {
			lastCategory = c
		}
		lastErr = err
		log.WithFields(log.Fields{
			"chain":    label,
			"strategy": s.name,
			"attempt":  i + 1,
		}).Info(fmt.Sprintf("strategy failed: %v", err))

		if i < len(strategies)-1 {
			select {
			case <-time.After(gap):
			case <-ctx.Done():
				return zero, &CategorizedError{Category: CategoryTimeout, Err: ctx.Err()}
			}
		}
	}

	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return zero, &CategorizedError{
		Category: lastCategory,
		Err:      fmt.Errorf("%s: all strategies exhausted: %w", label, lastErr),
	}
}
