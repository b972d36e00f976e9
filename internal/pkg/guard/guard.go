// Package guard times service operations. Slow calls are reported but still
// succeed; failed calls are wrapped in an ExecutionFailure. There is no retry.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/metrics"
)

const DefaultSlowThreshold = 1000 * time.Millisecond

// ExecutionFailure is returned when a guarded operation fails.
type ExecutionFailure struct {
	Operation string
	Elapsed   time.Duration
	Err       error
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("operation %s failed after %d ms: %v", e.Operation, e.Elapsed.Milliseconds(), e.Err)
}

func (e *ExecutionFailure) Unwrap() error { return e.Err }

type Guard struct {
	slowThreshold time.Duration
}

// New returns a guard. A non-positive threshold falls back to DefaultSlowThreshold.
func New(slowThreshold time.Duration) *Guard {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}
	return &Guard{slowThreshold: slowThreshold}
}

func (g *Guard) SlowThreshold() time.Duration {
	return g.slowThreshold
}

// Exec runs fn under the guard.
func (g *Guard) Exec(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	_, err := Run(ctx, g, name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Run runs fn under g and returns its result unchanged on success.
func Run[T any](ctx context.Context, g *Guard, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	result, err := fn(ctx)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	metrics.OperationDuration.WithLabelValues(name, outcome).Observe(elapsed.Seconds())

	if err != nil {
		var zero T
		return zero, &ExecutionFailure{Operation: name, Elapsed: elapsed, Err: err}
	}

	if elapsed > g.slowThreshold {
		metrics.SlowOperations.WithLabelValues(name).Inc()
		slog.WarnContext(ctx, "Slow operation",
			"operation", name,
			"elapsed_ms", elapsed.Milliseconds(),
			"threshold_ms", g.slowThreshold.Milliseconds(),
		)
	}

	return result, nil
}
