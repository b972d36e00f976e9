package guard

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/company-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/company-backend-go/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestNew_DefaultThreshold(t *testing.T) {
	assert.Equal(t, time.Second, New(0).SlowThreshold())
	assert.Equal(t, 250*time.Millisecond, New(250*time.Millisecond).SlowThreshold())
}

func TestRun_SlowOperationStillSucceeds(t *testing.T) {
	logs := captureLogs(t)
	g := New(10 * time.Millisecond)
	before := testutil.ToFloat64(metrics.SlowOperations.WithLabelValues("TestService.Slow"))

	got, err := Run(context.Background(), g, "TestService.Slow", func(ctx context.Context) (string, error) {
		time.Sleep(30 * time.Millisecond)
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Contains(t, logs.String(), "Slow operation")
	assert.Contains(t, logs.String(), "TestService.Slow")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SlowOperations.WithLabelValues("TestService.Slow")))
}

func TestRun_FastOperationIsNotReported(t *testing.T) {
	logs := captureLogs(t)
	g := New(time.Second)

	got, err := Run(context.Background(), g, "TestService.Fast", func(ctx context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.NotContains(t, logs.String(), "Slow operation")
}

func TestRun_FailureIsWrapped(t *testing.T) {
	g := New(time.Second)
	cause := errors.New("connection reset")

	got, err := Run(context.Background(), g, "CompanyService.Create", func(ctx context.Context) (*int, error) {
		time.Sleep(5 * time.Millisecond)
		return nil, cause
	})

	assert.Nil(t, got)
	require.Error(t, err)

	var failure *ExecutionFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "CompanyService.Create", failure.Operation)
	assert.GreaterOrEqual(t, failure.Elapsed, 5*time.Millisecond)
	assert.ErrorIs(t, err, cause)
	assert.Regexp(t, regexp.MustCompile(`^operation CompanyService\.Create failed after \d+ ms: connection reset$`), err.Error())
}

func TestRun_FailureKeepsClassification(t *testing.T) {
	g := New(time.Second)

	err := g.Exec(context.Background(), "CompanyService.GetByID", func(ctx context.Context) error {
		return apperror.NotFound("company not found")
	})

	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
