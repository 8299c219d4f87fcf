package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikigai/internal/analysis/models"
	"ikigai/internal/scoring"
	"ikigai/pkg/platform/circuit"
)

// flakyAnalyzer fails until told otherwise and reports whether the context
// carried a deadline.
type flakyAnalyzer struct {
	healthy     bool
	calls       int
	sawDeadline bool
}

func (f *flakyAnalyzer) Analyze(ctx context.Context, _ scoring.Answers, _ string) (*models.Analysis, error) {
	f.calls++
	_, f.sawDeadline = ctx.Deadline()
	if !f.healthy {
		return nil, errors.New("upstream down")
	}
	return &models.Analysis{}, nil
}

func TestResilientAnalyzerOpensAndCloses(t *testing.T) {
	delegate := &flakyAnalyzer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cb := circuit.New("analyzer", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(1))
	resilient := NewResilientAnalyzer(delegate, logger,
		WithBreaker(cb), WithProbeTimeout(time.Second))

	ctx := context.Background()
	answers := scoring.Answers{"q1": scoring.Value("create")}

	_, err := resilient.Analyze(ctx, answers, "")
	require.Error(t, err)
	assert.False(t, cb.IsOpen(), "one failure must not trip the circuit")

	_, err = resilient.Analyze(ctx, answers, "")
	require.Error(t, err)
	assert.True(t, cb.IsOpen(), "circuit opens at the failure threshold")

	_, err = resilient.Analyze(ctx, answers, "")
	require.Error(t, err)
	assert.True(t, delegate.sawDeadline, "open circuit applies the probe timeout")

	delegate.healthy = true
	_, err = resilient.Analyze(ctx, answers, "")
	require.NoError(t, err)
	assert.False(t, cb.IsOpen(), "a successful probe closes the circuit")

	_, err = resilient.Analyze(ctx, answers, "")
	require.NoError(t, err)
	assert.False(t, delegate.sawDeadline, "closed circuit runs without a probe deadline")
}
