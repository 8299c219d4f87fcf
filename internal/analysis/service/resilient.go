package service

import (
	"context"
	"log/slog"
	"time"

	"ikigai/internal/analysis/models"
	"ikigai/internal/scoring"
	"ikigai/pkg/platform/circuit"
)

// ResilientAnalyzer wraps an Analyzer with circuit breaker protection. While
// the circuit is open, calls run under a short probe timeout so a dead
// upstream costs milliseconds instead of the full request timeout, and the
// first consistent successes close the circuit again. Every error still
// surfaces to the caller, which falls back to the local generator.
type ResilientAnalyzer struct {
	delegate     Analyzer
	cb           *circuit.Breaker
	probeTimeout time.Duration
	logger       *slog.Logger
}

type ResilientOption func(*ResilientAnalyzer)

// WithProbeTimeout sets the timeout applied while the circuit is open.
func WithProbeTimeout(d time.Duration) ResilientOption {
	return func(r *ResilientAnalyzer) {
		if d > 0 {
			r.probeTimeout = d
		}
	}
}

// WithBreaker replaces the default breaker, used by tests to tune thresholds.
func WithBreaker(cb *circuit.Breaker) ResilientOption {
	return func(r *ResilientAnalyzer) {
		r.cb = cb
	}
}

// NewResilientAnalyzer creates a circuit-breaker-protected analyzer.
func NewResilientAnalyzer(delegate Analyzer, logger *slog.Logger, opts ...ResilientOption) *ResilientAnalyzer {
	r := &ResilientAnalyzer{
		delegate:     delegate,
		cb:           circuit.New("analyzer"),
		probeTimeout: 5 * time.Second,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ResilientAnalyzer) Analyze(ctx context.Context, answers scoring.Answers, plan string) (*models.Analysis, error) {
	if r.cb.IsOpen() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.probeTimeout)
		defer cancel()
	}

	analysis, err := r.delegate.Analyze(ctx, answers, plan)
	if err != nil {
		if change := r.cb.RecordFailure(); change.Opened {
			r.logger.ErrorContext(ctx, "circuit breaker opened",
				"circuit", r.cb.Name(),
				"error", err,
			)
		}
		return nil, err
	}

	if change := r.cb.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "circuit breaker closed", "circuit", r.cb.Name())
	}
	return analysis, nil
}
