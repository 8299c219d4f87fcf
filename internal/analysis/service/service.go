// Package service runs questionnaire submissions through analysis, scoring
// and persistence.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	analysismetrics "ikigai/internal/analysis/metrics"
	"ikigai/internal/analysis/models"
	profiles "ikigai/internal/profile/models"
	"ikigai/internal/scoring"
	"ikigai/internal/sentinel"
	dErrors "ikigai/pkg/domain-errors"
)

// Analyzer produces an ikigai analysis from raw answers. Implementations call
// an upstream AI service; errors make the service fall back to the local
// generator.
type Analyzer interface {
	Analyze(ctx context.Context, answers scoring.Answers, plan string) (*models.Analysis, error)
}

// QuestionnaireStore persists submissions with their analyses.
type QuestionnaireStore interface {
	Create(ctx context.Context, q *models.Questionnaire) error
}

// ProfileFinder resolves a submitter email to an account, when one exists.
type ProfileFinder interface {
	FindByEmail(ctx context.Context, email string) (*profiles.Profile, error)
}

// Service produces and stores questionnaire analyses.
type Service struct {
	analyzer Analyzer
	store    QuestionnaireStore
	profiles ProfileFinder
	table    *scoring.Table

	logger  *slog.Logger
	metrics *analysismetrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *analysismetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(analyzer Analyzer, store QuestionnaireStore, profileFinder ProfileFinder, table *scoring.Table, opts ...Option) *Service {
	s := &Service{
		analyzer: analyzer,
		store:    store,
		profiles: profileFinder,
		table:    table,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("ikigai/analysis")
	}
	return s
}

// SubmitCommand is a questionnaire submission.
type SubmitCommand struct {
	Email   string
	Plan    string
	Answers scoring.Answers
}

// SubmitResult carries the analysis back to the caller along with the stored
// record id. QuestionnaireID is the zero uuid when persistence failed; the
// analysis itself is still returned.
type SubmitResult struct {
	QuestionnaireID uuid.UUID
	UserID          *uuid.UUID
	Analysis        *models.Analysis
	Stored          bool
}

// Submit analyzes the answers, backfills scores when the analyzer omitted
// them, and stores the submission. Persistence is best effort: a storage
// failure is logged and the analysis is returned anyway, so the submitter
// never loses their result to a database hiccup.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.Submit",
		trace.WithAttributes(attribute.Int("answers", len(cmd.Answers))))
	defer span.End()

	if len(cmd.Answers) == 0 {
		err := dErrors.New(dErrors.CodeValidation, "answers are required")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(ctx, cmd.Answers, cmd.Plan)
	if err != nil {
		s.incrementAnalyzerFailures()
		s.logError(ctx, "analyzer unavailable, using local generator", "error", err)
		analysis = s.generate(cmd.Answers, cmd.Plan)
	}

	if !analysis.HasScore() {
		record := s.table.Aggregate(cmd.Answers)
		analysis.Score = &record
		s.incrementScoreFallbacks()
		s.logInfo(ctx, "computed scores from questionnaire answers")
	}

	result := &SubmitResult{
		QuestionnaireID: uuid.New(),
		Analysis:        analysis,
	}
	result.UserID = s.resolveUser(ctx, cmd.Email)

	q := &models.Questionnaire{
		ID:       result.QuestionnaireID,
		UserID:   result.UserID,
		Email:    strings.ToLower(strings.TrimSpace(cmd.Email)),
		Answers:  cmd.Answers,
		Analysis: *analysis,
	}
	if err := s.store.Create(ctx, q); err != nil {
		s.logError(ctx, "failed to store questionnaire", "error", err)
		result.QuestionnaireID = uuid.Nil
	} else {
		result.Stored = true
	}

	s.incrementAnalysesCreated()
	s.logInfo(ctx, "questionnaire analyzed",
		"stored", result.Stored,
		"known_user", result.UserID != nil)
	return result, nil
}

// resolveUser maps the submitter email to an account id. A missing or unknown
// email yields nil; the submission is stored anonymously.
func (s *Service) resolveUser(ctx context.Context, email string) *uuid.UUID {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logError(ctx, "profile lookup failed", "error", err)
		}
		return nil
	}
	return &profile.ID
}

func (s *Service) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Service) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}

func (s *Service) incrementAnalysesCreated() {
	if s.metrics != nil {
		s.metrics.IncrementAnalysesCreated()
	}
}

func (s *Service) incrementAnalyzerFailures() {
	if s.metrics != nil {
		s.metrics.IncrementAnalyzerFailures()
	}
}

func (s *Service) incrementScoreFallbacks() {
	if s.metrics != nil {
		s.metrics.IncrementScoreFallbacks()
	}
}
