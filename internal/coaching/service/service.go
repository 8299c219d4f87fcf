package service

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	analysismodels "ikigai/internal/analysis/models"
	coachingmetrics "ikigai/internal/coaching/metrics"
	"ikigai/internal/coaching/models"
	"ikigai/internal/email"
	"ikigai/internal/platform/privacy"
	profiles "ikigai/internal/profile/models"
	"ikigai/internal/sentinel"
	dErrors "ikigai/pkg/domain-errors"
)

// ProfileStore resolves coaches and invitees.
type ProfileStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*profiles.Profile, error)
	FindByEmail(ctx context.Context, email string) (*profiles.Profile, error)
}

// RelationshipStore persists coach-client relationships. Create must reject a
// second resolved relationship for the same (coach, client) pair with
// sentinel.ErrAlreadyUsed.
type RelationshipStore interface {
	Create(ctx context.Context, rel *models.Relationship) error
	FindByCoachAndClient(ctx context.Context, coachID, clientID uuid.UUID) (*models.Relationship, error)
	ListByCoach(ctx context.Context, coachID uuid.UUID) ([]*models.Relationship, error)
	CountPendingByEmail(ctx context.Context, email string) (int, error)
}

// AnalysisDirectory exposes the questionnaire records the coach dashboard
// reads: per-client counts and full history.
type AnalysisDirectory interface {
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*analysismodels.Questionnaire, error)
}

// Config carries the invitation policy knobs.
type Config struct {
	// InviteBaseURL is the public site the invitation link points at.
	InviteBaseURL string
	// AllowMultiplePendingInvites keeps repeated invitations to a
	// still-unregistered email from being deduplicated. Off, a second
	// pending invitation for the same address is a conflict.
	AllowMultiplePendingInvites bool
}

// Service orchestrates the coach-client invitation lifecycle.
type Service struct {
	profiles      ProfileStore
	relationships RelationshipStore
	analyses      AnalysisDirectory
	sender        email.Sender
	cfg           Config

	logger  *slog.Logger
	metrics *coachingmetrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *coachingmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func New(profileStore ProfileStore, relationshipStore RelationshipStore, analyses AnalysisDirectory, sender email.Sender, cfg Config, opts ...Option) *Service {
	s := &Service{
		profiles:      profileStore,
		relationships: relationshipStore,
		analyses:      analyses,
		sender:        sender,
		cfg:           cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("ikigai/coaching")
	}
	return s
}

// InviteCommand is the input of the invitation endpoint.
type InviteCommand struct {
	CoachID         uuid.UUID
	Email           string
	ClientName      string
	PersonalMessage string
}

// InviteResult reports the created relationship and, when the email was
// delivered, the provider's message id.
type InviteResult struct {
	RelationshipID uuid.UUID
	Status         models.Status
	EmailID        string
}

// Invite establishes (or queues) a coaching relationship and notifies the
// invitee. The relationship row is the durable record of intent: email
// delivery is best-effort and a failed send is reported as a delivery error
// alongside the already-created relationship id, never rolled back.
func (s *Service) Invite(ctx context.Context, cmd InviteCommand) (*InviteResult, error) {
	ctx, span := s.tracer.Start(ctx, "coaching.Invite",
		trace.WithAttributes(attribute.String("coach_id", cmd.CoachID.String())))
	defer span.End()

	rel, coach, err := s.createRelationship(ctx, cmd)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &InviteResult{RelationshipID: rel.ID, Status: rel.Status}
	s.incrementCreated(string(rel.Status))
	s.logInfo(ctx, "relationship created",
		"relationship_id", rel.ID,
		"coach_id", rel.CoachID,
		"status", rel.Status,
		"invitee", privacy.MaskEmail(rel.InvitationEmail),
	)

	emailID, err := s.sendInvitation(ctx, cmd, rel, coach)
	if err != nil {
		s.incrementEmailFailure()
		s.logError(ctx, "invitation email failed after relationship was created",
			"relationship_id", rel.ID,
			"error", err,
		)
		span.SetStatus(codes.Error, "email delivery failed")
		// The relationship exists; callers must surface its id even though
		// the overall call is reported as failed for delivery purposes.
		return result, dErrors.Wrap(err, dErrors.CodeDeliveryFailed,
			"invitation created but the email could not be delivered")
	}

	result.EmailID = emailID
	return result, nil
}

// createRelationship runs the lookup/decide/write part of the state machine
// and returns the persisted relationship together with the coach profile.
func (s *Service) createRelationship(ctx context.Context, cmd InviteCommand) (*models.Relationship, *profiles.Profile, error) {
	if err := validateInvite(cmd); err != nil {
		s.incrementFailed("validation")
		return nil, nil, err
	}

	coach, err := s.profiles.FindByID(ctx, cmd.CoachID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.incrementFailed("coach_not_found")
			return nil, nil, dErrors.New(dErrors.CodeNotFound, "coach not found")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load coach")
	}

	invitee := profiles.NormalizeEmail(cmd.Email)

	existing, err := s.profiles.FindByEmail(ctx, invitee)
	switch {
	case err == nil:
		return s.createResolved(ctx, cmd.CoachID, existing, invitee, coach)
	case errors.Is(err, sentinel.ErrNotFound):
		return s.createPending(ctx, cmd.CoachID, invitee, coach)
	default:
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up invitee")
	}
}

// createResolved links an already registered client, guarding against a
// duplicate relationship both before and during the insert.
func (s *Service) createResolved(ctx context.Context, coachID uuid.UUID, client *profiles.Profile, invitee string, coach *profiles.Profile) (*models.Relationship, *profiles.Profile, error) {
	_, err := s.relationships.FindByCoachAndClient(ctx, coachID, client.ID)
	if err == nil {
		s.incrementFailed("duplicate")
		return nil, nil, dErrors.New(dErrors.CodeConflict, "this client is already invited")
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing relationship")
	}

	rel := models.NewActive(coachID, client.ID, invitee)
	if err := s.relationships.Create(ctx, rel); err != nil {
		// The store-level constraint closes the lookup-then-insert race.
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			s.incrementFailed("duplicate")
			return nil, nil, dErrors.New(dErrors.CodeConflict, "this client is already invited")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create relationship")
	}
	return rel, coach, nil
}

// createPending records an invitation for an email with no account yet.
func (s *Service) createPending(ctx context.Context, coachID uuid.UUID, invitee string, coach *profiles.Profile) (*models.Relationship, *profiles.Profile, error) {
	if !s.cfg.AllowMultiplePendingInvites {
		count, err := s.relationships.CountPendingByEmail(ctx, invitee)
		if err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check pending invitations")
		}
		if count > 0 {
			s.incrementFailed("duplicate_pending")
			return nil, nil, dErrors.New(dErrors.CodeConflict, "a pending invitation already exists for this email")
		}
	}

	rel := models.NewPending(coachID, invitee)
	if err := s.relationships.Create(ctx, rel); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create invitation")
	}
	return rel, coach, nil
}

func (s *Service) sendInvitation(ctx context.Context, cmd InviteCommand, rel *models.Relationship, coach *profiles.Profile) (string, error) {
	link := s.inviteLink(rel)
	coachName := coach.DisplayName()

	html, err := email.RenderInvitation(email.InvitationData{
		ClientName:      cmd.ClientName,
		CoachName:       coachName,
		PersonalMessage: cmd.PersonalMessage,
		InviteLink:      link,
	})
	if err != nil {
		return "", err
	}

	return s.sender.Send(ctx, email.Message{
		From:    email.InvitationFrom(coachName),
		To:      []string{rel.InvitationEmail},
		ReplyTo: email.InvitationReplyTo,
		Subject: email.InvitationSubject(coachName),
		HTML:    html,
	})
}

// inviteLink embeds the coach id and the relationship id so signup can attach
// the new account to the right invitation.
func (s *Service) inviteLink(rel *models.Relationship) string {
	params := url.Values{}
	params.Set("role", "client")
	params.Set("coach_id", rel.CoachID.String())
	params.Set("invitation_id", rel.ID.String())
	return strings.TrimSuffix(s.cfg.InviteBaseURL, "/") + "/auth.html?" + params.Encode()
}

func validateInvite(cmd InviteCommand) error {
	if cmd.CoachID == uuid.Nil {
		return dErrors.New(dErrors.CodeValidation, "coachId is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		return dErrors.New(dErrors.CodeValidation, "to is required")
	}
	if !strings.Contains(cmd.Email, "@") {
		return dErrors.New(dErrors.CodeValidation, "to must be an email address")
	}
	if strings.TrimSpace(cmd.ClientName) == "" {
		return dErrors.New(dErrors.CodeValidation, "clientName is required")
	}
	return nil
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

func (s *Service) incrementCreated(status string) {
	if s.metrics != nil {
		s.metrics.IncrementCreated(status)
	}
}

func (s *Service) incrementFailed(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementFailed(reason)
	}
}

func (s *Service) incrementEmailFailure() {
	if s.metrics != nil {
		s.metrics.IncrementEmailFailure()
	}
}
