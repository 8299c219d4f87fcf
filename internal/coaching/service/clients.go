package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	analysismodels "ikigai/internal/analysis/models"
	"ikigai/internal/coaching/models"
	profiles "ikigai/internal/profile/models"
	"ikigai/internal/sentinel"
	dErrors "ikigai/pkg/domain-errors"
)

// ClientSummary is one row of the coach dashboard.
type ClientSummary struct {
	ClientID      *uuid.UUID
	Name          string
	Email         string
	Status        models.Status
	AddedAt       time.Time
	AnalysesCount int
}

// ClientsOverview aggregates a coach's roster.
type ClientsOverview struct {
	TotalClients  int
	TotalAnalyses int
	Clients       []ClientSummary
}

// ListClients returns the coach's relationships with per-client analysis
// counts. Counts for resolved clients are fetched concurrently; pending
// invitations have no account and count zero.
func (s *Service) ListClients(ctx context.Context, coachID uuid.UUID) (*ClientsOverview, error) {
	if coachID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "coach ID required")
	}
	if _, err := s.profiles.FindByID(ctx, coachID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "coach not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load coach")
	}

	rels, err := s.relationships.ListByCoach(ctx, coachID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list relationships")
	}

	summaries := make([]ClientSummary, len(rels))
	g, gctx := errgroup.WithContext(ctx)
	for i, rel := range rels {
		summaries[i] = ClientSummary{
			ClientID: rel.ClientID,
			Email:    rel.InvitationEmail,
			Status:   rel.Status,
			AddedAt:  rel.CreatedAt,
		}
		if rel.ClientID == nil {
			continue
		}
		i, clientID := i, *rel.ClientID
		g.Go(func() error {
			profile, err := s.profiles.FindByID(gctx, clientID)
			if err == nil {
				summaries[i].Name = profile.DisplayName()
			} else if !errors.Is(err, sentinel.ErrNotFound) {
				return err
			}

			count, err := s.analyses.CountByUser(gctx, clientID)
			if err != nil {
				return err
			}
			summaries[i].AnalysesCount = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client stats")
	}

	overview := &ClientsOverview{
		TotalClients: len(summaries),
		Clients:      summaries,
	}
	for _, c := range summaries {
		overview.TotalAnalyses += c.AnalysesCount
	}
	return overview, nil
}

// AddClientByEmail links an already registered client directly, without the
// invitation email round trip. The store-level pair constraint reports the
// duplicate case.
func (s *Service) AddClientByEmail(ctx context.Context, coachID uuid.UUID, clientEmail string) (*models.Relationship, error) {
	if coachID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "coach ID required")
	}
	normalized := profiles.NormalizeEmail(clientEmail)
	if normalized == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "clientEmail is required")
	}

	if _, err := s.profiles.FindByID(ctx, coachID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "coach not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load coach")
	}

	client, err := s.profiles.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no client found with this email")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up client")
	}

	rel := models.NewActive(coachID, client.ID, normalized)
	if err := s.relationships.Create(ctx, rel); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "this client is already in your list")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create relationship")
	}

	s.incrementCreated(string(rel.Status))
	s.logInfo(ctx, "client added to roster",
		"relationship_id", rel.ID,
		"coach_id", coachID,
		"client_id", client.ID,
	)
	return rel, nil
}

// ClientAnalyses returns a client's questionnaire history for a coach that
// holds a relationship with them. Access without a relationship is forbidden.
func (s *Service) ClientAnalyses(ctx context.Context, coachID, clientID uuid.UUID) ([]*analysismodels.Questionnaire, error) {
	if coachID == uuid.Nil || clientID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "coach and client IDs required")
	}

	if _, err := s.relationships.FindByCoachAndClient(ctx, coachID, clientID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeForbidden, "no relationship with this client")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check relationship")
	}

	records, err := s.analyses.ListByUser(ctx, clientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client analyses")
	}
	return records, nil
}
