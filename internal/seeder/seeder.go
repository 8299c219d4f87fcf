// Package seeder populates the in-memory stores with demo data so the server
// is explorable without a database.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	analysismodels "ikigai/internal/analysis/models"
	coachingmodels "ikigai/internal/coaching/models"
	profiles "ikigai/internal/profile/models"
	"ikigai/internal/scoring"
)

// ProfileStore defines methods for seeding accounts.
type ProfileStore interface {
	Create(ctx context.Context, p *profiles.Profile) error
}

// RelationshipStore defines methods for seeding coach rosters.
type RelationshipStore interface {
	Create(ctx context.Context, rel *coachingmodels.Relationship) error
}

// QuestionnaireStore defines methods for seeding analyses.
type QuestionnaireStore interface {
	Create(ctx context.Context, q *analysismodels.Questionnaire) error
}

// Seeder populates in-memory stores with demo data.
type Seeder struct {
	profiles       ProfileStore
	relationships  RelationshipStore
	questionnaires QuestionnaireStore
	table          *scoring.Table
	logger         *slog.Logger
}

// New creates a new seeder.
func New(profileStore ProfileStore, relationshipStore RelationshipStore, questionnaireStore QuestionnaireStore, table *scoring.Table, logger *slog.Logger) *Seeder {
	return &Seeder{
		profiles:       profileStore,
		relationships:  relationshipStore,
		questionnaires: questionnaireStore,
		table:          table,
		logger:         logger,
	}
}

// SeedAll populates all stores with a demo coach, their clients and a few
// analyzed questionnaires. IDs are fixed so the endpoints are scriptable.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	coach, clients, err := s.seedProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}

	if err := s.seedRelationships(ctx, coach, clients); err != nil {
		return fmt.Errorf("failed to seed relationships: %w", err)
	}

	if err := s.seedQuestionnaires(ctx, clients); err != nil {
		return fmt.Errorf("failed to seed questionnaires: %w", err)
	}

	s.logger.Info("demo data seeded",
		"coach_id", coach.ID,
		"clients", len(clients),
	)
	return nil
}

func (s *Seeder) seedProfiles(ctx context.Context) (*profiles.Profile, []*profiles.Profile, error) {
	coach := &profiles.Profile{
		ID:    uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Email: "sophie.martin@ai-ikigai.com",
		Name:  "Sophie Martin",
		Role:  profiles.RoleCoach,
		Plan:  "premium",
	}
	if err := s.profiles.Create(ctx, coach); err != nil {
		return nil, nil, err
	}

	clients := []*profiles.Profile{
		{
			ID:    uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Email: "claire.dubois@example.com",
			Name:  "Claire Dubois",
			Role:  profiles.RoleClient,
			Plan:  "essentiel",
		},
		{
			ID:    uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Email: "paul.lefevre@example.com",
			Name:  "Paul Lefèvre",
			Role:  profiles.RoleClient,
			Plan:  "decouverte",
		},
	}
	for _, c := range clients {
		if err := s.profiles.Create(ctx, c); err != nil {
			return nil, nil, err
		}
	}
	return coach, clients, nil
}

func (s *Seeder) seedRelationships(ctx context.Context, coach *profiles.Profile, clients []*profiles.Profile) error {
	for _, c := range clients {
		if err := s.relationships.Create(ctx, coachingmodels.NewActive(coach.ID, c.ID, c.Email)); err != nil {
			return err
		}
	}
	// One invitation still waiting for signup.
	return s.relationships.Create(ctx, coachingmodels.NewPending(coach.ID, "marc.petit@example.com"))
}

func (s *Seeder) seedQuestionnaires(ctx context.Context, clients []*profiles.Profile) error {
	answerSets := []scoring.Answers{
		{
			"q1": scoring.Value("create"),
			"q2": scoring.Values("impact", "startup"),
			"q3": scoring.Value("teach"),
		},
		{
			"q1": scoring.Value("analyze"),
			"q2": scoring.Values("tech", "science"),
			"q3": scoring.Value("freelance"),
		},
	}

	for i, c := range clients {
		answers := answerSets[i%len(answerSets)]
		record := s.table.Aggregate(answers)
		q := &analysismodels.Questionnaire{
			ID:      uuid.New(),
			UserID:  &c.ID,
			Email:   c.Email,
			Answers: answers,
			Analysis: analysismodels.Analysis{
				Passions: []string{"Créativité"},
				Talents:  []string{"Analyse"},
				Mission:  []string{"Impact positif"},
				Vocation: []string{"Startup"},
				Score:    &record,
			},
		}
		if err := s.questionnaires.Create(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
