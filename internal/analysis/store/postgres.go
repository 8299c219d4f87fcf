package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"ikigai/internal/analysis/models"
	"ikigai/internal/scoring"
	"ikigai/internal/sentinel"
)

// Postgres persists questionnaires in PostgreSQL. Answers and the analysis
// are stored as JSONB since their shape is owned by the questionnaire flow.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed questionnaire store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Create persists a questionnaire record.
func (s *Postgres) Create(ctx context.Context, q *models.Questionnaire) error {
	answers, err := json.Marshal(q.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	analysis, err := json.Marshal(q.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	query := `
		INSERT INTO questionnaires (id, user_id, email, answers, analysis)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := s.db.QueryRowContext(ctx, query, q.ID, q.UserID, q.Email, answers, analysis).Scan(&q.CreatedAt); err != nil {
		return fmt.Errorf("create questionnaire: %w", err)
	}
	return nil
}

// FindByID retrieves a questionnaire by id.
func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Questionnaire, error) {
	query := `
		SELECT id, user_id, email, answers, analysis, created_at
		FROM questionnaires
		WHERE id = $1
	`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("find questionnaire: %w", err)
	}
	defer rows.Close()

	records, err := collect(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return records[0], nil
}

// ListByUser returns a user's questionnaires, newest first.
func (s *Postgres) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Questionnaire, error) {
	query := `
		SELECT id, user_id, email, answers, analysis, created_at
		FROM questionnaires
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list questionnaires: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

// CountByUser returns how many questionnaires a user has submitted.
func (s *Postgres) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM questionnaires WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count questionnaires: %w", err)
	}
	return count, nil
}

func collect(rows *sql.Rows) ([]*models.Questionnaire, error) {
	var out []*models.Questionnaire
	for rows.Next() {
		var q models.Questionnaire
		var answers, analysis []byte
		if err := rows.Scan(&q.ID, &q.UserID, &q.Email, &answers, &analysis, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan questionnaire: %w", err)
		}
		if err := json.Unmarshal(answers, &q.Answers); err != nil {
			q.Answers = scoring.Answers{}
		}
		if err := json.Unmarshal(analysis, &q.Analysis); err != nil {
			return nil, fmt.Errorf("decode analysis: %w", err)
		}
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
