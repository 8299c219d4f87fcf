package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"ikigai/internal/coaching/models"
	"ikigai/internal/sentinel"
)

// Postgres persists relationships in PostgreSQL. The partial unique index on
// (coach_id, client_id) turns duplicate invitations for a registered client
// into a store-level conflict, closing the lookup-then-insert race.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed relationship store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Create inserts the relationship as a single statement, reading back the
// store-owned creation timestamp.
func (s *Postgres) Create(ctx context.Context, rel *models.Relationship) error {
	query := `
		INSERT INTO coach_clients (id, coach_id, client_id, status, invitation_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		rel.ID,
		rel.CoachID,
		rel.ClientID,
		string(rel.Status),
		rel.InvitationEmail,
	).Scan(&rel.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("relationship already exists: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create relationship: %w", err)
	}
	return nil
}

// FindByID retrieves a relationship by its UUID.
func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Relationship, error) {
	query := `
		SELECT id, coach_id, client_id, status, invitation_email, created_at
		FROM coach_clients
		WHERE id = $1
	`
	rel, err := scanRelationship(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find relationship by id: %w", err)
	}
	return rel, nil
}

// FindByCoachAndClient retrieves the resolved relationship for a pair.
func (s *Postgres) FindByCoachAndClient(ctx context.Context, coachID, clientID uuid.UUID) (*models.Relationship, error) {
	query := `
		SELECT id, coach_id, client_id, status, invitation_email, created_at
		FROM coach_clients
		WHERE coach_id = $1 AND client_id = $2
	`
	rel, err := scanRelationship(s.db.QueryRowContext(ctx, query, coachID, clientID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find relationship by pair: %w", err)
	}
	return rel, nil
}

// ListByCoach returns every relationship held by a coach, newest first.
func (s *Postgres) ListByCoach(ctx context.Context, coachID uuid.UUID) ([]*models.Relationship, error) {
	query := `
		SELECT id, coach_id, client_id, status, invitation_email, created_at
		FROM coach_clients
		WHERE coach_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, coachID)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	defer rows.Close()

	var out []*models.Relationship
	for rows.Next() {
		var rel models.Relationship
		var status string
		if err := rows.Scan(&rel.ID, &rel.CoachID, &rel.ClientID, &status, &rel.InvitationEmail, &rel.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		rel.Status = models.Status(status)
		out = append(out, &rel)
	}
	return out, rows.Err()
}

// CountPendingByEmail counts pending invitations recorded for an email.
func (s *Postgres) CountPendingByEmail(ctx context.Context, email string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM coach_clients WHERE status = 'pending' AND invitation_email = $1`
	if err := s.db.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending invitations: %w", err)
	}
	return count, nil
}

func scanRelationship(row *sql.Row) (*models.Relationship, error) {
	var rel models.Relationship
	var status string
	if err := row.Scan(&rel.ID, &rel.CoachID, &rel.ClientID, &status, &rel.InvitationEmail, &rel.CreatedAt); err != nil {
		return nil, err
	}
	rel.Status = models.Status(status)
	return &rel, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
