package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"ikigai/internal/profile/models"
	"ikigai/internal/sentinel"
)

// Postgres persists profiles in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Create adds a profile, rejecting duplicate emails via the unique index.
func (s *Postgres) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, name, role, plan, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		models.NormalizeEmail(p.Email),
		p.Name,
		string(p.Role),
		p.Plan,
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("profile email must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// FindByID retrieves a profile by its UUID.
func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, email, name, role, plan, created_at
		FROM profiles
		WHERE id = $1
	`
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return p, nil
}

// FindByEmail retrieves a profile by normalized email.
func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `
		SELECT id, email, name, role, plan, created_at
		FROM profiles
		WHERE email = $1
	`
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, models.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile by email: %w", err)
	}
	return p, nil
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	var role string
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &role, &p.Plan, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = models.Role(role)
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
