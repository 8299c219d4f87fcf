package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ikigai/internal/profile/models"
	"ikigai/internal/sentinel"
)

// InMemory stores profiles in memory for the demo environment and tests.
type InMemory struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*models.Profile
	emailIdx map[string]uuid.UUID
}

// NewInMemory creates an in-memory profile store.
func NewInMemory() *InMemory {
	return &InMemory{
		profiles: make(map[uuid.UUID]*models.Profile),
		emailIdx: make(map[string]uuid.UUID),
	}
}

// Create adds a profile, rejecting duplicate emails (case-insensitive).
func (s *InMemory) Create(_ context.Context, p *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := models.NormalizeEmail(p.Email)
	if _, exists := s.emailIdx[email]; exists {
		return fmt.Errorf("profile email must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	s.profiles[p.ID] = p
	s.emailIdx[email] = p.ID
	return nil
}

// FindByID retrieves a profile by its UUID.
func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByEmail retrieves a profile by normalized email.
func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.emailIdx[models.NormalizeEmail(email)]; ok {
		return s.profiles[id], nil
	}
	return nil, sentinel.ErrNotFound
}
