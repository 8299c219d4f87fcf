package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ikigai/internal/analysis/models"
	"ikigai/internal/sentinel"
)

// InMemory stores questionnaires in memory for the demo environment and tests.
type InMemory struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*models.Questionnaire
}

// NewInMemory creates an in-memory questionnaire store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[uuid.UUID]*models.Questionnaire)}
}

// Create persists a questionnaire record.
func (s *InMemory) Create(_ context.Context, q *models.Questionnaire) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.CreatedAt = time.Now()
	s.records[q.ID] = q
	return nil
}

// FindByID retrieves a questionnaire by id.
func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Questionnaire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.records[id]; ok {
		return q, nil
	}
	return nil, sentinel.ErrNotFound
}

// ListByUser returns a user's questionnaires, newest first.
func (s *InMemory) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Questionnaire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Questionnaire
	for _, q := range s.records {
		if q.UserID != nil && *q.UserID == userID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CountByUser returns how many questionnaires a user has submitted.
func (s *InMemory) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, q := range s.records {
		if q.UserID != nil && *q.UserID == userID {
			count++
		}
	}
	return count, nil
}
