package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ikigai/internal/coaching/models"
	"ikigai/internal/sentinel"
)

// InMemory stores relationships in memory for the demo environment and tests.
type InMemory struct {
	mu            sync.RWMutex
	relationships map[uuid.UUID]*models.Relationship
	// pairIdx enforces the (coach_id, client_id) uniqueness constraint for
	// resolved relationships, mirroring the Postgres unique index. Pending
	// rows have no client id and are deliberately not indexed.
	pairIdx map[pairKey]uuid.UUID
}

type pairKey struct {
	coachID  uuid.UUID
	clientID uuid.UUID
}

// NewInMemory creates an in-memory relationship store.
func NewInMemory() *InMemory {
	return &InMemory{
		relationships: make(map[uuid.UUID]*models.Relationship),
		pairIdx:       make(map[pairKey]uuid.UUID),
	}
}

// Create inserts the relationship in a single guarded step. A resolved
// relationship for an already linked (coach, client) pair fails with
// sentinel.ErrAlreadyUsed so concurrent invitations surface as conflicts
// instead of duplicate rows.
func (s *InMemory) Create(_ context.Context, rel *models.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rel.ClientID != nil {
		key := pairKey{coachID: rel.CoachID, clientID: *rel.ClientID}
		if _, exists := s.pairIdx[key]; exists {
			return fmt.Errorf("relationship already exists: %w", sentinel.ErrAlreadyUsed)
		}
		s.pairIdx[key] = rel.ID
	}
	rel.CreatedAt = time.Now()
	s.relationships[rel.ID] = rel
	return nil
}

// FindByID retrieves a relationship by its UUID.
func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rel, ok := s.relationships[id]; ok {
		return rel, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByCoachAndClient retrieves the resolved relationship for a pair.
func (s *InMemory) FindByCoachAndClient(_ context.Context, coachID, clientID uuid.UUID) (*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.pairIdx[pairKey{coachID: coachID, clientID: clientID}]; ok {
		return s.relationships[id], nil
	}
	return nil, sentinel.ErrNotFound
}

// ListByCoach returns every relationship held by a coach, newest first.
func (s *InMemory) ListByCoach(_ context.Context, coachID uuid.UUID) ([]*models.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Relationship
	for _, rel := range s.relationships {
		if rel.CoachID == coachID {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CountPendingByEmail counts pending invitations recorded for an email.
func (s *InMemory) CountPendingByEmail(_ context.Context, email string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, rel := range s.relationships {
		if rel.Status == models.StatusPending && rel.InvitationEmail == email {
			count++
		}
	}
	return count, nil
}
