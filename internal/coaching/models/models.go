// Package models defines the coach-client relationship records.
package models

import (
	"time"

	"github.com/google/uuid"

	profiles "ikigai/internal/profile/models"
)

// Status is the relationship lifecycle state.
type Status string

const (
	// StatusPending marks an invitation whose email has no account yet;
	// only the invitation email is recorded and the client id is unset.
	StatusPending Status = "pending"
	// StatusActive marks a relationship resolved to a registered client.
	StatusActive Status = "active"
)

// Relationship links a coach to a client, or to an invited email while the
// account does not exist yet. Acceptance and revocation are handled by
// separate workflows; this service only creates relationships.
type Relationship struct {
	ID      uuid.UUID
	CoachID uuid.UUID
	// ClientID is nil while the invitation is pending.
	ClientID        *uuid.UUID
	Status          Status
	InvitationEmail string
	// CreatedAt is owned by the store and populated on insert.
	CreatedAt time.Time
}

// NewPending builds an invitation for an email with no resolved account.
func NewPending(coachID uuid.UUID, email string) *Relationship {
	return &Relationship{
		ID:              uuid.New(),
		CoachID:         coachID,
		ClientID:        nil,
		Status:          StatusPending,
		InvitationEmail: profiles.NormalizeEmail(email),
	}
}

// NewActive builds a relationship for an already registered client.
func NewActive(coachID, clientID uuid.UUID, email string) *Relationship {
	id := clientID
	return &Relationship{
		ID:              uuid.New(),
		CoachID:         coachID,
		ClientID:        &id,
		Status:          StatusActive,
		InvitationEmail: profiles.NormalizeEmail(email),
	}
}
