// Package models defines account profile records. Profiles are owned by the
// account system; this service reads them to resolve coaches and invitees.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role partitions accounts by what the dashboards let them do.
type Role string

const (
	RoleClient Role = "client"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

// Profile is an existing account record, looked up by id or normalized email.
type Profile struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      Role
	Plan      string
	CreatedAt time.Time
}

// DisplayName returns the profile name, falling back to the email local part
// when the account never set one.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return p.Email
}

// NormalizeEmail is the canonical email form used for lookups and for the
// invitation_email column: trimmed and lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
