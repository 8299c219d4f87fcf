package handler

import (
	"strings"

	dErrors "ikigai/pkg/domain-errors"
)

// SendInvitationRequest is the body of POST /api/send-invitation.
type SendInvitationRequest struct {
	CoachID         string `json:"coachId"`
	To              string `json:"to"`
	ClientName      string `json:"clientName"`
	PersonalMessage string `json:"personalMessage"`
}

func (r *SendInvitationRequest) Normalize() {
	r.CoachID = strings.TrimSpace(r.CoachID)
	r.To = strings.TrimSpace(r.To)
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.PersonalMessage = strings.TrimSpace(r.PersonalMessage)
}

func (r *SendInvitationRequest) Validate() error {
	if r.To == "" || r.ClientName == "" || r.CoachID == "" {
		return dErrors.New(dErrors.CodeValidation, "missing required fields: to, clientName, coachId")
	}
	return nil
}

// AddClientRequest is the body of POST /api/dashboard/coach/clients/add.
type AddClientRequest struct {
	CoachID     string `json:"coachId"`
	ClientEmail string `json:"clientEmail"`
}

func (r *AddClientRequest) Normalize() {
	r.CoachID = strings.TrimSpace(r.CoachID)
	r.ClientEmail = strings.TrimSpace(r.ClientEmail)
}

func (r *AddClientRequest) Validate() error {
	if r.CoachID == "" || r.ClientEmail == "" {
		return dErrors.New(dErrors.CodeValidation, "missing required fields: coachId, clientEmail")
	}
	return nil
}
