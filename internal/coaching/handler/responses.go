package handler

import (
	"time"

	analysismodels "ikigai/internal/analysis/models"
	"ikigai/internal/coaching/service"
	"ikigai/internal/scoring"
)

// SendInvitationResponse mirrors the public invitation contract. InvitationID
// is present even when delivery failed so the caller can retry the email
// without creating a second relationship.
type SendInvitationResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	InvitationID string `json:"invitationId"`
	Status       string `json:"status"`
	EmailID      string `json:"emailId,omitempty"`
}

// DashboardResponse is the coach roster with aggregate stats.
type DashboardResponse struct {
	Success bool             `json:"success"`
	Stats   DashboardStats   `json:"stats"`
	Clients []ClientResponse `json:"clients"`
}

type DashboardStats struct {
	TotalClients  int `json:"totalClients"`
	TotalAnalyses int `json:"totalAnalyses"`
}

type ClientResponse struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email"`
	Status        string    `json:"status"`
	AddedAt       time.Time `json:"added_at"`
	AnalysesCount int       `json:"analyses_count"`
}

// ClientAnalysesResponse is a single client's questionnaire history, newest
// first, with the latest analysis pulled out for convenience.
type ClientAnalysesResponse struct {
	Success        bool                     `json:"success"`
	LatestAnalysis *analysismodels.Analysis `json:"latestAnalysis"`
	History        []QuestionnaireResponse  `json:"history"`
}

type QuestionnaireResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"user_id,omitempty"`
	Email     string                  `json:"email,omitempty"`
	Answers   scoring.Answers         `json:"answers"`
	Analysis  analysismodels.Analysis `json:"analysis"`
	CreatedAt time.Time               `json:"created_at"`
}

// AddClientResponse confirms a direct roster addition.
type AddClientResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	RelationshipID string `json:"relationshipId"`
	ClientID       string `json:"clientId"`
}

func toDashboardResponse(overview *service.ClientsOverview) *DashboardResponse {
	resp := &DashboardResponse{
		Success: true,
		Stats: DashboardStats{
			TotalClients:  overview.TotalClients,
			TotalAnalyses: overview.TotalAnalyses,
		},
		Clients: make([]ClientResponse, 0, len(overview.Clients)),
	}
	for _, c := range overview.Clients {
		row := ClientResponse{
			Name:          c.Name,
			Email:         c.Email,
			Status:        string(c.Status),
			AddedAt:       c.AddedAt,
			AnalysesCount: c.AnalysesCount,
		}
		if c.ClientID != nil {
			row.ID = c.ClientID.String()
		}
		resp.Clients = append(resp.Clients, row)
	}
	return resp
}

func toClientAnalysesResponse(records []*analysismodels.Questionnaire) *ClientAnalysesResponse {
	resp := &ClientAnalysesResponse{
		Success: true,
		History: make([]QuestionnaireResponse, 0, len(records)),
	}
	if len(records) > 0 {
		resp.LatestAnalysis = &records[0].Analysis
	}
	for _, q := range records {
		row := QuestionnaireResponse{
			ID:        q.ID.String(),
			Email:     q.Email,
			Answers:   q.Answers,
			Analysis:  q.Analysis,
			CreatedAt: q.CreatedAt,
		}
		if q.UserID != nil {
			row.UserID = q.UserID.String()
		}
		resp.History = append(resp.History, row)
	}
	return resp
}
