// Package handler exposes the invitation and coach dashboard endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	analysismodels "ikigai/internal/analysis/models"
	"ikigai/internal/coaching/models"
	"ikigai/internal/coaching/service"
	"ikigai/internal/platform/middleware"
	dErrors "ikigai/pkg/domain-errors"
	"ikigai/pkg/platform/httputil"
)

// Service defines the coaching operations the handlers call.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Invite(ctx context.Context, cmd service.InviteCommand) (*service.InviteResult, error)
	ListClients(ctx context.Context, coachID uuid.UUID) (*service.ClientsOverview, error)
	AddClientByEmail(ctx context.Context, coachID uuid.UUID, clientEmail string) (*models.Relationship, error)
	ClientAnalyses(ctx context.Context, coachID, clientID uuid.UUID) ([]*analysismodels.Questionnaire, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/send-invitation", h.HandleSendInvitation)
	r.Get("/api/dashboard/coach", h.HandleCoachDashboard)
	r.Post("/api/dashboard/coach/clients/add", h.HandleAddClient)
	r.Get("/api/dashboard/coach/clients/{clientID}", h.HandleClientAnalyses)
}

// HandleSendInvitation creates the relationship and sends the invitation
// email. A delivery failure still reports the created invitation id so the
// caller can retry without duplicating the relationship.
func (h *Handler) HandleSendInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SendInvitationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	coachID, err := uuid.Parse(req.CoachID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid coach id"))
		return
	}

	result, err := h.service.Invite(ctx, service.InviteCommand{
		CoachID:         coachID,
		Email:           req.To,
		ClientName:      req.ClientName,
		PersonalMessage: req.PersonalMessage,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeDeliveryFailed) && result != nil {
			h.logger.ErrorContext(ctx, "invitation email undelivered",
				"error", err, "request_id", requestID, "invitation_id", result.RelationshipID)
			httputil.WriteJSON(w, http.StatusBadGateway, &SendInvitationResponse{
				Success:      false,
				Message:      "invitation created but the email could not be delivered",
				InvitationID: result.RelationshipID.String(),
				Status:       string(result.Status),
			})
			return
		}
		h.logger.ErrorContext(ctx, "send invitation failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &SendInvitationResponse{
		Success:      true,
		Message:      "Invitation envoyée avec succès",
		InvitationID: result.RelationshipID.String(),
		Status:       string(result.Status),
		EmailID:      result.EmailID,
	})
}

// HandleCoachDashboard returns the coach's roster with analysis counts.
func (h *Handler) HandleCoachDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	coachID, err := uuid.Parse(r.URL.Query().Get("coach_id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid coach id"))
		return
	}

	overview, err := h.service.ListClients(ctx, coachID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list clients failed", "error", err, "request_id", requestID, "coach_id", coachID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toDashboardResponse(overview))
}

// HandleAddClient links an already registered client to the coach.
func (h *Handler) HandleAddClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddClientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	coachID, err := uuid.Parse(req.CoachID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid coach id"))
		return
	}

	rel, err := h.service.AddClientByEmail(ctx, coachID, req.ClientEmail)
	if err != nil {
		h.logger.ErrorContext(ctx, "add client failed", "error", err, "request_id", requestID, "coach_id", coachID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &AddClientResponse{
		Success:        true,
		Message:        "Client ajouté avec succès",
		RelationshipID: rel.ID.String(),
		ClientID:       rel.ClientID.String(),
	})
}

// HandleClientAnalyses returns a client's questionnaire history to their
// coach.
func (h *Handler) HandleClientAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	coachID, err := uuid.Parse(r.URL.Query().Get("coach_id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid coach id"))
		return
	}
	clientID, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid client id"))
		return
	}

	records, err := h.service.ClientAnalyses(ctx, coachID, clientID)
	if err != nil {
		h.logger.ErrorContext(ctx, "client analyses failed",
			"error", err, "request_id", requestID, "coach_id", coachID, "client_id", clientID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toClientAnalysesResponse(records))
}
