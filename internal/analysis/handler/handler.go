// Package handler exposes the questionnaire submission endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ikigai/internal/analysis/models"
	"ikigai/internal/analysis/service"
	"ikigai/internal/platform/middleware"
	"ikigai/internal/scoring"
	dErrors "ikigai/pkg/domain-errors"
	"ikigai/pkg/platform/httputil"
)

// Service defines the analysis operations the handlers call.
type Service interface {
	Submit(ctx context.Context, cmd service.SubmitCommand) (*service.SubmitResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/api/questionnaire/submit", h.HandleSubmit)
}

// SubmitRequest is the body of POST /api/questionnaire/submit. Answers accept
// both single-choice strings and multi-select arrays.
type SubmitRequest struct {
	Email   string          `json:"email"`
	Plan    string          `json:"plan"`
	Answers scoring.Answers `json:"answers"`
}

func (r *SubmitRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Plan = strings.TrimSpace(r.Plan)
}

func (r *SubmitRequest) Validate() error {
	if len(r.Answers) == 0 {
		return dErrors.New(dErrors.CodeValidation, "no answers provided")
	}
	return nil
}

// SubmitResponse returns the analysis with the stored record id.
type SubmitResponse struct {
	Success         bool             `json:"success"`
	QuestionnaireID string           `json:"questionnaireId,omitempty"`
	Analysis        *models.Analysis `json:"analysis"`
	Message         string           `json:"message"`
}

// HandleSubmit analyzes a questionnaire and returns the result. Analyzer and
// storage problems degrade inside the service; only invalid input fails here.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Submit(ctx, service.SubmitCommand{
		Email:   req.Email,
		Plan:    req.Plan,
		Answers: req.Answers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "questionnaire submit failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	resp := &SubmitResponse{
		Success:  true,
		Analysis: result.Analysis,
		Message:  "Questionnaire analysé avec succès",
	}
	if result.Stored {
		resp.QuestionnaireID = result.QuestionnaireID.String()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
