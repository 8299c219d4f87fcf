package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	analysisstore "ikigai/internal/analysis/store"
	"ikigai/internal/coaching/service"
	coachingstore "ikigai/internal/coaching/store"
	"ikigai/internal/email"
	profiles "ikigai/internal/profile/models"
	profilestore "ikigai/internal/profile/store"
)

// stubSender records the last message and can be told to fail.
type stubSender struct {
	fail bool
	last email.Message
}

func (s *stubSender) Send(_ context.Context, msg email.Message) (string, error) {
	if s.fail {
		return "", errors.New("provider down")
	}
	s.last = msg
	return "email-1", nil
}

type HandlerSuite struct {
	suite.Suite
	router       http.Handler
	sender       *stubSender
	profileStore *profilestore.InMemory
	coach        *profiles.Profile
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.sender = &stubSender{}
	s.profileStore = profilestore.NewInMemory()
	relationships := coachingstore.NewInMemory()
	analyses := analysisstore.NewInMemory()

	s.coach = &profiles.Profile{
		ID:    uuid.New(),
		Email: "coach@example.com",
		Name:  "Sophie Martin",
		Role:  profiles.RoleCoach,
	}
	s.Require().NoError(s.profileStore.Create(context.Background(), s.coach))

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(s.profileStore, relationships, analyses, s.sender,
		service.Config{InviteBaseURL: "https://ai-ikigai.com", AllowMultiplePendingInvites: true},
		service.WithLogger(logger))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestSendInvitationSuccess() {
	body := fmt.Sprintf(`{"coachId":%q,"to":"claire@example.com","clientName":"Claire"}`, s.coach.ID)
	rec := s.do(http.MethodPost, "/api/send-invitation", body)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp SendInvitationResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Success)
	s.Equal("email-1", resp.EmailID)
	s.Equal("pending", resp.Status)
	s.NotEmpty(resp.InvitationID)
	s.Equal([]string{"claire@example.com"}, s.sender.last.To)
}

func (s *HandlerSuite) TestSendInvitationDeliveryFailure() {
	s.sender.fail = true
	body := fmt.Sprintf(`{"coachId":%q,"to":"claire@example.com","clientName":"Claire"}`, s.coach.ID)
	rec := s.do(http.MethodPost, "/api/send-invitation", body)

	s.Require().Equal(http.StatusBadGateway, rec.Code, rec.Body.String())

	var resp SendInvitationResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Success)
	s.NotEmpty(resp.InvitationID, "created invitation id must be reported on delivery failure")
}

func (s *HandlerSuite) TestSendInvitationValidation() {
	rec := s.do(http.MethodPost, "/api/send-invitation", `{"to":"claire@example.com"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSendInvitationUnknownCoach() {
	body := fmt.Sprintf(`{"coachId":%q,"to":"claire@example.com","clientName":"Claire"}`, uuid.New())
	rec := s.do(http.MethodPost, "/api/send-invitation", body)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestCoachDashboard() {
	client := &profiles.Profile{ID: uuid.New(), Email: "claire@example.com", Name: "Claire", Role: profiles.RoleClient}
	s.Require().NoError(s.profileStore.Create(context.Background(), client))

	body := fmt.Sprintf(`{"coachId":%q,"clientEmail":"claire@example.com"}`, s.coach.ID)
	rec := s.do(http.MethodPost, "/api/dashboard/coach/clients/add", body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/dashboard/coach?coach_id="+s.coach.ID.String(), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp DashboardResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(1, resp.Stats.TotalClients)
	s.Require().Len(resp.Clients, 1)
	s.Equal("Claire", resp.Clients[0].Name)
	s.Equal("active", resp.Clients[0].Status)
}

func (s *HandlerSuite) TestAddClientConflict() {
	client := &profiles.Profile{ID: uuid.New(), Email: "claire@example.com", Role: profiles.RoleClient}
	s.Require().NoError(s.profileStore.Create(context.Background(), client))

	body := fmt.Sprintf(`{"coachId":%q,"clientEmail":"claire@example.com"}`, s.coach.ID)
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/dashboard/coach/clients/add", body).Code)
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/api/dashboard/coach/clients/add", body).Code)
}

func (s *HandlerSuite) TestClientAnalysesForbiddenWithoutRelationship() {
	client := &profiles.Profile{ID: uuid.New(), Email: "claire@example.com", Role: profiles.RoleClient}
	s.Require().NoError(s.profileStore.Create(context.Background(), client))

	path := fmt.Sprintf("/api/dashboard/coach/clients/%s?coach_id=%s", client.ID, s.coach.ID)
	rec := s.do(http.MethodGet, path, "")
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestClientAnalysesBadIDs() {
	rec := s.do(http.MethodGet, "/api/dashboard/coach/clients/not-a-uuid?coach_id="+s.coach.ID.String(), "")
	s.Equal(http.StatusBadRequest, rec.Code)
}
