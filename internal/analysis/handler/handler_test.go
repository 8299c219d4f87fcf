package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"ikigai/internal/analysis/models"
	"ikigai/internal/analysis/service"
	analysisstore "ikigai/internal/analysis/store"
	profilestore "ikigai/internal/profile/store"
	"ikigai/internal/scoring"
)

// downAnalyzer always fails, forcing the local generator.
type downAnalyzer struct{}

func (downAnalyzer) Analyze(context.Context, scoring.Answers, string) (*models.Analysis, error) {
	return nil, errors.New("upstream unavailable")
}

type SubmitHandlerSuite struct {
	suite.Suite
	router http.Handler
	store  *analysisstore.InMemory
}

func TestSubmitHandlerSuite(t *testing.T) {
	suite.Run(t, new(SubmitHandlerSuite))
}

func (s *SubmitHandlerSuite) SetupTest() {
	s.store = analysisstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	svc := service.New(downAnalyzer{}, s.store, profilestore.NewInMemory(),
		scoring.DefaultTable(), service.WithLogger(logger))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *SubmitHandlerSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/questionnaire/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *SubmitHandlerSuite) TestSubmitMixedAnswerShapes() {
	rec := s.post(`{"answers":{"q1":"create","q2":["impact","startup"]}}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp SubmitResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Success)
	s.NotEmpty(resp.QuestionnaireID)

	s.Run("scores computed from the answers", func() {
		s.Require().NotNil(resp.Analysis)
		s.Require().NotNil(resp.Analysis.Score)
		s.Equal(25, resp.Analysis.Score.Passion)
		s.Equal(60, resp.Analysis.Score.Profession)
		s.Equal(30, resp.Analysis.Score.Mission)
		s.Equal(25, resp.Analysis.Score.Vocation)
	})
}

func (s *SubmitHandlerSuite) TestSubmitWithoutAnswers() {
	rec := s.post(`{"email":"a@b.fr"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *SubmitHandlerSuite) TestSubmitMalformedBody() {
	rec := s.post(`{`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *SubmitHandlerSuite) TestSubmitIgnoresUnknownAnswerShape() {
	// Objects and numbers are not valid answer values and contribute nothing.
	rec := s.post(`{"answers":{"q1":{"nested":true},"q2":42,"q3":"create"}}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp SubmitResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().NotNil(resp.Analysis.Score)
	s.Equal(25, resp.Analysis.Score.Passion)
	s.Equal(60, resp.Analysis.Score.Mission)
}
