package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikigai/internal/scoring"
	"ikigai/internal/sentinel"
)

func TestAnalyzeParsesWrappedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Contains(t, req.Messages[0].Content, "q1")

		reply := "Voici l'analyse :\n```json\n" +
			`{"passions":["Créativité"],"talents":[],"mission":[],"vocation":[],` +
			`"careerRecommendations":[],"score":{"passion":80,"profession":60,"mission":70,"vocation":65}}` +
			"\n```"
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": reply}},
		})
	}))
	defer server.Close()

	client := New("secret", WithBaseURL(server.URL))
	analysis, err := client.Analyze(context.Background(), scoring.Answers{"q1": scoring.Value("create")}, "premium")
	require.NoError(t, err)
	assert.Equal(t, []string{"Créativité"}, analysis.Passions)
	require.True(t, analysis.HasScore())
	assert.Equal(t, 80, analysis.Score.Passion)
}

func TestAnalyzeKeepsAnalysisWhenScoreNotObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reply := `{"passions":["Aider les autres"],"talents":["Écoute"],"mission":[],"vocation":[],` +
			`"careerRecommendations":[{"title":"Coach","description":"","matchScore":90}],"score":42}`
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": reply}},
		})
	}))
	defer server.Close()

	client := New("secret", WithBaseURL(server.URL))
	analysis, err := client.Analyze(context.Background(), scoring.Answers{"q1": scoring.Value("create")}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Aider les autres"}, analysis.Passions)
	require.Len(t, analysis.CareerRecommendations, 1)
	assert.False(t, analysis.HasScore(), "a non-object score must read as absent")
}

func TestAnalyzeMissingKey(t *testing.T) {
	client := New("")
	_, err := client.Analyze(context.Background(), scoring.Answers{"q1": scoring.Value("create")}, "")
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestAnalyzeAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer server.Close()

	client := New("secret", WithBaseURL(server.URL))
	_, err := client.Analyze(context.Background(), scoring.Answers{"q1": scoring.Value("create")}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAnalyzeRejectsProseOnlyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"text": "je ne peux pas répondre"}},
		})
	}))
	defer server.Close()

	client := New("secret", WithBaseURL(server.URL))
	_, err := client.Analyze(context.Background(), scoring.Answers{"q1": scoring.Value("create")}, "")
	assert.Error(t, err)
}
