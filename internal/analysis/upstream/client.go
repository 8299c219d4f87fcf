// Package upstream calls the hosted AI service that writes full ikigai
// analyses. Callers treat any error as a signal to generate locally.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"ikigai/internal/analysis/models"
	"ikigai/internal/scoring"
	"ikigai/internal/sentinel"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-sonnet-4-20250514"
	apiVersion     = "2023-06-01"
)

// Client talks to the messages API.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithModel selects the model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// New creates an upstream analyzer client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the answers to the model and parses the JSON analysis out of
// its reply.
func (c *Client) Analyze(ctx context.Context, answers scoring.Answers, plan string) (*models.Analysis, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("analyzer not configured: %w", sentinel.ErrUnavailable)
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages:  []message{{Role: "user", Content: buildPrompt(answers, plan)}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode analyzer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analyzer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call analyzer: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var result messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}
	if resp.StatusCode >= 300 {
		reason := result.Error.Message
		if reason == "" {
			reason = resp.Status
		}
		return nil, fmt.Errorf("analyzer rejected request: %s: %w", reason, sentinel.ErrUnavailable)
	}
	if len(result.Content) == 0 {
		return nil, fmt.Errorf("analyzer returned no content")
	}

	return parseAnalysis(result.Content[0].Text)
}

// parseAnalysis extracts the JSON object from the model reply, which may be
// wrapped in prose or a code fence.
func parseAnalysis(text string) (*models.Analysis, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in analyzer reply")
	}
	var analysis models.Analysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("parse analyzer reply: %w", err)
	}
	return &analysis, nil
}

// buildPrompt renders the questionnaire into a stable prompt. Keys are sorted
// so identical submissions produce identical prompts.
func buildPrompt(answers scoring.Answers, plan string) string {
	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Tu es un expert en développement de carrière et en méthode Ikigai.\n")
	b.WriteString("Analyse les réponses au questionnaire ci-dessous et réponds UNIQUEMENT avec un objet JSON ")
	b.WriteString(`ayant les clés "passions", "talents", "mission", "vocation", "careerRecommendations", "businessIdeas" et "score".` + "\n\n")
	fmt.Fprintf(&b, "Plan utilisateur: %s\n\nRéponses:\n", plan)
	for _, k := range keys {
		raw, _ := json.Marshal(answers[k])
		fmt.Fprintf(&b, "- %s: %s\n", k, raw)
	}
	return b.String()
}
