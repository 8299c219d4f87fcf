package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ikigai/internal/sentinel"
)

const defaultResendURL = "https://api.resend.com"

// ResendClient talks to the Resend email API.
type ResendClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// ResendOption configures the client.
type ResendOption func(*ResendClient)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) ResendOption {
	return func(c *ResendClient) {
		c.baseURL = url
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) ResendOption {
	return func(c *ResendClient) {
		c.client = client
	}
}

// NewResend creates a Resend API client.
func NewResend(apiKey string, opts ...ResendOption) *ResendClient {
	c := &ResendClient{
		apiKey:  apiKey,
		baseURL: defaultResendURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Send posts the message to POST /emails and returns the provider message id.
func (c *ResendClient) Send(ctx context.Context, msg Message) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("email delivery not configured: %w", sentinel.ErrUnavailable)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send email: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && resp.StatusCode < 300 {
		return "", fmt.Errorf("decode email response: %w", err)
	}

	if resp.StatusCode >= 300 {
		reason := result.Message
		if reason == "" {
			reason = result.Error
		}
		if reason == "" {
			reason = resp.Status
		}
		return "", fmt.Errorf("email provider rejected send: %s: %w", reason, sentinel.ErrUnavailable)
	}

	return result.ID, nil
}
