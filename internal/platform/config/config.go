package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string

	// DatabaseURL selects the Postgres stores when set; otherwise the
	// in-memory stores are used (demo environment).
	DatabaseURL string

	// Invitation delivery.
	ResendAPIKey  string
	InviteBaseURL string

	// Upstream AI analyzer. An empty key makes every submission use the
	// local generator.
	AnthropicAPIKey string
	AnalyzerModel   string

	// AllowMultiplePendingInvites keeps the historical behavior of not
	// deduplicating invitations to emails with no account yet. Multiple
	// coaches may hold pending invitations for the same address.
	AllowMultiplePendingInvites bool

	// ScoreTablePath overrides the embedded scoring tag table when set.
	ScoreTablePath string

	RequestTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("IKIGAI_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("IKIGAI_ENV")
	if env == "" {
		env = "development"
	}

	baseURL := os.Getenv("INVITE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://ai-ikigai.com"
	}

	timeout := 30 * time.Second
	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}

	return Server{
		Addr:                        addr,
		Environment:                 env,
		DatabaseURL:                 os.Getenv("DATABASE_URL"),
		ResendAPIKey:                os.Getenv("RESEND_API_KEY"),
		AnthropicAPIKey:             os.Getenv("ANTHROPIC_API_KEY"),
		AnalyzerModel:               os.Getenv("ANALYZER_MODEL"),
		InviteBaseURL:               baseURL,
		AllowMultiplePendingInvites: os.Getenv("ALLOW_MULTIPLE_PENDING_INVITES") != "false",
		ScoreTablePath:              os.Getenv("SCORE_TABLE_PATH"),
		RequestTimeout:              timeout,
	}
}
