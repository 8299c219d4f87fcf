// Package email sends transactional email through the Resend API.
package email

import "context"

// Message is a single outbound email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Sender delivers a message and returns the provider's message id.
// Delivery is best-effort from the caller's perspective; a failed send never
// rolls back state that was persisted before the call.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}
