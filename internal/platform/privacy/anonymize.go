// Package privacy provides utilities for handling personally identifiable
// information (PII) in logs.
package privacy

import "strings"

// MaskEmail obscures the local part of an email address for logging, keeping
// the first character and the full domain ("claire@example.com" ->
// "c***@example.com"). Invitation emails are PII: log lines must not carry
// the full address.
//
// Returns "unknown" for empty strings and "invalid" for values without an @.
func MaskEmail(email string) string {
	if email == "" {
		return "unknown"
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "invalid"
	}
	return email[:1] + "***" + email[at:]
}
