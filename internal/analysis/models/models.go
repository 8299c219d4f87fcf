// Package models defines questionnaire analyses and their stored records.
package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ikigai/internal/scoring"
)

// Recommendation is a suggested career direction.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	MatchScore  int    `json:"matchScore"`
}

// BusinessIdea is a suggested venture for plans that include them.
type BusinessIdea struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ViabilityScore int    `json:"viabilityScore"`
}

// Analysis is the ikigai analysis produced for one questionnaire. Score is a
// pointer because the upstream AI service may omit it; the scoring fallback
// fills it in before the analysis is returned or persisted.
type Analysis struct {
	Passions              []string         `json:"passions"`
	Talents               []string         `json:"talents"`
	Mission               []string         `json:"mission"`
	Vocation              []string         `json:"vocation"`
	CareerRecommendations []Recommendation `json:"careerRecommendations"`
	BusinessIdeas         []BusinessIdea   `json:"businessIdeas,omitempty"`
	Score                 *scoring.Record  `json:"score,omitempty"`
}

// UnmarshalJSON tolerates a malformed score field. The upstream model
// sometimes emits a bare number or string there; anything that is not a
// well-formed score object is treated as absent so the rest of the analysis
// survives and the tag table fills the score in.
func (a *Analysis) UnmarshalJSON(data []byte) error {
	type plain Analysis
	aux := struct {
		*plain
		Score json.RawMessage `json:"score"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	a.Score = nil
	raw := bytes.TrimSpace(aux.Score)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var rec scoring.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}
	a.Score = &rec
	return nil
}

// HasScore reports whether the upstream supplied a usable score object.
func (a *Analysis) HasScore() bool {
	return a != nil && a.Score != nil
}

// Questionnaire is the persisted submission with its analysis.
type Questionnaire struct {
	ID uuid.UUID
	// UserID is nil when the submitter's email matched no account.
	UserID    *uuid.UUID
	Email     string
	Answers   scoring.Answers
	Analysis  Analysis
	CreatedAt time.Time
}
