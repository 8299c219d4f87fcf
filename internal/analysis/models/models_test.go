package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisUnmarshalScoreLeniency(t *testing.T) {
	tests := map[string]struct {
		score     string
		wantScore bool
	}{
		"object":         {`{"passion":80,"profession":60,"mission":70,"vocation":65}`, true},
		"number":         {`42`, false},
		"string":         {`"excellent"`, false},
		"null":           {`null`, false},
		"array":          {`[80,60]`, false},
		"object of junk": {`{"passion":"high"}`, false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			payload := `{"passions":["Créativité"],"talents":[],"mission":[],"vocation":[],` +
				`"careerRecommendations":[],"score":` + tc.score + `}`

			var analysis Analysis
			require.NoError(t, json.Unmarshal([]byte(payload), &analysis))
			assert.Equal(t, []string{"Créativité"}, analysis.Passions)
			assert.Equal(t, tc.wantScore, analysis.HasScore())
			if tc.wantScore {
				assert.Equal(t, 80, analysis.Score.Passion)
			}
		})
	}
}

func TestAnalysisUnmarshalMissingScore(t *testing.T) {
	var analysis Analysis
	require.NoError(t, json.Unmarshal([]byte(`{"passions":["Art"]}`), &analysis))
	assert.False(t, analysis.HasScore())
}
