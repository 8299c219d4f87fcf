package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"typical address", "claire@example.com", "c***@example.com"},
		{"single char local part", "a@b.fr", "a***@b.fr"},
		{"subdomain kept", "paul@mail.example.com", "p***@mail.example.com"},
		{"empty", "", "unknown"},
		{"no at sign", "not-an-email", "invalid"},
		{"leading at sign", "@example.com", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}
}
