package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ikigai/internal/sentinel"
)

func TestResendSend(t *testing.T) {
	t.Run("returns provider id on success", func(t *testing.T) {
		var received Message
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/emails", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-123"})
		}))
		defer srv.Close()

		client := NewResend("test-key", WithBaseURL(srv.URL))
		id, err := client.Send(context.Background(), Message{
			From:    InvitationFrom("Marie"),
			To:      []string{"client@example.com"},
			ReplyTo: InvitationReplyTo,
			Subject: InvitationSubject("Marie"),
			HTML:    "<p>hello</p>",
		})

		require.NoError(t, err)
		assert.Equal(t, "email-123", id)
		assert.Equal(t, []string{"client@example.com"}, received.To)
		assert.Equal(t, "Marie via AI-Ikigai <noreply@ai-ikigai.com>", received.From)
	})

	t.Run("surfaces provider error message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid recipient"})
		}))
		defer srv.Close()

		client := NewResend("test-key", WithBaseURL(srv.URL))
		_, err := client.Send(context.Background(), Message{To: []string{"bad"}})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
		assert.Contains(t, err.Error(), "invalid recipient")
	})

	t.Run("missing api key fails without a request", func(t *testing.T) {
		client := NewResend("")
		_, err := client.Send(context.Background(), Message{To: []string{"x@example.com"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
	})
}

func TestRenderInvitation(t *testing.T) {
	t.Run("includes names and link", func(t *testing.T) {
		html, err := RenderInvitation(InvitationData{
			ClientName: "Jean",
			CoachName:  "Marie",
			InviteLink: "https://ai-ikigai.com/auth.html?role=client&coach_id=c1&invitation_id=i1",
		})
		require.NoError(t, err)
		assert.Contains(t, html, "Bonjour Jean")
		assert.Contains(t, html, "Marie")
		assert.Contains(t, html, "invitation_id=i1")
		assert.NotContains(t, html, "personal-message")
	})

	t.Run("renders personal message block when present", func(t *testing.T) {
		html, err := RenderInvitation(InvitationData{
			ClientName:      "Jean",
			CoachName:       "Marie",
			PersonalMessage: "Au plaisir de travailler ensemble",
			InviteLink:      "https://example.com",
		})
		require.NoError(t, err)
		assert.Contains(t, html, "personal-message")
		assert.Contains(t, html, "Au plaisir de travailler ensemble")
	})

	t.Run("escapes hostile message content", func(t *testing.T) {
		html, err := RenderInvitation(InvitationData{
			ClientName:      "Jean",
			CoachName:       "Marie",
			PersonalMessage: `<script>alert("x")</script>`,
			InviteLink:      "https://example.com",
		})
		require.NoError(t, err)
		assert.False(t, strings.Contains(html, "<script>"))
	})
}
