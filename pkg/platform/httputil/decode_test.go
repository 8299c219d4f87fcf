package httputil

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ikigai/pkg/domain-errors"
)

// testRequest is a simple test struct for JSON decoding
type testRequest struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// preparedRequest implements the preparation interfaces
type preparedRequest struct {
	Email string `json:"email"`
}

func (r *preparedRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *preparedRequest) Validate() error {
	if r.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDecodeJSON(t *testing.T) {
	t.Run("decodes valid body", func(t *testing.T) {
		body := bytes.NewBufferString(`{"name":"ikigai","value":4}`)
		r := httptest.NewRequest(http.MethodPost, "/", body)
		w := httptest.NewRecorder()

		req, ok := DecodeJSON[testRequest](w, r, testLogger(), r.Context(), "req-1")
		require.True(t, ok)
		assert.Equal(t, "ikigai", req.Name)
		assert.Equal(t, 4, req.Value)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		body := bytes.NewBufferString(`{"name":`)
		r := httptest.NewRequest(http.MethodPost, "/", body)
		w := httptest.NewRecorder()

		req, ok := DecodeJSON[testRequest](w, r, testLogger(), r.Context(), "req-2")
		assert.False(t, ok)
		assert.Nil(t, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("normalizes then validates", func(t *testing.T) {
		body := bytes.NewBufferString(`{"email":"  Client@Example.COM "}`)
		r := httptest.NewRequest(http.MethodPost, "/", body)
		w := httptest.NewRecorder()

		req, ok := DecodeAndPrepare[preparedRequest](w, r, testLogger(), r.Context(), "req-3")
		require.True(t, ok)
		assert.Equal(t, "client@example.com", req.Email)
	})

	t.Run("validation failure writes 400", func(t *testing.T) {
		body := bytes.NewBufferString(`{"email":""}`)
		r := httptest.NewRequest(http.MethodPost, "/", body)
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[preparedRequest](w, r, testLogger(), r.Context(), "req-4")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestWriteError(t *testing.T) {
	t.Run("maps domain codes to statuses", func(t *testing.T) {
		cases := map[dErrors.Code]int{
			dErrors.CodeNotFound:       http.StatusNotFound,
			dErrors.CodeBadRequest:     http.StatusBadRequest,
			dErrors.CodeValidation:     http.StatusBadRequest,
			dErrors.CodeConflict:       http.StatusConflict,
			dErrors.CodeForbidden:      http.StatusForbidden,
			dErrors.CodeDeliveryFailed: http.StatusBadGateway,
			dErrors.CodeInternal:       http.StatusInternalServerError,
		}
		for code, status := range cases {
			w := httptest.NewRecorder()
			WriteError(w, dErrors.New(code, "boom"))
			assert.Equal(t, status, w.Code, "code %s", code)
		}
	})

	t.Run("falls back to 500 for plain errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("unexpected"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
