package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("assigns a request id and scoped logger", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		base := slog.New(slog.NewJSONHandler(&logs, nil))

		var seenID string
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := RequestIDFromContext(r.Context())
			require.True(t, ok)
			seenID = id
			require.NotNil(t, LoggerFromContext(r.Context()))
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/versions", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		_, err := uuid.Parse(seenID)
		require.NoError(t, err)
		assert.Equal(t, seenID, rec.Header().Get(RequestIDHeader))
		assert.Contains(t, logs.String(), `"request_id":"`+seenID+`"`)
		assert.Contains(t, logs.String(), `"status":418`)
	})

	t.Run("honours an incoming request id", func(t *testing.T) {
		t.Parallel()

		handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := RequestIDFromContext(r.Context())
			_, _ = w.Write([]byte(id))
		}))

		req := httptest.NewRequest(http.MethodGet, "/versions", nil)
		req.Header.Set(RequestIDHeader, "upstream-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "upstream-42", rec.Body.String())
		assert.Equal(t, "upstream-42", rec.Header().Get(RequestIDHeader))
	})
}

func TestRecoverer(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/versions", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(logs.String(), "handler panic"))
}
