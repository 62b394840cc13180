package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
	"github.com/prompthub/prompthub-server/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"status": "ok"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestError_Body(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, domainerrors.Forbidden("not authorized").WithDetails(map[string]string{
		"currentOwner": "a@x.io",
		"caller":       "b@x.io",
	}), discardLogger())

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "not authorized", body["error"])
	assert.Equal(t, "FORBIDDEN", body["code"])
	assert.Equal(t, map[string]any{"currentOwner": "a@x.io", "caller": "b@x.io"}, body["details"])
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestError_UnavailableSetsRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, domainerrors.Unavailable("store not ready"), discardLogger())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()

	TooManyRequests(w, 2, discardLogger())

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", decode(t, w)["code"])
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowed(w, discardLogger())

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "method not allowed", decode(t, w)["error"])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domainerrors.Code
	}{
		{"domain error passes through", domainerrors.Validation("title is required"), domainerrors.CodeValidation},
		{"wrapped domain error", fmt.Errorf("ctx: %w", domainerrors.NotFound("gone")), domainerrors.CodeNotFound},
		{"store not found", store.ErrNotFound, domainerrors.CodeNotFound},
		{"store conflict", store.ErrAlreadyExists, domainerrors.CodeAlreadyExists},
		{"store invalid input", store.ErrInvalidInput, domainerrors.CodeValidation},
		{"store unavailable", store.ErrUnavailable.WithCause(errors.New("closed")), domainerrors.CodeUnavailable},
		{"unknown", errors.New("boom"), domainerrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err).Code)
		})
	}
}

func TestHandleError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()

	HandleError(w, errors.New("disk on fire"), discardLogger())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "internal server error", body["error"])
	assert.NotContains(t, w.Body.String(), "disk on fire")
}
