// Package response writes JSON bodies and error responses for handlers that
// run outside the huma API, such as middleware and router fallbacks.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
	"github.com/prompthub/prompthub-server/internal/store"
)

// RetryAfterSeconds is advertised on every 503 response.
const RetryAfterSeconds = 30

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Error writes a domain error as {error, code, details}.
func Error(w http.ResponseWriter, err *domainerrors.Error, logger *slog.Logger) {
	status := err.HTTPStatus()
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	}
	JSON(w, status, err, logger)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, domainerrors.NotFound(message), logger)
}

// MethodNotAllowed writes a 405 response.
func MethodNotAllowed(w http.ResponseWriter, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusMethodNotAllowed)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": "method not allowed"}); err != nil && logger != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// TooManyRequests writes a 429 response advertising when to retry.
func TooManyRequests(w http.ResponseWriter, retryAfterSeconds int, logger *slog.Logger) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	Error(w, &domainerrors.Error{Code: domainerrors.CodeRateLimited, Message: "too many requests"}, logger)
}

// Classify converts any error into a domain error.
// Store errors are mapped to their codes, unknown errors become INTERNAL.
func Classify(err error) *domainerrors.Error {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		switch storeErr.HTTPCode() {
		case http.StatusNotFound:
			return domainerrors.NotFound(storeErr.Message)
		case http.StatusConflict:
			return domainerrors.AlreadyExists(storeErr.Message)
		case http.StatusBadRequest:
			return domainerrors.Validation(storeErr.Message)
		case http.StatusServiceUnavailable:
			return domainerrors.Unavailable(storeErr.Message)
		}
	}

	return domainerrors.Internal("internal server error").WithCause(err)
}

// HandleError writes an appropriate HTTP response based on the error type.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	domainErr := Classify(err)
	if domainErr.Code == domainerrors.CodeInternal && logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	Error(w, domainErr, logger)
}
