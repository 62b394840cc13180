package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"

	domainerrors "github.com/prompthub/prompthub-server/internal/errors"
	"github.com/prompthub/prompthub-server/internal/http/response"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	headers http.Header
	Message string `json:"error" doc:"Human-readable error message"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// GetHeaders implements huma.HeadersError.
func (e *APIError) GetHeaders() http.Header {
	return e.headers
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// fromDomain builds the API error for a domain error.
func fromDomain(de *domainerrors.Error) *APIError {
	e := &APIError{
		status:  de.HTTPStatus(),
		Code:    string(de.Code),
		Message: de.Message,
		Details: de.Details,
	}
	if e.status == http.StatusServiceUnavailable {
		e.headers = http.Header{"Retry-After": []string{strconv.Itoa(response.RetryAfterSeconds)}}
	}
	return e
}

// apiError converts a service error into the API error written to the client.
// Unknown errors become a generic 500 and are logged with their cause, which
// never reaches the response body.
func (s *Server) apiError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae
	}
	de := response.Classify(err)
	if de.Code == domainerrors.CodeInternal {
		s.logger.ErrorContext(ctx, "request failed",
			"request_id", middleware.GetReqID(ctx),
			"error", err)
	}
	return fromDomain(de)
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var ae *APIError
			if errors.As(err, &ae) {
				return ae
			}
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return fromDomain(domainErr)
			}
		}

		// Request validation failures surface as 400 like every other validation error.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		e := &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
		if status >= http.StatusInternalServerError {
			e.Message = "internal server error"
			return e
		}
		if details := errorDetails(errs); len(details) > 0 {
			e.Details = details
		}
		return e
	}
}

// errorDetails keeps the field-level messages huma produces for bad input.
func errorDetails(errs []error) []string {
	var out []string
	for _, err := range errs {
		if err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(domainerrors.CodeValidation)
	case http.StatusUnauthorized:
		return string(domainerrors.CodeUnauthorized)
	case http.StatusForbidden:
		return string(domainerrors.CodeForbidden)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeAlreadyExists)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	case http.StatusServiceUnavailable:
		return string(domainerrors.CodeUnavailable)
	default:
		return string(domainerrors.CodeInternal)
	}
}
