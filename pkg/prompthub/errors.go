package prompthub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Error codes returned by the server.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeTokenExpired  = "TOKEN_EXPIRED"
	CodeForbidden     = "FORBIDDEN"
	CodeValidation    = "VALIDATION"
	CodeRateLimited   = "RATE_LIMITED"
	CodeUnavailable   = "SERVICE_UNAVAILABLE"
	CodeInternal      = "INTERNAL"
)

// Error is a non-2xx response from the server.
type Error struct {
	Status     int             `json:"-"`
	Message    string          `json:"error"`
	Code       string          `json:"code"`
	Details    json.RawMessage `json:"details,omitempty"`
	RetryAfter time.Duration   `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("prompthub: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("prompthub: %s: %s", e.Code, e.Message)
}

// HasCode reports whether err is a server error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// newError builds an Error from a response. Bodies that are not JSON keep
// their text as the message.
func newError(resp *http.Response, body []byte) *Error {
	e := &Error{Status: resp.StatusCode}
	if err := json.Unmarshal(body, e); err != nil || e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
		if len(body) > 0 && err != nil {
			e.Message = string(body)
		}
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		e.RetryAfter = time.Duration(secs) * time.Second
	}
	return e
}
