// Package server exposes the generation gateway and the profile store over HTTP and MCP.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/profile"
)

// ErrRateLimited is returned when a client exhausted its generation budget.
var ErrRateLimited = errors.New("rate limit exceeded")

// ErrNoActiveProfile is returned when saving content without an active profile.
var ErrNoActiveProfile = errors.New("no active profile")

// MethodNotAllowedError is returned for an unsupported method on a known path.
type MethodNotAllowedError struct {
	Method string
}

func (e *MethodNotAllowedError) Error() string {
	return "Method Not Allowed"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidAction *gateway.InvalidActionError
		payload       *gateway.PayloadError
		validation    *profile.ValidationError
		notFound      *profile.NotFoundError
		method        *MethodNotAllowedError
	)
	switch {
	case errors.As(err, &invalidAction), errors.As(err, &payload), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &method):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNoActiveProfile):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
