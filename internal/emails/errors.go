package emails

import (
	"errors"
	"net/http"
)

// Domain errors for email operations.
var (
	ErrNotFound  = errors.New("email not found")
	ErrDuplicate = errors.New("email already exists")
)

var errMissingAddress = errors.New("at least one address parameter is required")

// MapHTTPStatus maps email domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
