package cases

import (
	"errors"
	"net/http"
)

// Domain errors for case operations.
var (
	ErrNotFound       = errors.New("case not found")
	ErrDuplicate      = errors.New("case already exists")
	ErrActorNotFound  = errors.New("case actor not found")
	ErrSourceNotFound = errors.New("global source not found")
)

// MapHTTPStatus maps case domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrActorNotFound) || errors.Is(err, ErrSourceNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
