package audit

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates the requested log entry does not exist.
var ErrNotFound = errors.New("log entry not found")

// MapHTTPStatus maps audit domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
