package triage

import (
	"errors"
	"net/http"

	"github.com/praxislaw/docket/internal/emails"
)

// ErrForbidden rejects classification of mail belonging to another firm.
// The rejection happens before any scoring or mutation.
var ErrForbidden = errors.New("email belongs to another firm")

// MapHTTPStatus maps triage errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, emails.ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
