package review

import (
	"errors"
	"net/http"
)

// Domain errors for review queue operations.
var (
	ErrNotFound        = errors.New("pending classification not found")
	ErrDuplicate       = errors.New("pending classification already exists")
	ErrAlreadyResolved = errors.New("pending classification already resolved")
	ErrEmailNotFound   = errors.New("email not found")
	ErrForbidden       = errors.New("pending classification belongs to another firm")
)

// MapHTTPStatus maps review domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmailNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrAlreadyResolved) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
