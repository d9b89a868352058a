package verdicts

import (
	"errors"
	"net/http"
)

// Domain errors for verdict operations.
var (
	ErrNotFound        = errors.New("verdict not found")
	ErrDuplicate       = errors.New("verdict already exists")
	ErrInvalidStatus   = errors.New("note is not in review status")
	ErrInvalidCategory = errors.New("invalid category")
)

// MapHTTPStatus maps verdict domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidStatus) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidCategory) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
