package sourcefiles

import (
	"errors"
	"net/http"
)

// Domain errors for source file operations.
var (
	ErrNotFound         = errors.New("source file not found")
	ErrDuplicate        = errors.New("source file already exists")
	ErrAlreadyProcessed = errors.New("source file already processed")
	ErrFileTooLarge     = errors.New("file exceeds maximum upload size")
	ErrInvalidFile      = errors.New("invalid file")
)

// MapHTTPStatus maps source file domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrAlreadyProcessed) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
