package runs

import (
	"errors"
	"net/http"

	"github.com/triagekit/triage/pipeline"
	"github.com/triagekit/triage/pkg/storage"
)

var (
	// ErrNotFound indicates the requested run does not exist.
	ErrNotFound = errors.New("run not found")
	// ErrDuplicate indicates a run with the same id already exists.
	ErrDuplicate = errors.New("run already exists")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrEmptyDocument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
