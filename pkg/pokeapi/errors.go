package pokeapi

import (
	"fmt"

	"github.com/teamdex/teamdex/pkg/model"
)

// NotFoundError reports a 404 from the API.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// Is lets callers match the catalog-wide not-found sentinel.
func (e *NotFoundError) Is(target error) bool {
	return target == model.ErrNotFound
}

// APIError reports a non-404 error response from the API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}
