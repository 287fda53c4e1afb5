package testabilities

import (
	"testing"

	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/app"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/ports"
)

// NewTestErrorResponse creates the response body expected for the given app.Error,
// primarily for use in tests. It sets the error message to the error's slug.
func NewTestErrorResponse(t *testing.T, err app.Error) ports.ErrorResponse {
	t.Helper()
	return ports.ErrorResponse{
		Message: err.Slug(),
	}
}
