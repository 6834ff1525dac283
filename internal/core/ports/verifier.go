package ports

import (
	"context"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// TokenVerifier validates a bearer token and returns the decoded caller
// identity. Failures match ErrUnauthorized.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}
