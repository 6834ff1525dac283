// Package identity verifies Google ID tokens for the protected endpoints.
package identity

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// GoogleVerifier validates Google issued ID tokens against an audience.
type GoogleVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// compile-time interface assertion
var _ ports.TokenVerifier = (*GoogleVerifier)(nil)

// NewGoogleVerifier constructs a verifier for the given OAuth audience.
func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{
		audience: audience,
		validate: idtoken.Validate,
	}
}

// Verify checks the token signature, expiry and audience and returns the
// caller's identity. Every failure maps to ErrUnauthorized; callers never see
// the verification internals.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, fmt.Errorf("identity: empty token: %w", ports.ErrUnauthorized)
	}

	payload, err := v.validate(ctx, token, v.audience)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity: %v: %w", err, ports.ErrUnauthorized)
	}

	ident := domain.Identity{
		UID:    payload.Subject,
		Claims: payload.Claims,
	}
	if email, ok := payload.Claims["email"].(string); ok {
		ident.Email = email
	}
	return ident, nil
}
