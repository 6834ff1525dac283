package rest

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

type contextKey string

const identityKey contextKey = "identity"

func withIdentity(ctx context.Context, ident domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, ident)
}

func identityFrom(ctx context.Context) (domain.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(domain.Identity)
	return ident, ok
}

// requireAuth wraps a handler with bearer token verification.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.verifier == nil {
			writeError(w, http.StatusNotImplemented, "token verifier not configured")
			return
		}

		token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !found || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		ident, err := h.verifier.Verify(r.Context(), token)
		if err != nil {
			log.Printf("WARN rest: token rejected: %v", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(withIdentity(r.Context(), ident)))
	}
}

// ProtectedData handles GET /protected-data
func (h *Handler) ProtectedData(w http.ResponseWriter, r *http.Request) {
	ident, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "You are authenticated!",
		"uid":     ident.UID,
	})
}
