package httpx

import (
	"context"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer token and returns its subject and token id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (subject, tokenID string, err error)
}

func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			subject, tokenID, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			ctx := ContextWithSubject(r.Context(), subject, tokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
