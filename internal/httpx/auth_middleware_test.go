package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type verifierFunc func(ctx context.Context, token string) (string, string, error)

func (f verifierFunc) VerifyToken(ctx context.Context, token string) (string, string, error) {
	return f(ctx, token)
}

func TestAuthMiddleware(t *testing.T) {
	verifier := verifierFunc(func(_ context.Context, token string) (string, string, error) {
		if token == "good" {
			return "owner", "jti-1", nil
		}
		return "", "", errors.New("bad token")
	})

	var gotSubject, gotTokenID string
	handler := AuthMiddleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject = SubjectFrom(r)
		gotTokenID = TokenIDFrom(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"rejected", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject, gotTokenID = "", ""
			r := httptest.NewRequest(http.MethodPost, "/v1/books", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "owner", gotSubject)
				assert.Equal(t, "jti-1", gotTokenID)
			} else {
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
				assert.Empty(t, gotSubject)
			}
		})
	}
}
