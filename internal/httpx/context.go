package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	subjectKey   contextKey = "subject"
	tokenIDKey   contextKey = "tokenID"
	requestIDKey contextKey = "requestID"
)

// SubjectFrom retrieves the authenticated subject from the request context.
func SubjectFrom(r *http.Request) string {
	if v, ok := r.Context().Value(subjectKey).(string); ok {
		return v
	}
	return ""
}

// TokenIDFrom retrieves the id of the bearer token that authenticated the request.
func TokenIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(tokenIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithSubject(ctx context.Context, subject, tokenID string) context.Context {
	ctx = context.WithValue(ctx, subjectKey, subject)
	return context.WithValue(ctx, tokenIDKey, tokenID)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
