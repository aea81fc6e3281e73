package lookup

import (
	"context"
	"net/http"
	"strings"

	"readinglog/internal/httpx"
)

// Resolver is what the handler needs from Service.
type Resolver interface {
	Search(ctx context.Context, raw string) Result
}

type HTTPHandler struct {
	resolver Resolver
}

func NewHTTPHandler(resolver Resolver) *HTTPHandler {
	return &HTTPHandler{resolver: resolver}
}

// Search handles GET /v1/lookup?q=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Query is required",
			[]httpx.ErrorDetail{{Field: "q", Message: "q is a required field"}})
		return
	}
	httpx.JSONSuccess(w, r, h.resolver.Search(r.Context(), q), nil)
}
