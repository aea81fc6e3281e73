package book

import (
	"errors"
	"net/http"
	"strings"

	"readinglog/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /v1/books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter, errs := FilterParams{
		Keyword:     query.Get("q"),
		Category:    query.Get("category"),
		Language:    query.Get("language"),
		Status:      query.Get("status"),
		StatusGroup: query.Get("status_group"),
		MinRating:   query.Get("min_rating"),
		Year:        query.Get("year"),
		Sort:        query.Get("sort"),
	}.Filter()
	if len(errs) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid filter", httpx.Details(errs))
		return
	}

	res, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	meta := map[string]any{
		"total": res.Total,
		"years": res.Years,
	}
	if strings.EqualFold(query.Get("group"), "month") {
		meta["groups"] = GroupByMonth(res.Records)
	}
	httpx.JSONSuccess(w, r, res.Records, meta)
}

// Get handles GET /v1/books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseRowID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// EditForm handles GET /v1/books/{id}/edit
func (h *HTTPHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseRowID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := h.service.EditForm(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// Create handles POST /v1/books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", nil)
		return
	}
	rec, err := h.service.Register(r.Context(), form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, rec)
}

// Update handles PUT /v1/books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseRowID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var form Form
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", nil)
		return
	}
	rec, err := h.service.Edit(r.Context(), id, form)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, nil)
}

// Delete handles DELETE /v1/books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseRowID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSONNoContent(w)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", httpx.Details(verr.Fields))
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, ErrStoreUnavailable):
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Book store is unavailable, try again", nil)
	default:
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
