package book

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   struct {
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func newTestHandler(seed ...Row) *HTTPHandler {
	return NewHTTPHandler(newTestService(NewMemoryRepo(seed...)))
}

func TestHTTPHandler_List(t *testing.T) {
	handler := newTestHandler(
		Row{Title: "Dune", Rating: "5", EndDate: "2024-02-01"},
		Row{Title: "Walden", Rating: "2", EndDate: "2023-05-01"},
	)

	t.Run("success with groups", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?min_rating=4&group=month", nil)
		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w)
		assert.True(t, env.Success)
		assert.EqualValues(t, 1, env.Meta["total"])
		assert.Equal(t, []any{2024.0, 2023.0}, env.Meta["years"])
		assert.Contains(t, env.Meta, "groups")

		var records []Record
		require.NoError(t, json.Unmarshal(env.Data, &records))
		require.Len(t, records, 1)
		assert.Equal(t, "Dune", records[0].Title)
	})

	t.Run("invalid filter", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/books?sort=sideways&year=x", nil)
		handler.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Len(t, env.Error.Details, 2)
	})
}

func TestHTTPHandler_ListStoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockStore(ctrl)
	store.EXPECT().ReadAll(gomock.Any(), gomock.Any()).Return(nil, unavailable("read sheet", errors.New("timeout")))
	handler := NewHTTPHandler(newTestService(store))

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest(http.MethodGet, "/v1/books", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "STORE_UNAVAILABLE", decodeEnvelope(t, w).Error.Code)
}

func TestHTTPHandler_GetAndEditForm(t *testing.T) {
	handler := newTestHandler(Row{Title: "Dune"})

	tests := []struct {
		name    string
		id      string
		get     func(http.ResponseWriter, *http.Request)
		status  int
		endDate any
	}{
		{"get keeps absent date", "1", handler.Get, http.StatusOK, nil},
		{"edit form fills date", "1", handler.EditForm, http.StatusOK, "2024-03-01"},
		{"missing row", "5", handler.Get, http.StatusNotFound, nil},
		{"bad id", "abc", handler.EditForm, http.StatusNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/v1/books/"+tt.id, nil)
			r.SetPathValue("id", tt.id)
			tt.get(w, r)

			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				return
			}
			var rec map[string]any
			require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &rec))
			assert.Equal(t, tt.endDate, rec["end_date"])
		})
	}
}

func TestHTTPHandler_Create(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"created", `{"title":"Dune","rating":5,"category":"小説","confirmed":true}`, http.StatusCreated, ""},
		{"unconfirmed", `{"title":"Dune"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown field", `{"title":"Dune","isbn":"1"}`, http.StatusBadRequest, "INVALID_BODY"},
		{"malformed", `{"title":`, http.StatusBadRequest, "INVALID_BODY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestHandler()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(tt.body))
			handler.Create(w, r)

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.code, env.Error.Code)
			if tt.status == http.StatusCreated {
				var rec Record
				require.NoError(t, json.Unmarshal(env.Data, &rec))
				assert.Equal(t, RowID(1), rec.RowID)
				assert.Equal(t, CategoryNovel, rec.Category)
				assert.Equal(t, 5, rec.Rating)
			}
		})
	}
}

func TestHTTPHandler_UpdateAndDelete(t *testing.T) {
	handler := newTestHandler(Row{Title: "Old"}, Row{Title: "Other"})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/v1/books/1", strings.NewReader(`{"title":"New","confirmed":true}`))
	r.SetPathValue("id", "1")
	handler.Update(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPut, "/v1/books/9", strings.NewReader(`{"title":"New","confirmed":true}`))
	r.SetPathValue("id", "9")
	handler.Update(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodDelete, "/v1/books/2", nil)
	r.SetPathValue("id", "2")
	handler.Delete(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	handler.List(w, r)
	var records []Record
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "New", records[0].Title)
	assert.Equal(t, fixedNow.Format(time.DateOnly), records[0].EndDate.String())
}
