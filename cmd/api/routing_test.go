package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinglog/internal/auth"
	"readinglog/internal/book"
	"readinglog/internal/config"
	"readinglog/internal/lookup"
)

type stubResolver struct{}

func (stubResolver) Search(_ context.Context, raw string) lookup.Result {
	return lookup.Result{Term: raw, Candidates: []lookup.Candidate{{Title: "Dune", Authors: "Frank Herbert"}}}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)

	repo := book.NewMemoryRepo(book.Row{Title: "Walden", EndDate: "2024-03-01"})
	cached := book.NewCachedStore(repo)
	srv := httptest.NewServer(newRouter(deps{
		cfg:    config.ServerConfig{MaxBodyBytes: 1 << 20},
		logger: logger,
		books:  book.NewService(cached, logger),
		pinger: cached,
		lookup: stubResolver{},
		auth:   auth.NewService("test-secret-0123456789", hash, time.Hour, logger),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func login(t *testing.T, base string) string {
	t.Helper()
	res := do(t, http.MethodPost, base+"/v1/auth/login", "", `{"password":"pw"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var body struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body.Data.AccessToken
}

func TestRouting_PublicRoutes(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/healthz", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/readyz", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/v1/books", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/v1/books/1", "", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/v1/books/99", "", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/books", "", "").StatusCode)
}

func TestRouting_ProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/v1/lookup?q=dune"},
		{http.MethodGet, "/v1/books/1/edit"},
		{http.MethodPost, "/v1/books"},
		{http.MethodPut, "/v1/books/1"},
		{http.MethodDelete, "/v1/books/1"},
		{http.MethodPost, "/v1/auth/logout"},
	} {
		res := do(t, tc.method, srv.URL+tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestRouting_RegisterListDeleteLogout(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv.URL)

	res := do(t, http.MethodGet, srv.URL+"/v1/lookup?q=dune", token, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res = do(t, http.MethodPost, srv.URL+"/v1/books", token,
		`{"title":"Dune","authors":"Frank Herbert","rating":5,"start_date":"2025-01-02","confirmed":true}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var created struct {
		Data book.Record `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, book.RowID(2), created.Data.RowID)
	assert.Equal(t, "2025-01-02", created.Data.EndDate.String())

	res = do(t, http.MethodGet, srv.URL+"/v1/books?sort=newest", "", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var listed struct {
		Data []book.Record `json:"data"`
		Meta struct {
			Total int   `json:"total"`
			Years []int `json:"years"`
		} `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&listed))
	require.Len(t, listed.Data, 2)
	assert.Equal(t, "Dune", listed.Data[0].Title)
	assert.Equal(t, []int{2025, 2024}, listed.Meta.Years)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodDelete, srv.URL+"/v1/books/2", token, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, srv.URL+"/v1/books/2", "", "").StatusCode)

	assert.Equal(t, http.StatusNoContent, do(t, http.MethodPost, srv.URL+"/v1/auth/logout", token, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, do(t, http.MethodDelete, srv.URL+"/v1/books/1", token, "").StatusCode)
}
