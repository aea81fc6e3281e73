package lookup

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinglog/internal/platform/googlebooks"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := googlebooks.NewClient(srv.URL, time.Second, 100)
	t.Cleanup(func() { client.Close() })
	return NewService(client, log.New(io.Discard), timeout)
}

func TestService_Search(t *testing.T) {
	var gotQuery atomic.Value
	svc := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"totalItems":2,"items":[
			{"volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"imageLinks":{"thumbnail":"http://img/x?zoom=1"}}},
			{"volumeInfo":{}}
		]}`)
	}, time.Second)

	res := svc.Search(context.Background(), "https://www.amazon.co.jp/dp/B00B7NPRY8")
	assert.Equal(t, "B00B7NPRY8", gotQuery.Load())
	assert.Equal(t, "B00B7NPRY8", res.Term)
	assert.Empty(t, res.Message)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, Candidate{Title: "Dune", Authors: "Frank Herbert", ThumbnailURL: "https://img/x?zoom=0"}, res.Candidates[0])
	assert.Equal(t, UnknownTitle, res.Candidates[1].Title)
}

func TestService_ResolveFailuresAreEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		message string
	}{
		{
			name: "api error payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, `{"error":{"code":403,"message":"Daily Limit Exceeded"}}`)
			},
			message: "Google Books API error: Daily Limit Exceeded",
		},
		{
			name: "server error without payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"items":`)
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestResolver(t, tt.handler, 100*time.Millisecond)

			res := svc.Resolve(context.Background(), "dune")
			assert.NotNil(t, res.Candidates)
			assert.Empty(t, res.Candidates)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestService_BlankTermSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	svc := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, time.Second)

	res := svc.Search(context.Background(), "   ")
	assert.Empty(t, res.Candidates)
	assert.Zero(t, calls.Load())
}
