package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	rl := NewRateLimitMiddleware(0.001, 2)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	do := func(addr string) int {
		r := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1"))
	// a different client has its own bucket
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1"))
}
