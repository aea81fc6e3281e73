package main

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"readinglog/internal/auth"
	"readinglog/internal/book"
	"readinglog/internal/config"
	"readinglog/internal/httpx"
	"readinglog/internal/lookup"
)

type deps struct {
	cfg     config.ServerConfig
	logger  *log.Logger
	books   *book.Service
	pinger  book.Pinger
	lookup  lookup.Resolver
	auth    *auth.Service
	limiter *httpx.RateLimitMiddleware
}

func newRouter(d deps) http.Handler {
	bookHandler := book.NewHTTPHandler(d.books)
	lookupHandler := lookup.NewHTTPHandler(d.lookup)
	authHandler := auth.NewHTTPHandler(d.auth)
	protected := httpx.AuthMiddleware(d.auth)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.pinger.Ping(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "store not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /v1/auth/login", authHandler.Login)
	router.Handle("POST /v1/auth/logout", protected(http.HandlerFunc(authHandler.Logout)))

	router.Handle("GET /v1/lookup", protected(http.HandlerFunc(lookupHandler.Search)))

	router.HandleFunc("GET /v1/books", bookHandler.List)
	router.HandleFunc("GET /v1/books/{id}", bookHandler.Get)
	router.Handle("GET /v1/books/{id}/edit", protected(http.HandlerFunc(bookHandler.EditForm)))
	router.Handle("POST /v1/books", protected(http.HandlerFunc(bookHandler.Create)))
	router.Handle("PUT /v1/books/{id}", protected(http.HandlerFunc(bookHandler.Update)))
	router.Handle("DELETE /v1/books/{id}", protected(http.HandlerFunc(bookHandler.Delete)))

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger),
		httpx.RecoveryMiddleware(d.logger),
		httpx.SecurityHeadersMiddleware(d.cfg.EnableHSTS),
		httpx.CORSMiddleware(d.cfg.AllowedOrigins),
	}
	if d.limiter != nil {
		middlewares = append(middlewares, d.limiter.Middleware)
	}
	middlewares = append(middlewares, httpx.RequestSizeLimitMiddleware(d.cfg.MaxBodyBytes))
	return httpx.Chain(router, middlewares...)
}
