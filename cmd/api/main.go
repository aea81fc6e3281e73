package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"readinglog/internal/auth"
	"readinglog/internal/book"
	"readinglog/internal/config"
	"readinglog/internal/httpx"
	"readinglog/internal/logging"
	"readinglog/internal/lookup"
	"readinglog/internal/platform/googlebooks"
	"readinglog/internal/store"
)

func main() {
	configFile := flag.String("config", "", "Path to a YAML config file (default ./config.yaml if present)")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bookStore, closeStore, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	passwordHash, err := resolvePasswordHash(cfg.Auth, logger)
	if err != nil {
		return err
	}

	client := googlebooks.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.Timeout, cfg.Lookup.RPS,
		googlebooks.WithAPIKey(cfg.Lookup.APIKey))
	defer client.Close()

	limiter := httpx.NewRateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	defer limiter.Stop()

	handler := newRouter(deps{
		cfg:     cfg.Server,
		logger:  logger,
		books:   book.NewService(bookStore, logger, book.WithListStaleness(cfg.Store.ListStaleness)),
		pinger:  bookStore,
		lookup:  lookup.NewService(client, logger, cfg.Lookup.Timeout),
		auth:    auth.NewService(cfg.Auth.JWTSecret, passwordHash, cfg.Auth.TokenTTL, logger),
		limiter: limiter,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr, "store", cfg.Store.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// resolvePasswordHash prefers a configured bcrypt hash and hashes a plain password otherwise.
func resolvePasswordHash(cfg config.AuthConfig, logger *log.Logger) (string, error) {
	if cfg.PasswordHash != "" {
		return cfg.PasswordHash, nil
	}
	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	logger.Warn("AUTH_PASSWORD is set in plain text; prefer AUTH_PASSWORD_HASH")
	return hash, nil
}
