package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"readinglog/internal/auth"
	"readinglog/internal/book"
	"readinglog/internal/config"
	"readinglog/internal/logging"
	"readinglog/internal/lookup"
	"readinglog/internal/platform/googlebooks"
	"readinglog/internal/store"
)

// app bundles what the subcommands share. Fields are nil until the matching open call.
type app struct {
	cfg    *config.Config
	logger *log.Logger
	books  *book.Service
	lookup *lookup.Service

	closers []func()
}

func loadApp() (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) openBooks(ctx context.Context) error {
	s, closeStore, err := store.Open(ctx, a.cfg.Store, a.logger)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeStore)
	a.books = book.NewService(s, a.logger, book.WithListStaleness(a.cfg.Store.ListStaleness))
	return nil
}

func (a *app) openLookup() {
	client := googlebooks.NewClient(a.cfg.Lookup.BaseURL, a.cfg.Lookup.Timeout, a.cfg.Lookup.RPS,
		googlebooks.WithAPIKey(a.cfg.Lookup.APIKey))
	a.closers = append(a.closers, func() { _ = client.Close() })
	a.lookup = lookup.NewService(client, a.logger, a.cfg.Lookup.Timeout)
}

// passwordHash returns the bcrypt hash the password gate checks against.
func (a *app) passwordHash() (string, error) {
	if a.cfg.Auth.PasswordHash != "" {
		return a.cfg.Auth.PasswordHash, nil
	}
	hash, err := auth.HashPassword(a.cfg.Auth.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
