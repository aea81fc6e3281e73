// Package store selects and connects the configured book store backend.
package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"

	"readinglog/internal/book"
	"readinglog/internal/config"
	"readinglog/internal/platform/gsheets"
)

// Open connects the backend named by cfg.Driver, retrying transient connection
// failures, and wraps it in a read cache. The returned func releases the backend.
func Open(ctx context.Context, cfg config.StoreConfig, logger *log.Logger) (*book.CachedStore, func(), error) {
	logger = logger.WithPrefix("store")

	var (
		backend book.Store
		closer  = func() {}
	)
	connect := func() error {
		var err error
		backend, closer, err = dial(ctx, cfg)
		return err
	}

	attempts := cfg.ConnectTries
	if attempts == 0 {
		attempts = 1
	}
	err := retry.Do(connect,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("connect failed, retrying", "driver", cfg.Driver, "attempt", n+1, "err", err)
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: connect %s: %v", book.ErrStoreUnavailable, cfg.Driver, err)
	}
	logger.Info("connected", "driver", cfg.Driver, "target", describe(cfg))
	return book.NewCachedStore(backend), closer, nil
}

func dial(ctx context.Context, cfg config.StoreConfig) (book.Store, func(), error) {
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverMemory:
		return book.NewMemoryRepo(), func() {}, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create db pool: %w", err)
		}
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("cannot ping database (%s): %w", RedactDSN(cfg.DSN), err)
		}
		return book.NewPostgresRepo(pool, cfg.Timeout), pool.Close, nil

	case config.DriverSQLite:
		db, err := book.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return book.NewSQLiteRepo(db, cfg.Timeout), func() { _ = db.Close() }, nil

	case config.DriverSheets:
		creds, err := os.ReadFile(cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, nil, retry.Unrecoverable(fmt.Errorf("read credentials: %w", err))
		}
		client, err := gsheets.NewClient(ctx, creds, cfg.Sheets.SpreadsheetID, cfg.Timeout)
		if err != nil {
			return nil, nil, retry.Unrecoverable(err)
		}
		repo := book.NewSheetsRepo(client, cfg.Sheets.Worksheet, cfg.Sheets.SheetID, cfg.Timeout)
		if err := repo.Ping(pingCtx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repo, func() { _ = client.Close() }, nil
	}
	return nil, nil, retry.Unrecoverable(fmt.Errorf("unknown store driver %q", cfg.Driver))
}

func describe(cfg config.StoreConfig) string {
	switch cfg.Driver {
	case config.DriverPostgres:
		return RedactDSN(cfg.DSN)
	case config.DriverSQLite:
		return cfg.SQLitePath
	case config.DriverSheets:
		return cfg.Sheets.SpreadsheetID + "/" + cfg.Sheets.Worksheet
	}
	return "in-process"
}

// RedactDSN hides the credentials part of a connection URL.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
