package main

import (
	"os"
	"path/filepath"

	"readinglog/internal/config"
)

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	config.LoadEnvFiles()
}

// migrationsDir returns the directory holding the migrations for driver.
func migrationsDir(driver string) string {
	base := "db/migrations"
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		base = v
	}
	return filepath.Join(base, driver)
}

// gooseDialect maps a store driver to the goose dialect name.
func gooseDialect(driver string) (string, bool) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", true
	case config.DriverSQLite:
		return "sqlite3", true
	}
	return "", false
}
