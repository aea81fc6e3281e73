package main

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pressly/goose/v3"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file lives in cmd/migrate/, so repo root is ../..
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
}

func TestCollectMigrations_ParsesMigrationsDirs(t *testing.T) {
	for _, driver := range []string{"postgres", "sqlite"} {
		dir := filepath.Join(repoRoot(t), "db", "migrations", driver)
		if _, err := goose.CollectMigrations(dir, 0, goose.MaxVersion); err != nil {
			t.Fatalf("expected %s migrations to parse, got error: %v", driver, err)
		}
	}
}
