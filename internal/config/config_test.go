package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp isolates a test from any .env or config.yaml in the package directory.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("AUTH_PASSWORD", "pw")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 60*time.Second, cfg.Store.ListStaleness)
	assert.Equal(t, 10*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "Sheet1", cfg.Store.Sheets.Worksheet)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
store:
  driver: sqlite
  sqlite_path: from-file.db
log:
  format: json
`), 0o644))
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("AUTH_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("SQLITE_PATH", "from-env.db")
	t.Setenv("LOOKUP_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "from-env.db", cfg.Store.SQLitePath)
	assert.Equal(t, 5*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("JWT_SECRET=from-file-0123456789\nAUTH_PASSWORD=file\nAPP_ADDR=:7000\n"), 0o644))
	t.Setenv("APP_ADDR", ":6000")
	t.Cleanup(func() {
		_ = os.Unsetenv("JWT_SECRET")
		_ = os.Unsetenv("AUTH_PASSWORD")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.Addr)
	assert.Equal(t, "from-file-0123456789", cfg.Auth.JWTSecret)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"AUTH_PASSWORD": "pw"}},
		{"short secret", map[string]string{"AUTH_PASSWORD": "pw", "JWT_SECRET": "short"}},
		{"missing password", map[string]string{"JWT_SECRET": "0123456789abcdef0123"}},
		{"unknown driver", map[string]string{"AUTH_PASSWORD": "pw", "JWT_SECRET": "0123456789abcdef0123", "STORE_DRIVER": "excel"}},
		{"postgres without dsn", map[string]string{"AUTH_PASSWORD": "pw", "JWT_SECRET": "0123456789abcdef0123", "STORE_DRIVER": "postgres"}},
		{"sheets without spreadsheet", map[string]string{"AUTH_PASSWORD": "pw", "JWT_SECRET": "0123456789abcdef0123", "STORE_DRIVER": "sheets"}},
		{"lookup timeout too long", map[string]string{"AUTH_PASSWORD": "pw", "JWT_SECRET": "0123456789abcdef0123", "LOOKUP_TIMEOUT": "30s"}},
		{"bad log level", map[string]string{"AUTH_PASSWORD": "pw", "JWT_SECRET": "0123456789abcdef0123", "LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			for _, k := range []string{"AUTH_PASSWORD", "AUTH_PASSWORD_HASH", "JWT_SECRET", "STORE_DRIVER", "DB_DSN", "LOOKUP_TIMEOUT", "LOG_LEVEL"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
