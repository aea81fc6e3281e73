// Package config loads runtime settings from .env files, an optional YAML file and
// the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"readinglog/internal/validation"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverSheets   = "sheets"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Lookup LookupConfig `mapstructure:"lookup"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RateLimitRPS   float64  `mapstructure:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst" validate:"gt=0"`
	MaxBodyBytes   int64    `mapstructure:"max_body_bytes" validate:"gt=0"`
	EnableHSTS     bool     `mapstructure:"enable_hsts"`
}

type StoreConfig struct {
	Driver        string        `mapstructure:"driver" validate:"required,oneof=memory postgres sqlite sheets"`
	DSN           string        `mapstructure:"dsn" validate:"required_if=Driver postgres"`
	SQLitePath    string        `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	ListStaleness time.Duration `mapstructure:"list_staleness" validate:"gte=0"`
	ConnectTries  uint          `mapstructure:"connect_tries" validate:"gte=1"`
	Sheets        SheetsConfig  `mapstructure:"sheets"`
}

type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	Worksheet       string `mapstructure:"worksheet"`
	SheetID         int64  `mapstructure:"sheet_id" validate:"gte=0"`
	CredentialsFile string `mapstructure:"credentials_file" validate:"omitempty,file"`
}

type AuthConfig struct {
	Password     string        `mapstructure:"password"`
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL     time.Duration `mapstructure:"token_ttl" validate:"gt=0"`
}

type LookupConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=5s,max=10s"`
	RPS     int           `mapstructure:"rps" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text logfmt json"`
}

var envBindings = map[string]string{
	"server.addr":                   "APP_ADDR",
	"server.allowed_origins":        "CORS_ALLOWED_ORIGINS",
	"server.enable_hsts":            "ENABLE_HSTS",
	"store.driver":                  "STORE_DRIVER",
	"store.dsn":                     "DB_DSN",
	"store.sqlite_path":             "SQLITE_PATH",
	"store.list_staleness":          "LIST_STALENESS",
	"store.sheets.spreadsheet_id":   "SHEETS_SPREADSHEET_ID",
	"store.sheets.worksheet":        "SHEETS_WORKSHEET",
	"store.sheets.sheet_id":         "SHEETS_SHEET_ID",
	"store.sheets.credentials_file": "SHEETS_CREDENTIALS_FILE",
	"auth.password":                 "AUTH_PASSWORD",
	"auth.password_hash":            "AUTH_PASSWORD_HASH",
	"auth.jwt_secret":               "JWT_SECRET",
	"auth.token_ttl":                "TOKEN_TTL",
	"lookup.base_url":               "GOOGLE_BOOKS_BASE_URL",
	"lookup.api_key":                "GOOGLE_BOOKS_API_KEY",
	"lookup.timeout":                "LOOKUP_TIMEOUT",
	"log.level":                     "LOG_LEVEL",
	"log.format":                    "LOG_FORMAT",
}

// LoadEnvFiles loads .env.local then .env without overriding the process environment.
func LoadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

// Load reads configFile (or ./config.yaml when empty and present), applies defaults and
// environment overrides, then validates the result.
func Load(configFile string) (*Config, error) {
	LoadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.rate_limit_rps", 10.0)
	v.SetDefault("server.rate_limit_burst", 20)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("store.driver", DriverMemory)
	v.SetDefault("store.timeout", "5s")
	v.SetDefault("store.list_staleness", "60s")
	v.SetDefault("store.connect_tries", 5)
	v.SetDefault("store.sheets.worksheet", "Sheet1")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("lookup.timeout", "10s")
	v.SetDefault("lookup.rps", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field tags and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	var msgs []string
	for _, fe := range validation.Struct(c) {
		msgs = append(msgs, fe.Message)
	}
	if c.Store.Driver == DriverSheets {
		if c.Store.Sheets.SpreadsheetID == "" {
			msgs = append(msgs, "spreadsheet_id is required for the sheets driver")
		}
		if c.Store.Sheets.CredentialsFile == "" {
			msgs = append(msgs, "credentials_file is required for the sheets driver")
		}
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		msgs = append(msgs, "one of password or password_hash is required")
	}
	if len(msgs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, ", "))
	}
	return nil
}
