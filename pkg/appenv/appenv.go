// Package appenv loads the host binary's environment settings. An optional
// .env file is applied first; real environment variables win over it.
package appenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Settings are the resolved host settings.
type Settings struct {
	LogLevel       slog.Level
	CatalogURL     string
	CatalogTTL     time.Duration
	ServeAddr      string
	AllowedOrigins []string
	NoColor        bool
}

type envSettings struct {
	LogLevel       string        `env:"PROMPTCFG_LOG_LEVEL"`
	CatalogURL     string        `env:"PROMPTCFG_CATALOG_URL"`
	CatalogTTL     time.Duration `env:"PROMPTCFG_CATALOG_TTL"`
	ServeAddr      string        `env:"PROMPTCFG_SERVE_ADDR"`
	AllowedOrigins string        `env:"PROMPTCFG_ALLOWED_ORIGINS"`
	NoColor        string        `env:"NO_COLOR"`
}

const (
	defaultCatalogURL = "https://openrouter.ai/api/v1/models"
	defaultCatalogTTL = time.Hour
	defaultServeAddr  = "127.0.0.1:8787"
)

// LoadDotEnv loads variables from path without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("appenv: load %s: %w", path, err)
	}
	return nil
}

// Load applies the .env file at dotenv (skipped when empty) and reads the
// process environment.
func Load(ctx context.Context, dotenv string) (Settings, error) {
	if dotenv != "" {
		if err := LoadDotEnv(dotenv); err != nil {
			return Settings{}, err
		}
	}

	return FromEnv(ctx)
}

// FromEnv reads the process environment, applying defaults for unset
// variables.
func FromEnv(ctx context.Context) (Settings, error) {
	s := Settings{
		LogLevel:   slog.LevelInfo,
		CatalogURL: defaultCatalogURL,
		CatalogTTL: defaultCatalogTTL,
		ServeAddr:  defaultServeAddr,
	}

	var env envSettings
	if err := envconfig.Process(ctx, &env); err != nil {
		return Settings{}, fmt.Errorf("appenv: process env: %w", err)
	}

	if v := strings.TrimSpace(env.LogLevel); v != "" {
		lvl, err := ParseLevel(v)
		if err != nil {
			return Settings{}, fmt.Errorf("appenv: PROMPTCFG_LOG_LEVEL: %w", err)
		}
		s.LogLevel = lvl
	}
	if v := strings.TrimSpace(env.CatalogURL); v != "" {
		s.CatalogURL = v
	}
	if env.CatalogTTL > 0 {
		s.CatalogTTL = env.CatalogTTL
	}
	if v := strings.TrimSpace(env.ServeAddr); v != "" {
		s.ServeAddr = v
	}
	if v := strings.TrimSpace(env.AllowedOrigins); v != "" {
		s.AllowedOrigins = splitCSV(v)
	}
	s.NoColor = env.NoColor != ""

	return s, nil
}

// ParseLevel accepts debug, info, warn/warning and error, case-insensitively.
func ParseLevel(v string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", v)
	}
}

// NewLogger returns a text logger on w at the configured level.
func (s Settings) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.LogLevel}))
}

func splitCSV(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
