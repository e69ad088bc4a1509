package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// config holds the settings read from the environment. Flags override the
// output format.
type config struct {
	Debounce    time.Duration `env:"FORMSTATE_DEBOUNCE" envDefault:"500ms"`
	LogLevel    string        `env:"FORMSTATE_LOG_LEVEL" envDefault:"warn"`
	LogFormat   string        `env:"FORMSTATE_LOG_FORMAT" envDefault:"text"`
	Output      string        `env:"FORMSTATE_OUTPUT" envDefault:"json"`
	MaxAttempts int           `env:"FORMSTATE_MAX_ATTEMPTS" envDefault:"0"`
}

// loadConfig parses environ, or the process environment when environ is nil.
func loadConfig(environ map[string]string) (config, error) {
	var cfg config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	if err := checkOutput(cfg.Output); err != nil {
		return config{}, err
	}
	if cfg.Debounce < 0 {
		return config{}, fmt.Errorf("FORMSTATE_DEBOUNCE must not be negative, got %s", cfg.Debounce)
	}
	return cfg, nil
}

func checkOutput(format string) error {
	switch format {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output %q: must be %q or %q", format, outputJSON, outputYAML)
	}
}

func newLogger(cfg config, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: must be %q or %q", cfg.LogFormat, "json", "text")
	}
}
