package common

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Rules   RulesConfig
	Text    TextConfig
	Rename  RenameConfig
	Journal JournalConfig
	Export  ExportConfig
	Watch   WatchConfig
	Log     LogConfig
}

// RulesConfig points at an optional keyword/offset rules file.
type RulesConfig struct {
	File string
}

// TextConfig selects the page-text backend.
type TextConfig struct {
	Backend   string // native | mupdf | pdftotext
	Pdftotext string
}

// RenameConfig holds the renamer knobs.
type RenameConfig struct {
	TravelerScan string // continue | stop
	MaxProbe     int
}

// JournalConfig holds the optional run-journal connection.
type JournalConfig struct {
	DSN         string
	DialTimeout time.Duration
}

// ExportConfig holds the optional workbook output path.
type ExportConfig struct {
	Path string
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	Debounce   time.Duration
	HealthAddr string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // text | json
}

const (
	BackendNative    = "native"
	BackendMuPDF     = "mupdf"
	BackendPdftotext = "pdftotext"

	TravelerScanContinue = "continue"
	TravelerScanStop     = "stop"

	DefaultMaxProbe = 10000
)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			File: getEnv("INTAKE_RULES_FILE", ""),
		},
		Text: TextConfig{
			Backend:   getEnv("INTAKE_TEXT_BACKEND", BackendNative),
			Pdftotext: getEnv("PDFTOTEXT_BIN", "pdftotext"),
		},
		Rename: RenameConfig{
			TravelerScan: getEnv("INTAKE_TRAVELER_SCAN", TravelerScanContinue),
			MaxProbe:     getEnvAsInt("INTAKE_MAX_PROBE", DefaultMaxProbe),
		},
		Journal: JournalConfig{
			DSN:         getEnv("INTAKE_JOURNAL_DSN", ""),
			DialTimeout: getEnvAsDuration("INTAKE_JOURNAL_DIAL_TIMEOUT", 3*time.Second),
		},
		Export: ExportConfig{
			Path: getEnv("INTAKE_EXPORT_PATH", ""),
		},
		Watch: WatchConfig{
			Debounce:   getEnvAsDuration("INTAKE_WATCH_DEBOUNCE", 2*time.Second),
			HealthAddr: getEnv("INTAKE_HEALTH_ADDR", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Text.Backend {
	case BackendNative, BackendMuPDF, BackendPdftotext:
	default:
		return NewAppError("CONFIG_ERROR", "INTAKE_TEXT_BACKEND must be one of native|mupdf|pdftotext", ErrInvalidInput)
	}
	switch c.Rename.TravelerScan {
	case TravelerScanContinue, TravelerScanStop:
	default:
		return NewAppError("CONFIG_ERROR", "INTAKE_TRAVELER_SCAN must be continue or stop", ErrInvalidInput)
	}
	if c.Rename.MaxProbe <= 0 {
		return NewAppError("CONFIG_ERROR", "INTAKE_MAX_PROBE must be positive", ErrInvalidInput)
	}
	if c.Watch.Debounce < 0 {
		return NewAppError("CONFIG_ERROR", "INTAKE_WATCH_DEBOUNCE must not be negative", ErrInvalidInput)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return NewAppError("CONFIG_ERROR", "LOG_FORMAT must be text or json", ErrInvalidInput)
	}
	return nil
}

// SlogLevel maps Log.Level onto a slog level; unknown values mean info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
