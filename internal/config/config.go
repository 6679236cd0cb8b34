// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the folio configuration from FOLIO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/folio/internal/auth"
	"github.com/olegiv/folio/internal/backup"
	"github.com/olegiv/folio/internal/enhance"
)

// Storage backends accepted by FOLIO_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SessionSecret    string `env:"FOLIO_SESSION_SECRET,required"`
	AdminPasskeyHash string `env:"FOLIO_ADMIN_PASSKEY_HASH,required"`

	Env        string `env:"FOLIO_ENV" envDefault:"development"`
	LogLevel   string `env:"FOLIO_LOG_LEVEL" envDefault:"info"`
	ServerHost string `env:"FOLIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"FOLIO_SERVER_PORT" envDefault:"8080"`

	// Storage configuration
	Storage     string `env:"FOLIO_STORAGE" envDefault:"sqlite"`
	DBPath      string `env:"FOLIO_DB_PATH" envDefault:"./data/folio.db"`
	RedisURL    string `env:"FOLIO_REDIS_URL"`
	RedisPrefix string `env:"FOLIO_REDIS_PREFIX" envDefault:"folio:"`

	// Content enhancement
	AIProvider string        `env:"FOLIO_AI_PROVIDER" envDefault:"gemini"`
	AIAPIKey   string        `env:"FOLIO_AI_API_KEY"`
	AIModel    string        `env:"FOLIO_AI_MODEL"` // empty selects the provider default
	AITimeout  time.Duration `env:"FOLIO_AI_TIMEOUT" envDefault:"30s"`

	Locale string `env:"FOLIO_LOCALE" envDefault:"bn-BD"`

	// Limits
	MaxImageBytes     int64 `env:"FOLIO_MAX_IMAGE_BYTES" envDefault:"2097152"`
	ImageMaxDimension int   `env:"FOLIO_IMAGE_MAX_DIMENSION" envDefault:"1600"`
	MaxRecordBytes    int   `env:"FOLIO_MAX_RECORD_BYTES" envDefault:"33554432"`

	// Scheduled snapshots; an empty schedule disables them.
	BackupSchedule string `env:"FOLIO_BACKUP_SCHEDULE"`
	BackupDir      string `env:"FOLIO_BACKUP_DIR" envDefault:"./data/backups"`
	BackupFormat   string `env:"FOLIO_BACKUP_FORMAT" envDefault:"json"`
	BackupKeep     int    `env:"FOLIO_BACKUP_KEEP" envDefault:"14"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// AIEnabled returns true if an enhancement API key is configured.
func (c Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// BackupsEnabled returns true if scheduled snapshots are configured.
func (c Config) BackupsEnabled() bool {
	return c.BackupSchedule != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses the process environment and returns a validated Config.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// Validate session secret length
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("FOLIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("FOLIO_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("FOLIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if err := auth.ValidateHash(c.AdminPasskeyHash); err != nil {
		return fmt.Errorf("FOLIO_ADMIN_PASSKEY_HASH: %w; generate one with: folio passkey hash", err)
	}

	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case StorageSQLite:
		if c.DBPath == "" {
			return errors.New("FOLIO_DB_PATH is required for sqlite storage")
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("FOLIO_REDIS_URL is required for redis storage")
		}
	case StorageMemory:
		slog.Warn("FOLIO_STORAGE=memory: posts and profile are lost on restart")
	default:
		return fmt.Errorf("FOLIO_STORAGE must be one of sqlite, redis, memory; got %q", c.Storage)
	}

	c.AIProvider = strings.ToLower(strings.TrimSpace(c.AIProvider))
	if !enhance.IsKnownProvider(c.AIProvider) {
		return fmt.Errorf("FOLIO_AI_PROVIDER must be gemini or openai; got %q", c.AIProvider)
	}
	if c.AITimeout <= 0 {
		return errors.New("FOLIO_AI_TIMEOUT must be positive")
	}

	if c.MaxImageBytes <= 0 {
		return errors.New("FOLIO_MAX_IMAGE_BYTES must be positive")
	}
	if c.ImageMaxDimension <= 0 {
		return errors.New("FOLIO_IMAGE_MAX_DIMENSION must be positive")
	}
	if c.MaxRecordBytes < int(c.MaxImageBytes) {
		return errors.New("FOLIO_MAX_RECORD_BYTES must be at least FOLIO_MAX_IMAGE_BYTES")
	}

	c.BackupFormat = strings.ToLower(strings.TrimSpace(c.BackupFormat))
	if !backup.IsKnownFormat(c.BackupFormat) {
		return fmt.Errorf("FOLIO_BACKUP_FORMAT must be json or yaml; got %q", c.BackupFormat)
	}
	if c.BackupsEnabled() {
		if _, err := cron.ParseStandard(c.BackupSchedule); err != nil {
			return fmt.Errorf("FOLIO_BACKUP_SCHEDULE: %w", err)
		}
		if c.BackupDir == "" {
			return errors.New("FOLIO_BACKUP_DIR is required when FOLIO_BACKUP_SCHEDULE is set")
		}
	}
	if c.BackupKeep < 0 {
		return errors.New("FOLIO_BACKUP_KEEP must not be negative")
	}

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
