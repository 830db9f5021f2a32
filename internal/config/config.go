package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
// The lockout and backup knobs used to live in a single-row settings table in
// the legacy service; they are now loaded once here and passed into the
// components that need them.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string

	JWTSecret  string
	SessionTTL time.Duration

	// Account lockout policy
	LockoutThreshold int
	LockoutDuration  time.Duration

	// Scheduled database backups
	BackupDir       string
	BackupSchedule  string
	BackupRetention int

	// Optional shoutrrr URL for security event notifications
	NotifyURL string
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration. Malformed numeric or duration values are rejected here,
// before any component sees them.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("NAEBAK_ENV", "development"),
		HTTPPort:     getEnv("NAEBAK_HTTP_PORT", "8080"),
		DatabasePath: getEnv("NAEBAK_DB_PATH", filepath.Join("data", "naebak-admin.db")),
		JWTSecret:    getEnv("NAEBAK_JWT_SECRET", "development-secret-change-me"),

		BackupDir:      getEnv("NAEBAK_BACKUP_DIR", filepath.Join("data", "backups")),
		BackupSchedule: getEnv("NAEBAK_BACKUP_SCHEDULE", "0 3 * * *"),

		NotifyURL: getEnv("NAEBAK_NOTIFY_URL", ""),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("NAEBAK_SESSION_TTL", 60*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.LockoutThreshold, err = getInt("NAEBAK_LOCKOUT_THRESHOLD", 5); err != nil {
		return Config{}, err
	}
	if cfg.LockoutDuration, err = getDuration("NAEBAK_LOCKOUT_DURATION", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.BackupRetention, err = getInt("NAEBAK_BACKUP_RETENTION", 30); err != nil {
		return Config{}, err
	}

	if cfg.LockoutThreshold < 1 {
		return Config{}, fmt.Errorf("NAEBAK_LOCKOUT_THRESHOLD must be at least 1, got %d", cfg.LockoutThreshold)
	}
	if cfg.LockoutDuration <= 0 {
		return Config{}, fmt.Errorf("NAEBAK_LOCKOUT_DURATION must be positive, got %s", cfg.LockoutDuration)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("NAEBAK_SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
