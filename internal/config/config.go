package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
)

const (
	defaultReportDir = "./reports"
	defaultPort      = "8080"
	defaultEntries   = 5
	defaultItemFmt   = "{item} = {price}"
	defaultLogLevel  = "info"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AdminEmail    string
	AdminPassword string
	SessionSecret string
	ReportDir     string
	Port          string
	Entries       int
	ItemFmt       string
	AutoAlign     bool
	InventoryPath string
	LogLevel      string
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Warn("could not load .env", "err", err)
	}

	cfg := Config{
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		ReportDir:     os.Getenv("REPORT_DIR"),
		Port:          os.Getenv("PORT"),
		Entries:       envInt("REPORT_ENTRIES", defaultEntries),
		ItemFmt:       os.Getenv("REPORT_ITEM_FMT"),
		AutoAlign:     envBool("REPORT_AUTO_ALIGN", true),
		InventoryPath: os.Getenv("REPORT_INVENTORY"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
	}

	if cfg.ReportDir == "" {
		cfg.ReportDir = defaultReportDir
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.ItemFmt == "" {
		cfg.ItemFmt = defaultItemFmt
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}

	return cfg
}

// AuthEnabled reports whether the server should require a session.
func (c Config) AuthEnabled() bool {
	return c.AdminEmail != "" && c.AdminPassword != ""
}

// Warn logs the settings a server deployment is expected to provide.
func (c Config) Warn(logger *log.Logger) {
	if c.AdminEmail == "" {
		logger.Warn("ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		logger.Warn("ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" && c.AuthEnabled() {
		logger.Warn("SESSION_SECRET is not set; using a random key, sessions end on restart")
	} else if c.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set")
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Warn("ignoring invalid integer setting", "key", key, "value", raw)
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warn("ignoring invalid boolean setting", "key", key, "value", raw)
		return fallback
	}
	return v
}
