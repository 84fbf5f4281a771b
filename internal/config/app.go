package config

import (
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AppConfig holds runtime settings for the CLI, server and TUI
type AppConfig struct {
	DBPath       string
	PostgresURL  string
	Port         string
	TaxTablePath string
	UserID       string
	RateLimit    string // limiter format, e.g. "60-M"
	CORSOrigins  []string
	IsProduction bool
	LogLevel     slog.Level
}

// LoadAppConfig reads OPSDASH_* environment variables, with an optional .env file
func LoadAppConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("OPSDASH")
	v.AutomaticEnv()

	v.SetDefault("DB_PATH", "opsdash.db")
	v.SetDefault("PG_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("TAX_TABLE", "")
	v.SetDefault("USER_ID", "local")
	v.SetDefault("RATE_LIMIT", "120-M")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &AppConfig{
		DBPath:       v.GetString("DB_PATH"),
		PostgresURL:  v.GetString("PG_URL"),
		Port:         v.GetString("PORT"),
		TaxTablePath: v.GetString("TAX_TABLE"),
		UserID:       v.GetString("USER_ID"),
		RateLimit:    v.GetString("RATE_LIMIT"),
		IsProduction: v.GetBool("IS_PRODUCTION"),
		LogLevel:     parseLogLevel(v.GetString("LOG_LEVEL")),
	}

	for _, origin := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("OPSDASH_PORT is empty, defaulting", "port", cfg.Port)
	}
	if cfg.UserID == "" {
		cfg.UserID = "local"
	}
	return cfg, nil
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
