package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	CORSOrigin       string
	WriteLimitMax    int
	WriteLimitWindow time.Duration
}

// Load reads configuration from the environment, after loading a local .env
// file when one exists.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:             "8080",
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CORSOrigin:       "*",
		WriteLimitMax:    60,
		WriteLimitWindow: time.Minute,
	}

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		cfg.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGIN")); v != "" {
		cfg.CORSOrigin = v
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WRITE_MAX")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.WriteLimitMax = parsed
		}
	}
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WRITE_WINDOW_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.WriteLimitWindow = time.Duration(parsed) * time.Second
		}
	}
	return cfg
}
