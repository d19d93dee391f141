package apiclient

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds client connection settings sourced from the environment.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig reads client configuration from the environment. A .env
// file is loaded best-effort first, matching local development setups.
//
//	API_URL     backend base URL (default "/api")
//	API_TIMEOUT request timeout as a Go duration (default 30s)
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL: "/api",
		Timeout: 30 * time.Second,
	}

	if v := os.Getenv("API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}
