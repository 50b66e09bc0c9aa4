package config

import (
	"os"
	"path/filepath"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	// Base URL of the arrienda REST API, e.g. https://host.example.com/api
	APIBaseURL string

	// Path of the file holding the persisted session blob
	SessionFile string

	HTTPTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	baseURL := os.Getenv("ARRIENDA_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}

	sessionFile := os.Getenv("ARRIENDA_SESSION_FILE")
	if sessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		sessionFile = filepath.Join(dir, "arrienda", "session.json")
	}

	timeout := 15 * time.Second
	if raw := os.Getenv("ARRIENDA_HTTP_TIMEOUT"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			timeout = parsed
		}
	}

	return &Config{
		APIBaseURL:  baseURL,
		SessionFile: sessionFile,
		HTTPTimeout: timeout,
	}, nil
}
