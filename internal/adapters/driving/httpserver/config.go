package httpserver

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server's runtime configuration, loaded from
// environment variables.
type Config struct {
	// APIKey is the generative-AI API key. Required: the endpoint is
	// non-functional without it, so its absence fails server startup.
	APIKey string

	// Model overrides the default classification model.
	Model string

	// BaseURL overrides the default upstream API base URL.
	BaseURL string

	// ListenAddr is the address to serve on, e.g. ":8080".
	ListenAddr string

	// RatePerSecond throttles /api/redact. Zero disables throttling.
	RatePerSecond float64

	// RateBurst is the throttle burst size.
	RateBurst int

	// UpstreamTimeout bounds a single classification round trip.
	UpstreamTimeout time.Duration
}

// LoadConfig reads .env (if present) then environment variables.
//
//	REDACTOR_API_KEY    required (falls back to ANTHROPIC_API_KEY)
//	REDACTOR_MODEL      optional model override
//	REDACTOR_BASE_URL   optional upstream base URL
//	PORT                listen port, default 8080
//	REDACTOR_RATE_LIMIT requests/second for /api/redact, default 1
//	REDACTOR_RATE_BURST throttle burst, default 4
func LoadConfig() (*Config, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	apiKey := strings.TrimSpace(os.Getenv("REDACTOR_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("REDACTOR_API_KEY (or ANTHROPIC_API_KEY) must be set")
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	ratePerSecond := 1.0
	if raw := strings.TrimSpace(os.Getenv("REDACTOR_RATE_LIMIT")); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("REDACTOR_RATE_LIMIT: %w", err)
		}
		ratePerSecond = f
	}

	rateBurst := 4
	if raw := strings.TrimSpace(os.Getenv("REDACTOR_RATE_BURST")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("REDACTOR_RATE_BURST: %w", err)
		}
		rateBurst = n
	}

	return &Config{
		APIKey:          apiKey,
		Model:           strings.TrimSpace(os.Getenv("REDACTOR_MODEL")),
		BaseURL:         strings.TrimSpace(os.Getenv("REDACTOR_BASE_URL")),
		ListenAddr:      ":" + port,
		RatePerSecond:   ratePerSecond,
		RateBurst:       rateBurst,
		UpstreamTimeout: 120 * time.Second,
	}, nil
}
