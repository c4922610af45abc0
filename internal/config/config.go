// Package config loads process configuration from the environment.
//
// The Config value is built exactly once in main and handed to every
// component that needs it. Nothing in this codebase reads the environment
// after startup.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultMaxRequestSize is the request body ceiling when
// MAX_REQUEST_SIZE_BYTES is unset.
const DefaultMaxRequestSize = 1_000_000

// Config holds all runtime settings.
type Config struct {
	// FirebaseProjectID identifies the identity provider project.
	FirebaseProjectID string

	// GoogleApplicationCredentials is an optional path to a service account
	// JSON file, used for local development only.
	GoogleApplicationCredentials string

	// MaxRequestSize is the request body ceiling in bytes.
	MaxRequestSize int64

	// CORSOrigins is the cross-origin allowlist. Empty means deny all.
	CORSOrigins []string

	// Debug relaxes transport hardening (no HSTS) and raises log verbosity.
	Debug bool

	// Host and Port are the listen address.
	Host string
	Port string
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		FirebaseProjectID:            os.Getenv("FIREBASE_PROJECT_ID"),
		GoogleApplicationCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		MaxRequestSize:               envInt64("MAX_REQUEST_SIZE_BYTES", DefaultMaxRequestSize),
		CORSOrigins:                  splitOrigins(os.Getenv("CORS_ORIGINS")),
		Debug:                        envBool("DEBUG"),
		Host:                         envDefault("HOST", "0.0.0.0"),
		Port:                         envDefault("PORT", "8080"),
	}
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
