package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	FirebaseProject    string `env:"FIREBASE_PROJECT_ID"`
	FirebaseApiKey     string `env:"FIREBASE_API_KEY"`
	ServiceAccountJSON string `env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	ServiceAccountPath string `env:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	StorageBucket      string `env:"STORAGE_BUCKET"`

	GeoApiKey          string `env:"GEO_API_KEY"`
	GeolocationEnabled bool   `env:"GEOLOCATION_ENABLED" envDefault:"true"`

	ListingPageSize   int   `env:"LISTING_PAGE_SIZE" envDefault:"10"`
	RecommendedLimit  int   `env:"RECOMMENDED_LIMIT" envDefault:"5"`
	MaxImageSizeBytes int64 `env:"MAX_IMAGE_SIZE_BYTES" envDefault:"5242880"`

	DataBackend string `env:"DATA_BACKEND" envDefault:"firestore"`

	AuthRateLimitPerMinute int      `env:"AUTH_RATE_LIMIT_PER_MINUTE" envDefault:"5"`
	AllowedOrigins         []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.DataBackend = strings.ToLower(strings.TrimSpace(cfg.DataBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ListingPageSize <= 0 {
		return fmt.Errorf("LISTING_PAGE_SIZE must be positive, got %d", c.ListingPageSize)
	}
	if c.RecommendedLimit <= 0 {
		return fmt.Errorf("RECOMMENDED_LIMIT must be positive, got %d", c.RecommendedLimit)
	}
	if c.MaxImageSizeBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE_BYTES must be positive, got %d", c.MaxImageSizeBytes)
	}
	if c.DataBackend != BackendFirestore && c.DataBackend != BackendMemory {
		return fmt.Errorf("DATA_BACKEND must be %q or %q, got %q", BackendFirestore, BackendMemory, c.DataBackend)
	}
	if c.DataBackend == BackendFirestore {
		if err := c.ValidateFirebase(); err != nil {
			return err
		}
	}
	if c.GeolocationEnabled && c.GeoApiKey == "" {
		return fmt.Errorf("GEO_API_KEY is required when GEOLOCATION_ENABLED is true")
	}
	return nil
}

// ValidateFirebase checks the settings every Firebase backed component needs.
// The memory backend uses none of them.
func (c *Config) ValidateFirebase() error {
	required := []struct{ name, value string }{
		{"FIREBASE_PROJECT_ID", c.FirebaseProject},
		{"FIREBASE_API_KEY", c.FirebaseApiKey},
		{"STORAGE_BUCKET", c.StorageBucket},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required for the %s backend", r.name, BackendFirestore)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
