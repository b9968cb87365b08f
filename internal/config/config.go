// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded before the environment is read, when present.
const DefaultEnvFile = ".env"

// Config holds all application configuration
type Config struct {
	Garmin          GarminConfig `envPrefix:"GARMIN_"`
	Gemini          GeminiConfig `envPrefix:"GEMINI_"`
	MetricsTextfile string       `env:"METRICS_TEXTFILE"`
}

// GarminConfig holds Garmin Connect configuration
type GarminConfig struct {
	Email        string `env:"EMAIL"`
	Password     string `env:"PASSWORD"`
	OutputDir    string `env:"OUTPUT_DIR" envDefault:"garmin_activities"`
	DefaultWeeks int    `env:"DEFAULT_WEEKS" envDefault:"2"`
	TokenFile    string `env:"TOKEN_FILE"`
	APIURL       string `env:"API_URL"`
	TokenURL     string `env:"TOKEN_URL"`
	ClientID     string `env:"CLIENT_ID"`
	Timezone     string `env:"TIMEZONE" envDefault:"Europe/Lisbon"`
}

// GeminiConfig holds Gemini configuration
type GeminiConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL"`
	BaseURL string `env:"BASE_URL"`
}

// Load reads envFile, if it exists, and then the environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Garmin.DefaultWeeks < 1 {
		return nil, fmt.Errorf("GARMIN_DEFAULT_WEEKS must be at least 1, got %d", cfg.Garmin.DefaultWeeks)
	}
	return cfg, nil
}

// HasGarmin returns true if Garmin credentials are complete
func (c *Config) HasGarmin() bool {
	return c.Garmin.Email != "" && c.Garmin.Password != ""
}

// HasGemini returns true if a Gemini API key is set
func (c *Config) HasGemini() bool {
	return c.Gemini.APIKey != ""
}

// Validate ensures Garmin credentials are present.
func (c *Config) Validate() error {
	if !c.HasGarmin() {
		return errors.New("garmin credentials not configured - set GARMIN_EMAIL and GARMIN_PASSWORD or pass -email and -password")
	}
	return nil
}
