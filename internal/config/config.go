// ABOUTME: Centralized configuration for the classification engine
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the classification engine.
type Config struct {
	// OpenAI settings
	OpenAIKey     string
	Model         string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
	MaxConcurrent int

	// Aggregation settings
	AvgNumChunks int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		Model:         getEnv("EMOCLASSIFY_MODEL", "gpt-4o-mini"),
		Timeout:       getEnvDuration("EMOCLASSIFY_TIMEOUT", 30*time.Second),
		MaxRetries:    getEnvInt("EMOCLASSIFY_MAX_RETRIES", 3),
		RetryDelay:    getEnvDuration("EMOCLASSIFY_RETRY_DELAY", time.Second),
		MaxConcurrent: getEnvInt("EMOCLASSIFY_MAX_CONCURRENT", 20),
		AvgNumChunks:  getEnvInt("EMOCLASSIFY_AVG_NUM_CHUNKS", 20),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("EMOCLASSIFY_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("EMOCLASSIFY_MAX_CONCURRENT must be positive, got %d", c.MaxConcurrent)
	}
	if c.AvgNumChunks < 1 {
		return fmt.Errorf("EMOCLASSIFY_AVG_NUM_CHUNKS must be positive, got %d", c.AvgNumChunks)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
