// ABOUTME: Tests for environment-driven configuration loading
// ABOUTME: Covers defaults, overrides, and validation bounds

package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"EMOCLASSIFY_MODEL", "EMOCLASSIFY_TIMEOUT", "EMOCLASSIFY_MAX_RETRIES",
		"EMOCLASSIFY_RETRY_DELAY", "EMOCLASSIFY_MAX_CONCURRENT", "EMOCLASSIFY_AVG_NUM_CHUNKS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want default", cfg.Model)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 || cfg.MaxConcurrent != 20 || cfg.AvgNumChunks != 20 {
		t.Errorf("defaults = %d/%d/%d, want 3/20/20", cfg.MaxRetries, cfg.MaxConcurrent, cfg.AvgNumChunks)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EMOCLASSIFY_MODEL", "gpt-4o")
	t.Setenv("EMOCLASSIFY_TIMEOUT", "90s")
	t.Setenv("EMOCLASSIFY_MAX_CONCURRENT", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want override", cfg.Model)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
	}
	if cfg.MaxConcurrent != 5 {
		t.Errorf("MaxConcurrent = %d, want 5", cfg.MaxConcurrent)
	}
}

func TestLoad_InvalidValueFallsBack(t *testing.T) {
	t.Setenv("EMOCLASSIFY_MAX_RETRIES", "lots")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default for unparseable value", cfg.MaxRetries)
	}
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"retries too high", "EMOCLASSIFY_MAX_RETRIES", "11"},
		{"retries negative", "EMOCLASSIFY_MAX_RETRIES", "-1"},
		{"zero concurrency", "EMOCLASSIFY_MAX_CONCURRENT", "0"},
		{"zero chunks", "EMOCLASSIFY_AVG_NUM_CHUNKS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s should fail validation", tt.key, tt.val)
			}
		})
	}
}
