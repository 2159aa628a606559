// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Registry/completer construction and small formatting helpers
package commands

import (
	"github.com/harper/emoclassify/internal/classifier"
	"github.com/harper/emoclassify/internal/config"
	"github.com/harper/emoclassify/internal/llm"
)

// loadRegistry loads a custom definition file when given, otherwise the
// named embedded set.
func loadRegistry(set, definitionsPath string) (*classifier.Registry, error) {
	if definitionsPath != "" {
		return classifier.LoadFile(definitionsPath)
	}
	return classifier.LoadSet(set)
}

// newCompleter builds the OpenAI-backed completion client from config.
func newCompleter(cfg *config.Config) (*llm.Client, error) {
	return llm.NewClient(llm.ClientConfig{
		APIKey:        cfg.OpenAIKey,
		Model:         cfg.Model,
		MaxConcurrent: int64(cfg.MaxConcurrent),
		MaxRetries:    uint64(cfg.MaxRetries),
		RetryDelay:    cfg.RetryDelay,
		Timeout:       cfg.Timeout,
	})
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}
