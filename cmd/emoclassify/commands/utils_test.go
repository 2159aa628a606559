// ABOUTME: Tests for shared utility functions used by CLI commands
// ABOUTME: Verifies truncate and registry loading helpers

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/emoclassify/internal/classifier"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{
			name:   "short string unchanged",
			input:  "hello",
			maxLen: 10,
			want:   "hello",
		},
		{
			name:   "exact length unchanged",
			input:  "hello",
			maxLen: 5,
			want:   "hello",
		},
		{
			name:   "long string truncated",
			input:  "hello world",
			maxLen: 8,
			want:   "hello...",
		},
		{
			name:   "very short maxLen",
			input:  "hello",
			maxLen: 2,
			want:   "he",
		},
		{
			name:   "empty string",
			input:  "",
			maxLen: 10,
			want:   "",
		},
		{
			name:   "unicode truncated with ellipsis",
			input:  "你好世界你好世界",
			maxLen: 5,
			want:   "你好...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestLoadRegistry_EmbeddedSet(t *testing.T) {
	registry, err := loadRegistry(classifier.SetV1, "")
	if err != nil {
		t.Fatalf("loadRegistry() error = %v", err)
	}
	if registry.Len() == 0 {
		t.Error("embedded v1 set should not be empty")
	}
}

func TestLoadRegistry_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.json")
	defs := `{"custom": {"name": "Custom", "version": "v1", "chunker": "per_message", "roles": ["user"], "prompt": "Is the user upset?"}}`
	if err := os.WriteFile(path, []byte(defs), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	registry, err := loadRegistry(classifier.SetV1, path)
	if err != nil {
		t.Fatalf("loadRegistry() error = %v", err)
	}
	if _, ok := registry.Get("custom"); !ok {
		t.Error("custom definition file should take precedence over the embedded set")
	}
}
