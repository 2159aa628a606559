// ABOUTME: Tests for loading and validating classifier definition sets
// ABOUTME: Covers embedded sets, custom JSON, and configuration failures

package classifier

import (
	"errors"
	"testing"
)

func TestLoadSet_Embedded(t *testing.T) {
	tests := []struct {
		set     string
		wantLen int
	}{
		{SetV1, 11},
		{SetV1TopLevel, 3},
		{SetV2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.set, func(t *testing.T) {
			registry, err := LoadSet(tt.set)
			if err != nil {
				t.Fatalf("LoadSet(%q) error = %v", tt.set, err)
			}
			if registry.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", registry.Len(), tt.wantLen)
			}
			for _, name := range registry.Names() {
				spec, ok := registry.Get(name)
				if !ok {
					t.Fatalf("Get(%q) missing after Names() listed it", name)
				}
				if spec.Key != name {
					t.Errorf("spec key %q does not match registry key %q", spec.Key, name)
				}
			}
		})
	}
}

func TestLoadSet_Unknown(t *testing.T) {
	var confErr *ConfigurationError
	if _, err := LoadSet("v99"); !errors.As(err, &confErr) {
		t.Errorf("LoadSet(v99) error = %v, want ConfigurationError", err)
	}
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown version", `{"a": {"name": "A", "version": "v9", "chunker": "whole", "prompt": "p"}}`},
		{"unknown chunker", `{"a": {"name": "A", "version": "v1", "chunker": "per_paragraph", "prompt": "p"}}`},
		{"unknown role", `{"a": {"name": "A", "version": "v1", "chunker": "per_message", "roles": ["moderator"], "prompt": "p"}}`},
		{"empty prompt", `{"a": {"name": "A", "version": "v1", "chunker": "whole"}}`},
		{"v2 without criteria", `{"a": {"name": "A", "version": "v2", "chunker": "per_message", "prompt": "p"}}`},
		{"malformed json", `{"a": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var confErr *ConfigurationError
			if _, err := Parse([]byte(tt.data)); !errors.As(err, &confErr) {
				t.Errorf("Parse() error = %v, want ConfigurationError", err)
			}
		})
	}
}

func TestSpec_DisplayName(t *testing.T) {
	spec := Spec{Name: "Loneliness", FullName: "Loneliness and Isolation"}
	if got := spec.DisplayName(); got != "Loneliness and Isolation" {
		t.Errorf("DisplayName() = %q, want full name", got)
	}
	spec.FullName = ""
	if got := spec.DisplayName(); got != "Loneliness" {
		t.Errorf("DisplayName() = %q, want short name", got)
	}
}

func TestRegistry_Bind(t *testing.T) {
	registry, err := LoadSet(SetV2)
	if err != nil {
		t.Fatalf("LoadSet() error = %v", err)
	}
	classifiers, err := registry.Bind(&fakeCompleter{response: "yes"})
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if len(classifiers) != registry.Len() {
		t.Errorf("Bind() produced %d classifiers, want %d", len(classifiers), registry.Len())
	}
}
