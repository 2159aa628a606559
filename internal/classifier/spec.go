// ABOUTME: ClassifierSpec configuration binding strategy, roles, prompt, parser
// ABOUTME: Specs are validated at load time and read-only afterward
package classifier

import (
	"fmt"

	"github.com/harper/emoclassify/internal/aggregation"
	"github.com/harper/emoclassify/internal/chunking"
	"github.com/harper/emoclassify/internal/models"
)

// Version selects a classifier family: prompt template and verdict shape.
type Version string

const (
	// VersionV1 is a yes/no/unsure sub-classifier over chunks.
	VersionV1 Version = "v1"
	// VersionV1TopLevel is a coarse yes/no/unsure classifier over the
	// whole conversation, used to gate sub-classifiers.
	VersionV1TopLevel Version = "v1_top_level"
	// VersionV2 is a criteria-based classifier reporting a boolean plus
	// a 1-5 confidence.
	VersionV2 Version = "v2"
)

// Valid reports whether v names a known classifier family.
func (v Version) Valid() bool {
	switch v {
	case VersionV1, VersionV1TopLevel, VersionV2:
		return true
	}
	return false
}

// ConfigurationError is a fatal definition-time problem: an unknown
// strategy or version, a malformed role, or a dependency edge referencing
// an unregistered classifier. Raised before any conversation is processed.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "classifier configuration error: " + e.Reason
}

// Spec is the declarative definition of one classifier. Loaded once at
// startup from a definition set and treated as immutable configuration.
type Spec struct {
	// Key is the unique registry key, set from the definition map key.
	Key string `json:"-"`

	Name     string            `json:"name"`
	FullName string            `json:"full_name,omitempty"`
	Version  Version           `json:"version"`
	Chunker  chunking.Strategy `json:"chunker"`
	Roles    []models.Role     `json:"roles,omitempty"`

	// Prompt is the classification question; for v1 classifiers its first
	// line doubles as the short restatement at the end of the prompt.
	Prompt string `json:"prompt"`
	// Criteria are the v2 judging criteria, one bullet each.
	Criteria []string `json:"criteria,omitempty"`

	// ContextSize and WindowWidth override the chunking defaults.
	ContextSize int `json:"context_size,omitempty"`
	WindowWidth int `json:"window_width,omitempty"`

	// MinConfidence is the ADJUSTED-aggregation floor for this
	// classifier; positives below it are treated as too weak to fire.
	MinConfidence int `json:"min_confidence,omitempty"`
}

// DisplayName returns the human-readable name, preferring FullName.
func (s Spec) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Name
}

// ChunkOptions maps the spec onto chunker options.
func (s Spec) ChunkOptions() chunking.Options {
	return chunking.Options{
		Strategy:    s.Chunker,
		Roles:       chunking.RoleFilter(s.Roles),
		ContextSize: s.ContextSize,
		WindowWidth: s.WindowWidth,
	}
}

// AggregationOptions maps the spec's thresholds onto aggregator options.
func (s Spec) AggregationOptions() aggregation.Options {
	return aggregation.Options{MinConfidence: s.MinConfidence}
}

// Validate checks the spec against the known strategies, versions, and
// roles. Failures are ConfigurationErrors and fatal at load time.
func (s Spec) Validate() error {
	if s.Key == "" {
		return &ConfigurationError{Reason: "classifier key is empty"}
	}
	if !s.Version.Valid() {
		return &ConfigurationError{Reason: fmt.Sprintf("classifier %q: unknown version %q", s.Key, s.Version)}
	}
	if !s.Chunker.Valid() {
		return &ConfigurationError{Reason: fmt.Sprintf("classifier %q: unknown chunking strategy %q", s.Key, s.Chunker)}
	}
	for _, role := range s.Roles {
		if !role.Valid() {
			return &ConfigurationError{Reason: fmt.Sprintf("classifier %q: unknown role %q", s.Key, role)}
		}
	}
	if s.Prompt == "" {
		return &ConfigurationError{Reason: fmt.Sprintf("classifier %q: prompt is empty", s.Key)}
	}
	if s.Version == VersionV2 && len(s.Criteria) == 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("classifier %q: v2 classifier has no criteria", s.Key)}
	}
	return nil
}
