// ABOUTME: Registry of classifier specs loaded from embedded definition sets
// ABOUTME: Built once at startup, validated at load, and passed by reference
package classifier

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/harper/emoclassify/internal/llm"
)

//go:embed definitions/*.json
var definitionFS embed.FS

// Definition set names selectable from the CLI.
const (
	SetV1         = "v1"
	SetV1TopLevel = "v1_top_level"
	SetV2         = "v2"
)

var setFiles = map[string]string{
	SetV1:         "definitions/emoclassifiers_v1.json",
	SetV1TopLevel: "definitions/emoclassifiers_v1_top_level.json",
	SetV2:         "definitions/emoclassifiers_v2.json",
}

// Registry holds a validated, immutable set of classifier specs. It is
// constructed once at startup and handed to the orchestrator explicitly;
// there is no ambient global lookup.
type Registry struct {
	specs map[string]Spec
}

// LoadSet loads one of the embedded definition sets.
func LoadSet(set string) (*Registry, error) {
	file, ok := setFiles[set]
	if !ok {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown classifier set %q", set)}
	}
	data, err := definitionFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading embedded definitions for set %q: %w", set, err)
	}
	return Parse(data)
}

// LoadFile loads a custom definition file in the same JSON shape as the
// embedded sets: a map from registry key to spec.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading classifier definitions: %w", err)
	}
	return Parse(data)
}

// Parse builds and validates a registry from raw definition JSON.
func Parse(data []byte) (*Registry, error) {
	var raw map[string]Spec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("malformed classifier definitions: %v", err)}
	}

	specs := make(map[string]Spec, len(raw))
	for key, spec := range raw {
		spec.Key = key
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		specs[key] = spec
	}
	return &Registry{specs: specs}, nil
}

// Names returns all registry keys in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the spec registered under key.
func (r *Registry) Get(key string) (Spec, bool) {
	spec, ok := r.specs[key]
	return spec, ok
}

// Len returns the number of registered specs.
func (r *Registry) Len() int { return len(r.specs) }

// Bind constructs an executable Classifier per spec, all sharing one
// completion collaborator (and therefore one concurrency cap).
func (r *Registry) Bind(completer llm.Completer) (map[string]*Classifier, error) {
	classifiers := make(map[string]*Classifier, len(r.specs))
	for key, spec := range r.specs {
		c, err := New(spec, completer)
		if err != nil {
			return nil, err
		}
		classifiers[key] = c
	}
	return classifiers, nil
}
