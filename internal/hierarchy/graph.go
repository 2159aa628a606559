// ABOUTME: Static two-level dependency graph gating sub-classifiers
// ABOUTME: Resolves which sub-classifiers run from fired top-level verdicts
package hierarchy

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/harper/emoclassify/internal/classifier"
	"github.com/harper/emoclassify/internal/models"
	"github.com/samber/lo"
)

//go:embed definitions/*.json
var definitionFS embed.FS

const defaultGraphFile = "definitions/emoclassifiers_v1_dependency.json"

// Graph maps each top-level classifier name to the set of sub-classifier
// names it gates. The hierarchy is fixed at depth two: top-level
// classifiers gate sub-classifiers and nothing else. Loaded once at
// startup as immutable configuration.
type Graph struct {
	gated map[string][]string
}

type graphFile struct {
	Dependency map[string][]string `json:"dependency"`
}

// LoadDefault loads the embedded v1 dependency graph.
func LoadDefault() (*Graph, error) {
	data, err := definitionFS.ReadFile(defaultGraphFile)
	if err != nil {
		return nil, fmt.Errorf("reading embedded dependency graph: %w", err)
	}
	return Parse(data)
}

// LoadFile loads a custom dependency graph in the same JSON shape.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dependency graph: %w", err)
	}
	return Parse(data)
}

// Parse builds a graph from raw JSON and checks the depth-two invariant:
// no top-level classifier may appear as another's dependency.
func Parse(data []byte) (*Graph, error) {
	var file graphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &classifier.ConfigurationError{Reason: fmt.Sprintf("malformed dependency graph: %v", err)}
	}
	if len(file.Dependency) == 0 {
		return nil, &classifier.ConfigurationError{Reason: "dependency graph is empty"}
	}

	for top, subs := range file.Dependency {
		for _, sub := range subs {
			if _, isTop := file.Dependency[sub]; isTop {
				return nil, &classifier.ConfigurationError{
					Reason: fmt.Sprintf("top-level classifier %q gated by %q: hierarchy depth is fixed at two", sub, top),
				}
			}
		}
	}
	return &Graph{gated: file.Dependency}, nil
}

// Validate checks every name in the graph against the registries holding
// top-level and sub-classifier specs. Fatal at load time, before any
// conversation is processed.
func (g *Graph) Validate(topLevel, subs *classifier.Registry) error {
	for top, gated := range g.gated {
		if _, ok := topLevel.Get(top); !ok {
			return &classifier.ConfigurationError{Reason: fmt.Sprintf("dependency graph references unregistered top-level classifier %q", top)}
		}
		for _, sub := range gated {
			if _, ok := subs.Get(sub); !ok {
				return &classifier.ConfigurationError{Reason: fmt.Sprintf("dependency graph references unregistered sub-classifier %q", sub)}
			}
		}
	}
	return nil
}

// TopLevel returns the top-level classifier names in sorted order.
func (g *Graph) TopLevel() []string {
	names := lo.Keys(g.gated)
	sort.Strings(names)
	return names
}

// SubClassifiers returns every gated sub-classifier name, deduplicated and
// sorted.
func (g *Graph) SubClassifiers() []string {
	subs := lo.Uniq(lo.Flatten(lo.Values(g.gated)))
	sort.Strings(subs)
	return subs
}

// NextWave returns the sub-classifiers to run given aggregated top-level
// verdicts for one conversation: the union of the gated sets of every
// fired (positive) top-level classifier, deduplicated. If nothing fired
// the wave is empty and no sub-classifier runs for that conversation.
func (g *Graph) NextWave(topLevel map[string]models.AggregatedVerdict) []string {
	var wave []string
	for top, verdict := range topLevel {
		if !verdict.Positive {
			continue
		}
		wave = append(wave, g.gated[top]...)
	}
	if len(wave) == 0 {
		return nil
	}
	wave = lo.Uniq(wave)
	sort.Strings(wave)
	return wave
}
