// ABOUTME: Tests for the run orchestrator in flat and hierarchical modes
// ABOUTME: Asserts the gating short-circuit via completion call counts

package runner

import (
	"context"
	"sync"
	"testing"

	"github.com/harper/emoclassify/internal/aggregation"
	"github.com/harper/emoclassify/internal/classifier"
	"github.com/harper/emoclassify/internal/hierarchy"
	"github.com/harper/emoclassify/internal/llm"
	"github.com/harper/emoclassify/internal/models"
)

// fakeCompleter answers every completion with a fixed label and counts
// calls, so tests can assert which classifiers actually ran.
type fakeCompleter struct {
	mu       sync.Mutex
	calls    int
	response string
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.response, nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

const topDefs = `{
	"emotional_content": {"name": "Emotional Content", "version": "v1_top_level", "chunker": "whole", "prompt": "Does the conversation contain emotional content?"}
}`

const subDefs = `{
	"seeking_support": {"name": "Seeking Support", "version": "v1", "chunker": "per_message", "roles": ["user"], "prompt": "Is the user seeking emotional support?"},
	"empathy": {"name": "Empathy", "version": "v1", "chunker": "per_message", "roles": ["assistant"], "prompt": "Is the assistant expressing empathy?"}
}`

const graphDef = `{"dependency": {"emotional_content": ["seeking_support", "empathy"]}}`

func bindSet(t *testing.T, defs string, completer llm.Completer) map[string]*classifier.Classifier {
	t.Helper()
	registry, err := classifier.Parse([]byte(defs))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	classifiers, err := registry.Bind(completer)
	if err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	return classifiers
}

func loadGraph(t *testing.T) *hierarchy.Graph {
	t.Helper()
	graph, err := hierarchy.Parse([]byte(graphDef))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return graph
}

func sampleConvs() []models.Conversation {
	return []models.Conversation{
		{
			{Role: models.RoleUser, Content: "I feel terrible about today."},
			{Role: models.RoleAssistant, Content: "That sounds hard. Want to talk about it?"},
		},
		{
			{Role: models.RoleUser, Content: "What's the capital of France?"},
			{Role: models.RoleAssistant, Content: "Paris."},
		},
	}
}

func TestNew_RejectsUnknownPolicy(t *testing.T) {
	if _, err := New(Options{Policy: "median"}); err == nil {
		t.Error("New() should reject an unknown aggregation policy")
	}
}

func TestRunSimple(t *testing.T) {
	completer := &fakeCompleter{response: `{"response": "yes"}`}
	classifiers := bindSet(t, subDefs, completer)

	r, err := New(Options{Policy: aggregation.PolicyAny, IncludeRaw: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	records, summary, err := r.RunSimple(context.Background(), sampleConvs(), classifiers)
	if err != nil {
		t.Fatalf("RunSimple() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want one per conversation", len(records))
	}
	// Every classifier runs over every conversation: 2 convs x 2
	// classifiers x 1 matching message each.
	if completer.callCount() != 4 {
		t.Errorf("completer called %d times, want 4", completer.callCount())
	}
	if summary.Conversations != 2 || summary.Classifications != 4 {
		t.Errorf("summary = %+v, want 2 conversations and 4 classifications", summary)
	}

	for i, rec := range records {
		if rec.Conversation != i {
			t.Errorf("record %d has conversation index %d", i, rec.Conversation)
		}
		if rec.RunID == "" || rec.RunID != records[0].RunID {
			t.Error("records should share one non-empty run ID")
		}
		for name, entry := range rec.Results {
			if !entry.Aggregated.Positive {
				t.Errorf("conversation %d %s = %+v, want positive", i, name, entry.Aggregated)
			}
			if len(entry.Raw) != 1 {
				t.Errorf("conversation %d %s raw verdicts = %v, want one chunk", i, name, entry.Raw)
			}
		}
	}
}

func TestRunHierarchical_ShortCircuit(t *testing.T) {
	// The top-level classifier answers no, so the gate never opens and the
	// sub-classifiers are never invoked.
	completer := &fakeCompleter{response: `{"response": "no"}`}
	topLevel := bindSet(t, topDefs, completer)
	subs := bindSet(t, subDefs, completer)

	r, err := New(Options{Policy: aggregation.PolicyAny})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	records, _, err := r.RunHierarchical(context.Background(), sampleConvs()[:1], topLevel, subs, loadGraph(t))
	if err != nil {
		t.Fatalf("RunHierarchical() error = %v", err)
	}

	// One call for the whole-conversation top-level chunk, none for subs.
	if completer.callCount() != 1 {
		t.Errorf("completer called %d times, want 1 (gate closed)", completer.callCount())
	}
	rec := records[0]
	if len(rec.Results) != 0 {
		t.Errorf("gated-off record has sub-results %v, want none", rec.Results)
	}
	entry, ok := rec.TopLevel["emotional_content"]
	if !ok {
		t.Fatal("top-level verdict missing from record")
	}
	if entry.Aggregated.Positive {
		t.Error("top-level verdict should be negative")
	}
}

func TestRunHierarchical_GateOpens(t *testing.T) {
	completer := &fakeCompleter{response: `{"response": "yes"}`}
	topLevel := bindSet(t, topDefs, completer)
	subs := bindSet(t, subDefs, completer)

	r, err := New(Options{Policy: aggregation.PolicyAny})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	records, summary, err := r.RunHierarchical(context.Background(), sampleConvs()[:1], topLevel, subs, loadGraph(t))
	if err != nil {
		t.Fatalf("RunHierarchical() error = %v", err)
	}

	// One top-level call, then one per matching message per gated
	// sub-classifier.
	if completer.callCount() != 3 {
		t.Errorf("completer called %d times, want 3", completer.callCount())
	}
	rec := records[0]
	for _, name := range []string{"seeking_support", "empathy"} {
		entry, ok := rec.Results[name]
		if !ok {
			t.Fatalf("fired gate did not run %s", name)
		}
		if !entry.Aggregated.Positive {
			t.Errorf("%s = %+v, want positive", name, entry.Aggregated)
		}
	}
	if summary.Classifications != 3 {
		t.Errorf("summary.Classifications = %d, want 3", summary.Classifications)
	}
}

func TestRunHierarchical_UnresolvedSurfaced(t *testing.T) {
	// Garbage output parses nowhere: the top-level chunk degrades to
	// unresolved, the gate stays closed, and the record reports the count.
	completer := &fakeCompleter{response: "hmm, hard to say"}
	topLevel := bindSet(t, topDefs, completer)
	subs := bindSet(t, subDefs, completer)

	r, err := New(Options{Policy: aggregation.PolicyAny})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	records, summary, err := r.RunHierarchical(context.Background(), sampleConvs()[:1], topLevel, subs, loadGraph(t))
	if err != nil {
		t.Fatalf("RunHierarchical() error = %v", err)
	}
	if records[0].Unresolved != 1 {
		t.Errorf("record.Unresolved = %d, want 1", records[0].Unresolved)
	}
	if summary.Unresolved != 1 {
		t.Errorf("summary.Unresolved = %d, want 1", summary.Unresolved)
	}
	if len(records[0].Results) != 0 {
		t.Error("unresolved top-level verdict must not open the gate")
	}
}
