// ABOUTME: Orchestrator running classifier sets over conversation batches
// ABOUTME: Simple mode runs everything; hierarchical mode gates wave two
package runner

import (
	"context"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/harper/emoclassify/internal/aggregation"
	"github.com/harper/emoclassify/internal/classifier"
	"github.com/harper/emoclassify/internal/hierarchy"
	"github.com/harper/emoclassify/internal/models"
	"golang.org/x/sync/errgroup"
)

// ClassifierResult is one classifier's output for one conversation: the
// aggregated verdict plus, when requested, the raw per-chunk verdicts.
type ClassifierResult struct {
	Aggregated models.AggregatedVerdict  `json:"aggregated"`
	Raw        map[string]models.Verdict `json:"raw,omitempty"`
}

// Record is one output line: all classifier results for one conversation.
// In hierarchical mode the gating tier is reported separately so callers
// can tell a gated-off sub-classifier from a negative one.
type Record struct {
	RunID        string                      `json:"run_id"`
	Conversation int                         `json:"conversation"`
	TopLevel     map[string]ClassifierResult `json:"top_level,omitempty"`
	Results      map[string]ClassifierResult `json:"results"`
	Unresolved   int                         `json:"unresolved,omitempty"`
}

// Summary reports run totals. Unresolved chunks are surfaced here so
// degraded results are detectable, never silently dropped.
type Summary struct {
	Conversations   int
	Classifications int
	Chunks          int
	Unresolved      int
}

// Options configures a run.
type Options struct {
	// Policy is the aggregation policy applied to (sub-)classifier
	// results. Top-level gating always uses ANY.
	Policy aggregation.Policy
	// AvgNumChunks feeds the expected-ANY policy.
	AvgNumChunks int
	// IncludeRaw carries per-chunk verdicts into the output records.
	IncludeRaw bool
}

// Runner orchestrates classification runs. It holds no per-conversation
// state; every run produces fresh records.
type Runner struct {
	opts Options
}

// New builds a Runner.
func New(opts Options) (*Runner, error) {
	if !opts.Policy.Valid() {
		return nil, &classifier.ConfigurationError{Reason: "unknown aggregation policy " + strconv.Quote(string(opts.Policy))}
	}
	return &Runner{opts: opts}, nil
}

// RunSimple runs every classifier over every conversation independently.
// All (conversation, classifier) pairs are launched concurrently and
// joined before records are assembled.
func (r *Runner) RunSimple(ctx context.Context, convs []models.Conversation, classifiers map[string]*classifier.Classifier) ([]Record, Summary, error) {
	names := sortedNames(classifiers)
	runID := uuid.New().String()

	// Per-pair slots; each goroutine writes only its own.
	cells := make([][]ClassifierResult, len(convs))
	for i := range cells {
		cells[i] = make([]ClassifierResult, len(names))
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, conv := range convs {
		for j, name := range names {
			c := classifiers[name]
			g.Go(func() error {
				entry, err := r.classifyAndAggregate(gctx, c, conv)
				if err != nil {
					return err
				}
				cells[i][j] = entry
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	records := make([]Record, len(convs))
	for i := range convs {
		rec := Record{RunID: runID, Conversation: i, Results: make(map[string]ClassifierResult, len(names))}
		for j, name := range names {
			rec.Results[name] = cells[i][j]
			rec.Unresolved += cells[i][j].Aggregated.Unresolved
		}
		records[i] = rec
	}
	return records, summarize(records), nil
}

// RunHierarchical runs the two-wave pipeline per conversation: the
// top-level classifiers complete and aggregate first, the dependency graph
// picks the second wave, and only those sub-classifiers run. Wave
// membership is computed independently per conversation.
func (r *Runner) RunHierarchical(ctx context.Context, convs []models.Conversation, topLevel, subs map[string]*classifier.Classifier, graph *hierarchy.Graph) ([]Record, Summary, error) {
	runID := uuid.New().String()
	records := make([]Record, len(convs))

	g, gctx := errgroup.WithContext(ctx)
	for i, conv := range convs {
		g.Go(func() error {
			rec, err := r.runConversation(gctx, conv, topLevel, subs, graph)
			if err != nil {
				return err
			}
			rec.RunID = runID
			rec.Conversation = i
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}
	return records, summarize(records), nil
}

func (r *Runner) runConversation(ctx context.Context, conv models.Conversation, topLevel, subs map[string]*classifier.Classifier, graph *hierarchy.Graph) (Record, error) {
	rec := Record{
		TopLevel: make(map[string]ClassifierResult, len(topLevel)),
		Results:  make(map[string]ClassifierResult),
	}

	// Wave one: all top-level classifiers, joined before anything else.
	// Gating always aggregates under ANY so a single fired chunk is
	// enough to open the gate.
	topNames := sortedNames(topLevel)
	topCells := make([]ClassifierResult, len(topNames))
	g, gctx := errgroup.WithContext(ctx)
	for j, name := range topNames {
		c := topLevel[name]
		g.Go(func() error {
			result, err := c.ClassifyConversation(gctx, conv)
			if err != nil {
				return err
			}
			topCells[j] = r.buildEntry(c.Spec(), result, aggregation.PolicyAny)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Record{}, err
	}

	fired := make(map[string]models.AggregatedVerdict, len(topNames))
	for j, name := range topNames {
		rec.TopLevel[name] = topCells[j]
		rec.Unresolved += topCells[j].Aggregated.Unresolved
		fired[name] = topCells[j].Aggregated
	}

	// Wave two: only the gated sub-classifiers. An empty wave is the
	// short-circuit that makes hierarchical mode cheaper than flat mode.
	wave := graph.NextWave(fired)
	waveCells := make([]ClassifierResult, len(wave))
	g, gctx = errgroup.WithContext(ctx)
	for j, name := range wave {
		c, ok := subs[name]
		if !ok {
			return Record{}, &classifier.ConfigurationError{Reason: "dependency graph selected unknown sub-classifier " + strconv.Quote(name)}
		}
		g.Go(func() error {
			entry, err := r.classifyAndAggregate(gctx, c, conv)
			if err != nil {
				return err
			}
			waveCells[j] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Record{}, err
	}

	for j, name := range wave {
		rec.Results[name] = waveCells[j]
		rec.Unresolved += waveCells[j].Aggregated.Unresolved
	}
	return rec, nil
}

func (r *Runner) classifyAndAggregate(ctx context.Context, c *classifier.Classifier, conv models.Conversation) (ClassifierResult, error) {
	result, err := c.ClassifyConversation(ctx, conv)
	if err != nil {
		return ClassifierResult{}, err
	}
	return r.buildEntry(c.Spec(), result, r.opts.Policy), nil
}

// buildEntry aggregates one ClassificationResult under the given policy.
// The policy error path is unreachable here because Options.Policy is
// validated in New.
func (r *Runner) buildEntry(spec classifier.Spec, result models.ClassificationResult, policy aggregation.Policy) ClassifierResult {
	opts := spec.AggregationOptions()
	opts.AvgNumChunks = r.opts.AvgNumChunks
	aggregated, err := aggregation.Aggregate(result, policy, opts)
	if err != nil {
		aggregated = models.AggregatedVerdict{Unresolved: len(result)}
	}

	entry := ClassifierResult{Aggregated: aggregated}
	if r.opts.IncludeRaw {
		entry.Raw = make(map[string]models.Verdict, len(result))
		for _, id := range result.ChunkIDs() {
			entry.Raw[strconv.Itoa(id)] = result[id]
		}
	}
	return entry
}

func sortedNames(classifiers map[string]*classifier.Classifier) []string {
	names := make([]string, 0, len(classifiers))
	for name := range classifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func summarize(records []Record) Summary {
	s := Summary{Conversations: len(records)}
	for _, rec := range records {
		s.Unresolved += rec.Unresolved
		s.Classifications += len(rec.TopLevel) + len(rec.Results)
		for _, entry := range rec.TopLevel {
			s.Chunks += entry.Aggregated.Positives + entry.Aggregated.Negatives + entry.Aggregated.Unresolved
		}
		for _, entry := range rec.Results {
			s.Chunks += entry.Aggregated.Positives + entry.Aggregated.Negatives + entry.Aggregated.Unresolved
		}
	}
	return s
}
