// ABOUTME: CLI command running the two-wave hierarchical classification
// ABOUTME: Top-level classifiers gate which sub-classifiers run per conversation
package commands

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/harper/emoclassify/internal/aggregation"
	"github.com/harper/emoclassify/internal/classifier"
	"github.com/harper/emoclassify/internal/config"
	"github.com/harper/emoclassify/internal/hierarchy"
	"github.com/harper/emoclassify/internal/jsonl"
	"github.com/harper/emoclassify/internal/runner"
	"github.com/joho/godotenv"
)

var (
	hierarchyInput       string
	hierarchyOutput      string
	hierarchyGraph       string
	hierarchyAggregation string
	hierarchyRaw         bool
)

// NewHierarchyCmd creates the hierarchy command
func NewHierarchyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchy",
		Short: "Run hierarchical classification over a conversation batch",
		Long: `Run the two-wave hierarchical pipeline over each conversation.

Wave one runs the coarse top-level classifiers and aggregates under ANY.
The dependency graph then selects which sub-classifiers run in wave two;
a conversation where no top-level classifier fires skips wave two
entirely. Both tiers appear in the output.

Examples:
  emoclassify hierarchy --input convs.jsonl --output out.jsonl
  emoclassify hierarchy --aggregation all --graph custom_dependency.json --input convs.jsonl --output out.jsonl`,
		RunE: runHierarchy,
	}

	cmd.Flags().StringVar(&hierarchyInput, "input", "", "Input JSONL conversation file (required)")
	cmd.Flags().StringVar(&hierarchyOutput, "output", "", "Output JSONL result file (required)")
	cmd.Flags().StringVar(&hierarchyGraph, "graph", "", "Custom dependency graph file (defaults to embedded v1 graph)")
	cmd.Flags().StringVar(&hierarchyAggregation, "aggregation", string(aggregation.PolicyAny), "Aggregation policy for sub-classifiers (any, all, adjusted, expected)")
	cmd.Flags().BoolVar(&hierarchyRaw, "raw", false, "Include raw per-chunk verdicts in output")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runHierarchy(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	topRegistry, err := classifier.LoadSet(classifier.SetV1TopLevel)
	if err != nil {
		return err
	}
	subRegistry, err := classifier.LoadSet(classifier.SetV1)
	if err != nil {
		return err
	}

	graph, err := loadGraph(hierarchyGraph)
	if err != nil {
		return err
	}
	// Bad graph references are fatal before any conversation is touched.
	if err := graph.Validate(topRegistry, subRegistry); err != nil {
		return err
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return err
	}

	topLevel, err := topRegistry.Bind(completer)
	if err != nil {
		return err
	}
	subs, err := subRegistry.Bind(completer)
	if err != nil {
		return err
	}

	convs, err := jsonl.LoadConversations(hierarchyInput)
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Options{
		Policy:       aggregation.Policy(hierarchyAggregation),
		AvgNumChunks: cfg.AvgNumChunks,
		IncludeRaw:   hierarchyRaw,
	})
	if err != nil {
		return err
	}

	if !quiet {
		log.Printf("running %d conversations with %d top-level and %d sub-classifiers",
			len(convs), topRegistry.Len(), subRegistry.Len())
	}

	records, summary, err := r.RunHierarchical(cmd.Context(), convs, topLevel, subs, graph)
	if err != nil {
		return err
	}

	if err := jsonl.SaveRecords(hierarchyOutput, records); err != nil {
		return err
	}

	if !quiet {
		printSummary(cmd, summary, hierarchyOutput)
	}
	return nil
}

func loadGraph(path string) (*hierarchy.Graph, error) {
	if path == "" {
		return hierarchy.LoadDefault()
	}
	return hierarchy.LoadFile(path)
}
