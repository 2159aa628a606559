// ABOUTME: CLI command running every classifier in a set over a JSONL batch
// ABOUTME: Flat mode: no gating, one aggregated verdict per classifier
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harper/emoclassify/internal/aggregation"
	"github.com/harper/emoclassify/internal/classifier"
	"github.com/harper/emoclassify/internal/config"
	"github.com/harper/emoclassify/internal/jsonl"
	"github.com/harper/emoclassify/internal/runner"
	"github.com/joho/godotenv"
)

var (
	classifyInput       string
	classifyOutput      string
	classifySet         string
	classifyDefinitions string
	classifyAggregation string
	classifyRaw         bool
)

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Run a classifier set over a conversation batch",
		Long: `Run every classifier in a set over each conversation in a JSONL file.

Each input line is one conversation (a message array, or an object with a
"conversation" or "messages" field). Each output line holds the aggregated
verdict per classifier, plus raw per-chunk verdicts with --raw.

Examples:
  emoclassify classify --input convs.jsonl --output out.jsonl
  emoclassify classify --set v2 --aggregation adjusted --input convs.jsonl --output out.jsonl
  emoclassify classify --definitions my_classifiers.json --input convs.jsonl --output out.jsonl`,
		RunE: runClassify,
	}

	cmd.Flags().StringVar(&classifyInput, "input", "", "Input JSONL conversation file (required)")
	cmd.Flags().StringVar(&classifyOutput, "output", "", "Output JSONL result file (required)")
	cmd.Flags().StringVar(&classifySet, "set", classifier.SetV1, "Classifier set (v1, v1_top_level, v2)")
	cmd.Flags().StringVar(&classifyDefinitions, "definitions", "", "Custom classifier definition file (overrides --set)")
	cmd.Flags().StringVar(&classifyAggregation, "aggregation", string(aggregation.PolicyAny), "Aggregation policy (any, all, adjusted, expected)")
	cmd.Flags().BoolVar(&classifyRaw, "raw", false, "Include raw per-chunk verdicts in output")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	registry, err := loadRegistry(classifySet, classifyDefinitions)
	if err != nil {
		return err
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return err
	}

	classifiers, err := registry.Bind(completer)
	if err != nil {
		return err
	}

	convs, err := jsonl.LoadConversations(classifyInput)
	if err != nil {
		return err
	}

	r, err := runner.New(runner.Options{
		Policy:       aggregation.Policy(classifyAggregation),
		AvgNumChunks: cfg.AvgNumChunks,
		IncludeRaw:   classifyRaw,
	})
	if err != nil {
		return err
	}

	if !quiet {
		log.Printf("classifying %d conversations with %d classifiers", len(convs), registry.Len())
	}

	records, summary, err := r.RunSimple(cmd.Context(), convs, classifiers)
	if err != nil {
		return err
	}

	if err := jsonl.SaveRecords(classifyOutput, records); err != nil {
		return err
	}

	if !quiet {
		printSummary(cmd, summary, classifyOutput)
	}
	return nil
}

func printSummary(cmd *cobra.Command, s runner.Summary, outputPath string) {
	fmt.Fprintf(cmd.OutOrStdout(), "Classified %d conversations (%d classifications, %d chunks)\n",
		s.Conversations, s.Classifications, s.Chunks)
	if s.Unresolved > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: %d chunks unresolved (transport or parse failures)\n", s.Unresolved)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved results to %s\n", outputPath)
}
