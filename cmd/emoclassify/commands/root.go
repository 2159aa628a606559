// ABOUTME: Root CLI command with global flags
// ABOUTME: Registers classify, hierarchy, classifiers, mcp, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emoclassify",
		Short: "Classify affective cues in chatbot conversations",
		Long: `emoclassify — affective cue classification for chatbot conversations

Splits conversations into chunks, classifies each chunk with an LLM, and
aggregates per-chunk verdicts into conversation-level labels. Supports a
flat mode running every classifier and a hierarchical mode where coarse
top-level classifiers gate which fine-grained classifiers run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, json, table)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewClassifyCmd())
	cmd.AddCommand(NewHierarchyCmd())
	cmd.AddCommand(NewClassifiersCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
