// ABOUTME: CLI command listing the classifiers in a definition set
// ABOUTME: Table or JSON output of name, version, chunker, and roles
package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/emoclassify/internal/classifier"
)

var (
	classifiersSet         string
	classifiersDefinitions string
)

// NewClassifiersCmd creates the classifiers command
func NewClassifiersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classifiers",
		Short: "List classifiers in a definition set",
		Long: `List the classifiers in a definition set with their chunking strategy
and role filter.

Examples:
  emoclassify classifiers
  emoclassify classifiers --set v2
  emoclassify classifiers --format json`,
		RunE: runClassifiers,
	}

	cmd.Flags().StringVar(&classifiersSet, "set", classifier.SetV1, "Classifier set (v1, v1_top_level, v2)")
	cmd.Flags().StringVar(&classifiersDefinitions, "definitions", "", "Custom classifier definition file (overrides --set)")

	return cmd
}

func runClassifiers(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry(classifiersSet, classifiersDefinitions)
	if err != nil {
		return err
	}

	if outputFormat == "json" {
		specs := make(map[string]classifier.Spec, registry.Len())
		for _, name := range registry.Names() {
			spec, _ := registry.Get(name)
			specs[name] = spec
		}
		jsonData, err := json.MarshalIndent(specs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "KEY\tNAME\tVERSION\tCHUNKER\tROLES\n")
	fmt.Fprintf(w, "---\t----\t-------\t-------\t-----\n")
	for _, name := range registry.Names() {
		spec, _ := registry.Get(name)
		roles := make([]string, len(spec.Roles))
		for i, r := range spec.Roles {
			roles[i] = string(r)
		}
		roleCol := strings.Join(roles, ",")
		if roleCol == "" {
			roleCol = "(all)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			name, truncate(spec.DisplayName(), 32), spec.Version, spec.Chunker, roleCol)
	}
	return w.Flush()
}
