package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats <ontology>",
		Short: "Print ontology summary statistics",
		Long: `Load an ontology file and print its summary statistics: triples,
classes, properties, and individuals.

Example:
  hodq stats ontology/hospital.owl`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printStats(opts, args[0], cmd)
		},
	}

	return cmd
}

func printStats(opts *StatsOptions, path string, cmd *cobra.Command) error {
	g, err := loadGraph(path)
	if err != nil {
		return err
	}
	stats := g.Stats()

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return formatter.Success(stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Ontology: %s\n", path)
	fmt.Fprintf(out, "Total Triples: %d\n", stats.Triples)
	fmt.Fprintf(out, "Classes: %d\n", stats.Classes)
	fmt.Fprintf(out, "Properties: %d\n", stats.Properties)
	fmt.Fprintf(out, "Individuals: %d\n", stats.Individuals)
	return nil
}
