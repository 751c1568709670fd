package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hodq/hodq/internal/runner"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Queries  string
	Endpoint string
	Limit    int
	Timeout  time.Duration
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <ontology> <id>",
		Short: "Run a single catalogue query",
		Long: `Run one catalogue query by id against an ontology file.

Unlike run, an engine failure here exits non-zero: a single-query
invocation has nothing else to report.

Example:
  hodq query ontology/hospital.owl val-17
  hodq query --limit 50 ontology/hospital.owl ont-2`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingleQuery(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Queries, "queries", "", "directory of CUE query files replacing the embedded battery")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "remote SPARQL endpoint URL (default: in-process engine)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "override the query's row limit")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "query timeout (0 disables)")

	return cmd
}

func runSingleQuery(opts *QueryOptions, ontologyPath, id string, cmd *cobra.Command) error {
	cat, err := loadCatalog(opts.Queries)
	if err != nil {
		return err
	}
	spec, ok := cat.Get(id)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("no catalogue query with id %q", id))
	}

	g, err := loadGraph(ontologyPath)
	if err != nil {
		return err
	}
	eng, err := buildEngine(g, opts.Endpoint, opts.Timeout)
	if err != nil {
		return err
	}

	var reportOut io.Writer = cmd.OutOrStdout()
	if opts.Format == "json" {
		reportOut = io.Discard
	}
	run := &runner.Runner{
		Engine:  eng,
		Out:     reportOut,
		Timeout: opts.Timeout,
		Limit:   opts.Limit,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rows, runErr := run.ExecuteAndReport(ctx, spec)

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		data := map[string]any{
			"id":       spec.ID,
			"category": spec.Category,
			"label":    spec.Label,
			"rows":     rows,
		}
		if runErr != nil {
			data["error"] = runErr.Error()
		}
		if err := formatter.Success(data); err != nil {
			return err
		}
	}

	if runErr != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("query %s failed", spec.ID), runErr)
	}
	return nil
}
