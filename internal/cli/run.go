package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hodq/hodq/internal/history"
	"github.com/hodq/hodq/internal/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Queries  string
	Database string
	Endpoint string
	Limit    int
	Timeout  time.Duration
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [ontology]",
		Short: "Run the full query battery against an ontology",
		Long: `Run the full competency-query battery against an ontology file.

The ontology is loaded once (format inferred from the extension), every
catalogue query executes in battery order, and the session closes with
per-category tallies and ontology statistics. A failing query is reported
in place and the battery continues; the exit code stays 0.

The ontology argument may be omitted when the config file sets one.

Example:
  hodq run ontology/hospital.owl
  hodq run --db ./hodq.db --limit 20 ontology/hospital.owl
  hodq run --endpoint http://localhost:3030/hospital/sparql ontology/hospital.owl`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runBattery(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Queries, "queries", "", "directory of CUE query files replacing the embedded battery")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite session log (disabled when empty)")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "remote SPARQL endpoint URL (default: in-process engine)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "override every query's row limit")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-query timeout (0 disables)")

	return cmd
}

func runBattery(opts *RunOptions, ontologyPath string, cmd *cobra.Command) error {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	applyRunConfig(opts, cfg, cmd)
	if ontologyPath == "" {
		ontologyPath = cfg.Ontology
	}
	if ontologyPath == "" {
		return NewExitError(ExitCommandError, "no ontology given: pass a path or set ontology in the config file")
	}

	cat, err := loadCatalog(opts.Queries)
	if err != nil {
		return err
	}
	slog.Info("catalogue ready", "queries", cat.Len())

	g, err := loadGraph(ontologyPath)
	if err != nil {
		return err
	}

	eng, err := buildEngine(g, opts.Endpoint, opts.Timeout)
	if err != nil {
		return err
	}

	// In JSON mode the per-query text report is suppressed; the session
	// report carries the same facts.
	var reportOut io.Writer = cmd.OutOrStdout()
	if opts.Format == "json" {
		reportOut = io.Discard
	}

	session := &runner.Session{
		Runner: &runner.Runner{
			Engine:  eng,
			Out:     reportOut,
			Timeout: opts.Timeout,
			Limit:   opts.Limit,
		},
		Catalog:  cat,
		Ontology: ontologyPath,
		Stats:    g.Stats(),
	}

	ctx := commandContext(cmd)
	report := session.Run(ctx)

	if opts.Database != "" {
		if err := recordSession(ctx, opts.Database, report); err != nil {
			// The battery already ran; a logging failure is not fatal.
			slog.Error("failed to record session", "error", err)
		}
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return formatter.Success(report)
	}
	return nil
}

// applyRunConfig fills in flag values from the config file for flags not set
// on the command line.
func applyRunConfig(opts *RunOptions, cfg *Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("queries") && cfg.Queries != "" {
		opts.Queries = cfg.Queries
	}
	if !flags.Changed("db") && cfg.Database != "" {
		opts.Database = cfg.Database
	}
	if !flags.Changed("endpoint") && cfg.Endpoint != "" {
		opts.Endpoint = cfg.Endpoint
	}
	if !flags.Changed("limit") && cfg.Limit > 0 {
		opts.Limit = cfg.Limit
	}
	if !flags.Changed("timeout") && cfg.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
}

// recordSession appends the report to the session log.
func recordSession(ctx context.Context, path string, report *runner.Report) error {
	st, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing session log", "error", closeErr)
		}
	}()

	id, err := st.RecordSession(ctx, report)
	if err != nil {
		return err
	}
	slog.Info("session recorded", "id", id, "db", path)
	return nil
}

// commandContext returns the command's context with SIGINT/SIGTERM wired to
// cancellation, so a long battery can be interrupted cleanly.
func commandContext(cmd *cobra.Command) context.Context {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	// The battery finishes or is cancelled; either way the handler is done.
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx
}
