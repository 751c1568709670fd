package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hodq/hodq/internal/catalog"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Queries string
	Strict  bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalogue and audit query prefixes",
		Long: `Load the catalogue and audit every query for silent-failure pitfalls:
a declared prefix bound to the wrong namespace IRI, or a prefixed name
used without any declaration.

Mismatched namespace bindings are errors and exit 1. Undeclared-prefix
warnings exit 0 unless --strict is given; the shipped battery preserves
a few such constructs from its source.

Example:
  hodq validate
  hodq validate --queries ./my-battery --strict`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Queries, "queries", "", "directory of CUE query files replacing the embedded battery")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat warnings as failures")

	return cmd
}

func validateCatalog(opts *ValidateOptions, cmd *cobra.Command) error {
	cat, err := loadCatalog(opts.Queries)
	if err != nil {
		return err
	}

	findings := catalog.Audit(cat)

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		data := map[string]any{
			"queries":  cat.Len(),
			"findings": findings,
		}
		if err := formatter.Success(data); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, f := range findings {
			fmt.Fprintf(out, "%s: %s: %s\n", f.Severity, f.QueryID, f.Message)
		}
		errors, warnings := 0, 0
		for _, f := range findings {
			if f.Severity == catalog.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
		fmt.Fprintf(out, "%d queries audited: %d errors, %d warnings\n", cat.Len(), errors, warnings)
	}

	if catalog.HasErrors(findings) {
		return NewExitError(ExitFailure, "catalogue audit found errors")
	}
	if opts.Strict && len(findings) > 0 {
		return NewExitError(ExitFailure, "catalogue audit found warnings (strict mode)")
	}
	return nil
}
