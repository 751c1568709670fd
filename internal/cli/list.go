package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Queries string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the query catalogue",
		Long: `List every catalogue query in battery order: id, category, row limit,
and label.

Example:
  hodq list
  hodq list --queries ./my-battery --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Queries, "queries", "", "directory of CUE query files replacing the embedded battery")

	return cmd
}

// listEntry is the JSON shape of one catalogue row.
type listEntry struct {
	ID       string `json:"id"`
	Seq      int    `json:"seq"`
	Category string `json:"category"`
	Label    string `json:"label"`
	RowLimit int    `json:"row_limit"`
	Summary  bool   `json:"summary"`
}

func listCatalog(opts *ListOptions, cmd *cobra.Command) error {
	cat, err := loadCatalog(opts.Queries)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		entries := make([]listEntry, 0, cat.Len())
		for _, q := range cat.Queries() {
			entries = append(entries, listEntry{
				ID:       q.ID,
				Seq:      q.Seq,
				Category: q.Category,
				Label:    q.Label,
				RowLimit: q.RowLimit,
				Summary:  q.Summary != nil,
			})
		}
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
		return formatter.Success(entries)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tLIMIT\tLABEL")
	for _, q := range cat.Queries() {
		limit := fmt.Sprintf("%d", q.RowLimit)
		if q.RowLimit == 0 {
			limit = "all"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.ID, q.Category, limit, q.Label)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d queries in %d categories\n", cat.Len(), len(cat.Categories()))
	return nil
}
