package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hodq/hodq/internal/catalog"
	"github.com/hodq/hodq/internal/engine"
)

const (
	bannerWidth = 80
	columnWidth = 30
)

// Runner executes catalogue queries against an engine and writes the
// tabular report.
type Runner struct {
	Engine engine.Engine
	Out    io.Writer
	Logger *slog.Logger

	// Timeout bounds each query; zero means no deadline.
	Timeout time.Duration
	// Limit overrides every query's own row limit when positive.
	Limit int
}

// ExecuteAndReport runs one query and prints its result block: banner,
// rows up to the row limit, and the total line. It returns the number of
// rows printed. An engine failure is reported in the block itself and
// returned as (-1, err); the caller decides whether to continue.
func (r *Runner) ExecuteAndReport(ctx context.Context, spec catalog.QuerySpec) (int, error) {
	out := r.Out
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", bannerWidth))
	fmt.Fprintf(out, "QUERY: %s\n", spec.Label)
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", bannerWidth))

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	rs, err := r.Engine.Query(ctx, spec.Text)
	if err != nil {
		fmt.Fprintf(out, "ERROR executing query: %v\n", err)
		r.log().Warn("query failed", "id", spec.ID, "error", err)
		return -1, err
	}
	defer rs.Close()

	limit := spec.RowLimit
	if r.Limit > 0 {
		limit = r.Limit
	}

	var rows []engine.Row
	count := 0
	for rs.Next() {
		row := rs.Row()
		rows = append(rows, row)
		fmt.Fprintln(out, formatRow(row))
		count++
		if limit > 0 && count >= limit {
			fmt.Fprintln(out, "... (results limited)")
			break
		}
	}
	if err := rs.Err(); err != nil {
		fmt.Fprintf(out, "ERROR executing query: %v\n", err)
		r.log().Warn("query failed mid-stream", "id", spec.ID, "error", err)
		return -1, err
	}

	if count == 0 {
		fmt.Fprintln(out, "No results found")
	}
	fmt.Fprintf(out, "Total results: %d\n", count)

	if spec.Summary != nil {
		v, err := Summarize(rows, spec.Summary)
		if err != nil {
			r.log().Warn("summary skipped", "id", spec.ID, "error", err)
		} else {
			fmt.Fprintf(out, "%s: %s\n", spec.Summary.Label, FormatSummary(v, spec.Summary))
		}
	}

	return count, nil
}

func (r *Runner) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// formatRow renders one binding row: values in variable order, padded to a
// fixed column width and joined with " | ". Unbound variables render as an
// empty cell.
func formatRow(row engine.Row) string {
	cells := make([]string, 0, len(row.Vars))
	for _, name := range row.Vars {
		display := ""
		if v, ok := row.Get(name); ok {
			display = v.Display()
		}
		cells = append(cells, fmt.Sprintf("%-*s", columnWidth, display))
	}
	return strings.Join(cells, " | ")
}
