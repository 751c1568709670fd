package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hodq/hodq/internal/catalog"
	"github.com/hodq/hodq/internal/ontology"
)

const sessionBannerWidth = 100

// QueryOutcome records how one battery query went.
type QueryOutcome struct {
	ID       string  `json:"id"`
	Seq      int     `json:"seq"`
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Status   string  `json:"status"` // "ok" | "failed"
	Rows     int     `json:"rows"`   // rows printed; -1 on failure
	Duration float64 `json:"duration_ms"`
	Error    string  `json:"error,omitempty"`
}

// CategoryTally counts outcomes per battery category.
type CategoryTally struct {
	Category string `json:"category"`
	Run      int    `json:"run"`
	Failed   int    `json:"failed"`
}

// Report is the session result: every outcome, the per-category tallies,
// and the ontology statistics printed at the end.
type Report struct {
	Started    time.Time       `json:"started"`
	Ontology   string          `json:"ontology"`
	Stats      ontology.Stats  `json:"stats"`
	Outcomes   []QueryOutcome  `json:"outcomes"`
	Categories []CategoryTally `json:"categories"`
	FailedIDs  []string        `json:"failed_ids,omitempty"`
}

// Executed returns the number of queries run.
func (r *Report) Executed() int { return len(r.Outcomes) }

// Failures returns the number of failed queries.
func (r *Report) Failures() int { return len(r.FailedIDs) }

// Session runs the full catalogue in order against one engine. Per-query
// failures are isolated: the battery always runs to the end and the final
// summary always prints.
type Session struct {
	Runner   *Runner
	Catalog  *catalog.Catalog
	Ontology string
	Stats    ontology.Stats
}

// Run executes the battery and prints the closing summary. The returned
// report carries the same facts for JSON output and the history log.
func (s *Session) Run(ctx context.Context) *Report {
	report := &Report{
		Started:  time.Now().UTC(),
		Ontology: s.Ontology,
		Stats:    s.Stats,
	}

	tallies := make(map[string]*CategoryTally)
	currentCategory := ""
	for _, spec := range s.Catalog.Queries() {
		if spec.Category != currentCategory {
			currentCategory = spec.Category
			s.printCategoryHeader(spec.Category)
		}

		start := time.Now()
		rows, err := s.Runner.ExecuteAndReport(ctx, spec)
		outcome := QueryOutcome{
			ID:       spec.ID,
			Seq:      spec.Seq,
			Category: spec.Category,
			Label:    spec.Label,
			Status:   "ok",
			Rows:     rows,
			Duration: float64(time.Since(start).Microseconds()) / 1000,
		}
		if err != nil {
			outcome.Status = "failed"
			outcome.Error = err.Error()
			report.FailedIDs = append(report.FailedIDs, spec.ID)
		}
		report.Outcomes = append(report.Outcomes, outcome)

		t, ok := tallies[spec.Category]
		if !ok {
			t = &CategoryTally{Category: spec.Category}
			tallies[spec.Category] = t
		}
		t.Run++
		if err != nil {
			t.Failed++
		}
	}

	for _, cat := range s.Catalog.Categories() {
		if t, ok := tallies[cat]; ok {
			report.Categories = append(report.Categories, *t)
		}
	}

	s.printSummary(report)
	return report
}

func (s *Session) printCategoryHeader(category string) {
	out := s.Runner.Out
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", sessionBannerWidth))
	fmt.Fprintf(out, "%s QUERIES\n", strings.ToUpper(category))
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", sessionBannerWidth))
}

func (s *Session) printSummary(report *Report) {
	out := s.Runner.Out
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", sessionBannerWidth))
	fmt.Fprintf(out, "BATTERY COMPLETE - %d queries executed, %d failed\n",
		report.Executed(), report.Failures())
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", sessionBannerWidth))

	fmt.Fprintf(out, "\nResults by category:\n")
	for _, t := range report.Categories {
		fmt.Fprintf(out, "  %-16s %d run, %d failed\n", t.Category, t.Run, t.Failed)
	}
	if len(report.FailedIDs) > 0 {
		fmt.Fprintf(out, "\nFailed queries: %s\n", strings.Join(report.FailedIDs, ", "))
	}

	fmt.Fprintf(out, "\nONTOLOGY SUMMARY STATISTICS:\n")
	fmt.Fprintf(out, "Total Triples: %d\n", report.Stats.Triples)
	fmt.Fprintf(out, "Classes: %d\n", report.Stats.Classes)
	fmt.Fprintf(out, "Properties: %d\n", report.Stats.Properties)
	fmt.Fprintf(out, "Individuals: %d\n", report.Stats.Individuals)
	fmt.Fprintf(out, "Queries Executed: %d\n", report.Executed())
	fmt.Fprintf(out, "Validation Status: COMPLETE\n")
}
