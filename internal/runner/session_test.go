package runner

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hodq/hodq/internal/catalog"
	"github.com/hodq/hodq/internal/engine"
	"github.com/hodq/hodq/internal/ontology"
)

// scriptedEngine plays back one outcome per query, in call order.
type scriptedEngine struct {
	outcomes []scriptedOutcome
	calls    int
}

type scriptedOutcome struct {
	rows []engine.Row
	err  error
}

func (e *scriptedEngine) Query(ctx context.Context, query string) (engine.ResultSet, error) {
	if e.calls >= len(e.outcomes) {
		return engine.NewResultSet(nil), nil
	}
	o := e.outcomes[e.calls]
	e.calls++
	if o.err != nil {
		return nil, o.err
	}
	return engine.NewResultSet(o.rows), nil
}

func testCatalog(t *testing.T, specs []catalog.QuerySpec) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(specs)
	require.NoError(t, err)
	return cat
}

func TestSessionIsolatesFailures(t *testing.T) {
	cat := testCatalog(t, []catalog.QuerySpec{
		{ID: "a", Seq: 1, Category: "clinical", Label: "A", Text: "q", RowLimit: 10},
		{ID: "b", Seq: 2, Category: "clinical", Label: "B", Text: "q", RowLimit: 10},
		{ID: "c", Seq: 11, Category: "staff", Label: "C", Text: "q", RowLimit: 10},
	})
	eng := &scriptedEngine{outcomes: []scriptedOutcome{
		{rows: []engine.Row{statusRow("Completed", 1)}},
		{err: engine.NewSyntaxError(errors.New("unbalanced parentheses"))},
		{rows: nil},
	}}

	buf := &bytes.Buffer{}
	session := &Session{
		Runner:   &Runner{Engine: eng, Out: buf},
		Catalog:  cat,
		Ontology: "hospital.owl",
		Stats:    ontology.Stats{Triples: 100},
	}

	report := session.Run(context.Background())

	// The failing query does not stop the battery.
	assert.Equal(t, 3, report.Executed())
	assert.Equal(t, 1, report.Failures())
	assert.Equal(t, []string{"b"}, report.FailedIDs)

	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, "ok", report.Outcomes[0].Status)
	assert.Equal(t, 1, report.Outcomes[0].Rows)
	assert.Equal(t, "failed", report.Outcomes[1].Status)
	assert.Equal(t, -1, report.Outcomes[1].Rows)
	assert.Contains(t, report.Outcomes[1].Error, "SYNTAX_ERROR")
	assert.Equal(t, "ok", report.Outcomes[2].Status)
	assert.Equal(t, 0, report.Outcomes[2].Rows)

	assert.Equal(t, []CategoryTally{
		{Category: "clinical", Run: 2, Failed: 1},
		{Category: "staff", Run: 1, Failed: 0},
	}, report.Categories)

	out := buf.String()
	assert.Contains(t, out, "CLINICAL QUERIES")
	assert.Contains(t, out, "STAFF QUERIES")
	assert.Contains(t, out, "BATTERY COMPLETE - 3 queries executed, 1 failed")
	assert.Contains(t, out, "Failed queries: b")
	assert.Contains(t, out, "Validation Status: COMPLETE")
}

func TestSessionReportStats(t *testing.T) {
	cat := testCatalog(t, []catalog.QuerySpec{
		{ID: "a", Seq: 1, Category: "analytics", Label: "A", Text: "q"},
	})
	buf := &bytes.Buffer{}
	stats := ontology.Stats{Triples: 1523, Classes: 40, Properties: 65, Individuals: 210}
	session := &Session{
		Runner:   &Runner{Engine: &scriptedEngine{}, Out: buf},
		Catalog:  cat,
		Ontology: "hospital.owl",
		Stats:    stats,
	}

	report := session.Run(context.Background())
	assert.Equal(t, stats, report.Stats)
	assert.Equal(t, "hospital.owl", report.Ontology)
	assert.False(t, report.Started.IsZero())

	out := buf.String()
	assert.Contains(t, out, "Total Triples: 1523")
	assert.Contains(t, out, "Classes: 40")
	assert.Contains(t, out, "Properties: 65")
	assert.Contains(t, out, "Individuals: 210")
	assert.Contains(t, out, "Queries Executed: 1")
}

func TestSessionReportGolden(t *testing.T) {
	cat := testCatalog(t, []catalog.QuerySpec{
		{
			ID: "status", Seq: 1, Category: "analytics",
			Label: "Appointment analysis by status", Text: "q", RowLimit: 0,
			Summary: &catalog.Summary{
				Field:       "count",
				Reducer:     catalog.ReducerRatio,
				Label:       "Problem rate (cancellations/no-shows)",
				MatchField:  "status",
				MatchValues: []string{"Cancelled", "No-show"},
				Percent:     true,
			},
		},
		{
			ID: "wards", Seq: 11, Category: "clinical",
			Label: "Ward occupancy", Text: "q", RowLimit: 10,
		},
	})
	eng := &scriptedEngine{outcomes: []scriptedOutcome{
		{rows: []engine.Row{
			statusRow("Completed", 50),
			statusRow("Scheduled", 20),
			statusRow("Cancelled", 20),
			statusRow("No-show", 10),
		}},
		{rows: nil},
	}}

	buf := &bytes.Buffer{}
	session := &Session{
		Runner:   &Runner{Engine: eng, Out: buf},
		Catalog:  cat,
		Ontology: "hospital.owl",
		Stats:    ontology.Stats{Triples: 120, Classes: 10, Properties: 20, Individuals: 30},
	}
	session.Run(context.Background())

	g := goldie.New(t, goldie.WithFixtureDir(filepath.Join("testdata", "golden")))
	g.Assert(t, "session_report", buf.Bytes())
}
