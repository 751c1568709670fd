// Package catalog holds the fixed battery of competency queries as
// declarative records. The ~49 query/print blocks of the original battery are
// configuration data, not control flow: each is one record in an ordered
// catalogue, and a single runner code path executes them all.
package catalog

import (
	"fmt"
	"sort"
)

// Reducer identifies a post-hoc aggregate over a query's fetched rows.
type Reducer string

const (
	// ReducerSum totals a numeric field across rows.
	ReducerSum Reducer = "sum"
	// ReducerAvg averages a numeric field across rows.
	ReducerAvg Reducer = "avg"
	// ReducerRatio divides the field total of matching rows by the field
	// total of all rows. A zero denominator yields 0 by policy.
	ReducerRatio Reducer = "ratio"
)

// Summary directs the runner to fold a numeric field of the result rows into
// one closing figure, e.g. the total cost of the listed treatments or the
// cancellation rate across appointment-status counts.
type Summary struct {
	// Field is the bound variable to accumulate.
	Field string
	// Reducer selects the fold.
	Reducer Reducer
	// Label captions the computed figure.
	Label string
	// MatchField/MatchValues restrict the ratio numerator to rows whose
	// MatchField displays as one of MatchValues. Only used by ReducerRatio.
	MatchField  string
	MatchValues []string
	// Percent renders the figure as a percentage with one fraction digit.
	Percent bool
	// Currency renders the figure as a dollar amount with two fraction digits.
	Currency bool
}

// QuerySpec is one competency query of the battery. Immutable once loaded.
type QuerySpec struct {
	// ID is the stable catalogue identifier, e.g. "val-17".
	ID string
	// Seq orders the battery; ascending and unique across the catalogue.
	Seq int
	// Category groups related queries for the session report.
	Category string
	// Label is the display header printed above the results.
	Label string
	// Text is the SPARQL query submitted verbatim to the engine.
	Text string
	// RowLimit caps printed rows. 0 means unlimited; the catalogue default
	// is 10.
	RowLimit int
	// Summary, when present, adds a closing aggregate line.
	Summary *Summary
}

// Catalog is the ordered battery.
type Catalog struct {
	queries []QuerySpec
}

// New builds a catalogue from specs, sorting by Seq. Duplicate ids or
// sequence numbers are rejected.
func New(specs []QuerySpec) (*Catalog, error) {
	ids := make(map[string]bool, len(specs))
	seqs := make(map[int]bool, len(specs))
	for _, q := range specs {
		if ids[q.ID] {
			return nil, fmt.Errorf("duplicate query id %q", q.ID)
		}
		if seqs[q.Seq] {
			return nil, fmt.Errorf("duplicate sequence %d (query %q)", q.Seq, q.ID)
		}
		ids[q.ID] = true
		seqs[q.Seq] = true
	}
	ordered := make([]QuerySpec, len(specs))
	copy(ordered, specs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })
	return &Catalog{queries: ordered}, nil
}

// Queries returns the battery in execution order. Read-only.
func (c *Catalog) Queries() []QuerySpec { return c.queries }

// Len returns the number of queries in the battery.
func (c *Catalog) Len() int { return len(c.queries) }

// Get returns the query with the given id.
func (c *Catalog) Get(id string) (QuerySpec, bool) {
	for _, q := range c.queries {
		if q.ID == id {
			return q, true
		}
	}
	return QuerySpec{}, false
}

// Categories returns the distinct categories in battery order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range c.queries {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}
