// Package engine defines the contract with the SPARQL collaborator: a
// conformant query engine over the loaded ontology graph. The battery runner
// only depends on this contract; the concrete bindings (in-process trigo
// store, remote SPARQL 1.1 endpoint) live beside it.
package engine

import "context"

// Engine executes a SPARQL query against the loaded graph and yields result
// rows lazily. Implementations must be safe for concurrent queries over the
// same immutable graph.
type Engine interface {
	// Query submits query text and returns a lazy, finite result set. A
	// failure to parse or evaluate the query surfaces as a *QueryError.
	Query(ctx context.Context, query string) (ResultSet, error)
}

// ResultSet iterates the rows of a SELECT result in engine order. The
// consumer is not required to drain it; Close releases any resources held by
// a partially consumed set.
type ResultSet interface {
	// Next advances to the next row, returning false at exhaustion or error.
	Next() bool
	// Row returns the current row. Only valid after a true Next.
	Row() Row
	// Err returns the first error encountered during iteration, if any.
	Err() error
	// Close releases the result set.
	Close() error
}

// Row is one solution: the projected variable names in query order, and a
// value per bound variable. A variable the engine left unbound is simply
// absent from Values; lookups report absence, never an error.
type Row struct {
	Vars   []string
	Values map[string]Value
}

// Get returns the value bound to the named variable, and whether it is bound.
func (r Row) Get(name string) (Value, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// sliceResultSet adapts already materialized rows to ResultSet. Both bindings
// materialize before reporting, and test fixtures use it via NewResultSet.
type sliceResultSet struct {
	rows []Row
	pos  int
}

// NewResultSet wraps materialized rows in a ResultSet.
func NewResultSet(rows []Row) ResultSet {
	return &sliceResultSet{rows: rows}
}

func (s *sliceResultSet) Next() bool {
	if s.pos >= len(s.rows) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceResultSet) Row() Row {
	if s.pos == 0 || s.pos > len(s.rows) {
		return Row{}
	}
	return s.rows[s.pos-1]
}

func (s *sliceResultSet) Err() error { return nil }

func (s *sliceResultSet) Close() error { return nil }
