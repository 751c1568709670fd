package engine

import (
	"context"
	"strings"
	"time"

	knakk "github.com/knakk/rdf"
	"github.com/knakk/sparql"

	"github.com/hodq/hodq/internal/ontology"
)

// Endpoint is the remote collaborator binding: a SPARQL 1.1 protocol
// endpoint (Fuseki, GraphDB, ...) that already holds the ontology. Engines
// behind this binding provide full aggregate support (GROUP BY, AVG, SUM)
// and any OWL/SWRL entailment they are configured with.
type Endpoint struct {
	repo *sparql.Repo
}

// NewEndpoint connects to a SPARQL endpoint URL.
func NewEndpoint(url string, timeout time.Duration) (*Endpoint, error) {
	repo, err := sparql.NewRepo(url, sparql.Timeout(timeout))
	if err != nil {
		return nil, NewExecutionError("connect endpoint", err)
	}
	return &Endpoint{repo: repo}, nil
}

// Query implements Engine. The SPARQL protocol reports malformed queries as
// request failures, so parse and evaluation errors are indistinguishable
// here; both surface as execution errors.
func (e *Endpoint) Query(ctx context.Context, query string) (ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewExecutionError("query cancelled", err)
	}

	res, err := e.repo.Query(query)
	if err != nil {
		return nil, NewExecutionError("endpoint query failed", err)
	}

	vars := res.Head.Vars
	solutions := res.Solutions()
	rows := make([]Row, 0, len(solutions))
	for _, sol := range solutions {
		values := make(map[string]Value, len(sol))
		for name, term := range sol {
			values[name] = fromKnakkTerm(term)
		}
		rows = append(rows, Row{Vars: vars, Values: values})
	}
	return NewResultSet(rows), nil
}

// fromKnakkTerm converts an endpoint solution term to a value.
func fromKnakkTerm(t knakk.Term) Value {
	switch v := t.(type) {
	case knakk.IRI:
		return Value{Kind: ontology.TermIRI, Text: v.String()}
	case knakk.Blank:
		// knakk serializes blanks as "_:label"; Value.Display adds the
		// prefix itself, so store the bare label.
		return Value{Kind: ontology.TermBlank, Text: strings.TrimPrefix(v.String(), "_:")}
	case knakk.Literal:
		return Value{
			Kind:     ontology.TermLiteral,
			Text:     v.String(),
			Datatype: v.DataType.String(),
			Lang:     v.Lang(),
		}
	default:
		return Str(t.String())
	}
}
