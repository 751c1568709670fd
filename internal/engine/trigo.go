package engine

import (
	"context"
	"fmt"

	trigordf "github.com/aleksaelezovic/trigo/pkg/rdf"
	"github.com/aleksaelezovic/trigo/pkg/sparql/executor"
	"github.com/aleksaelezovic/trigo/pkg/sparql/optimizer"
	"github.com/aleksaelezovic/trigo/pkg/sparql/parser"
	"github.com/aleksaelezovic/trigo/pkg/store"

	"github.com/hodq/hodq/internal/ontology"
	"github.com/hodq/hodq/internal/vocab"
)

// ontologyGraphIRI names the graph the loaded ontology is inserted into.
// Plain triple patterns scan across graphs, so queries need no GRAPH clause.
const ontologyGraphIRI = "urn:hodq:graph:ontology"

// Trigo is the in-process collaborator binding: an in-memory triple store
// with a SPARQL parser, optimizer, and Volcano-style executor.
type Trigo struct {
	store *store.TripleStore
	exec  *executor.Executor
}

// NewTrigo builds an in-memory store from the loaded graph. The graph is
// copied into the store once; the store is never written again.
func NewTrigo(g *ontology.Graph) (*Trigo, error) {
	st := store.NewTripleStore()
	graph := &trigordf.NamedNode{IRI: ontologyGraphIRI}

	for _, t := range g.Triples() {
		quad := &trigordf.Quad{
			Subject:   toTrigoTerm(t.Subj),
			Predicate: toTrigoTerm(t.Pred),
			Object:    toTrigoTerm(t.Obj),
			Graph:     graph,
		}
		if err := st.Add(quad); err != nil {
			return nil, fmt.Errorf("populate store: %w", err)
		}
	}

	return &Trigo{store: st, exec: executor.NewExecutor(st)}, nil
}

// Query implements Engine. The collaborator call runs under the caller's
// context so a per-query timeout surfaces as an execution error instead of a
// hung battery.
func (t *Trigo) Query(ctx context.Context, query string) (ResultSet, error) {
	parsed, err := parser.Parse(query)
	if err != nil {
		return nil, NewSyntaxError(err)
	}

	optimized, err := optimizer.NewOptimizer().Optimize(parsed)
	if err != nil {
		return nil, NewExecutionError("query planning failed", err)
	}

	type outcome struct {
		result executor.QueryResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		res, execErr := t.exec.Execute(optimized)
		done <- outcome{result: res, err: execErr}
	}()

	select {
	case <-ctx.Done():
		return nil, NewExecutionError("query cancelled", ctx.Err())
	case out := <-done:
		if out.err != nil {
			return nil, NewExecutionError("query evaluation failed", out.err)
		}
		sel, ok := out.result.(*executor.SelectResult)
		if !ok {
			return nil, NewExecutionError("query is not a SELECT", fmt.Errorf("unexpected result type %T", out.result))
		}
		return selectRows(sel), nil
	}
}

// selectRows converts the executor's materialized bindings to rows.
func selectRows(sel *executor.SelectResult) ResultSet {
	vars := make([]string, 0, len(sel.Variables))
	for _, v := range sel.Variables {
		vars = append(vars, v.Name)
	}

	rows := make([]Row, 0, len(sel.Bindings))
	for _, b := range sel.Bindings {
		values := make(map[string]Value, len(b.Vars))
		for name, term := range b.Vars {
			values[name] = fromTrigoTerm(term)
		}
		rows = append(rows, Row{Vars: vars, Values: values})
	}
	return NewResultSet(rows)
}

// toTrigoTerm converts a graph term to the store's term model.
func toTrigoTerm(t ontology.Term) trigordf.Term {
	switch t.Kind {
	case ontology.TermIRI:
		return &trigordf.NamedNode{IRI: t.Value}
	case ontology.TermBlank:
		return &trigordf.BlankNode{ID: t.Value}
	default:
		lit := &trigordf.Literal{Value: t.Value, Language: t.Lang}
		if t.Datatype != "" && t.Datatype != vocab.XSDString {
			lit.Datatype = &trigordf.NamedNode{IRI: t.Datatype}
		}
		return lit
	}
}

// fromTrigoTerm converts a binding term back to a value.
func fromTrigoTerm(term trigordf.Term) Value {
	switch t := term.(type) {
	case *trigordf.NamedNode:
		return Value{Kind: ontology.TermIRI, Text: t.IRI}
	case *trigordf.BlankNode:
		return Value{Kind: ontology.TermBlank, Text: t.ID}
	case *trigordf.Literal:
		v := Value{Kind: ontology.TermLiteral, Text: t.Value, Lang: t.Language}
		if t.Datatype != nil {
			v.Datatype = t.Datatype.IRI
		}
		return v
	default:
		return Str(term.String())
	}
}
