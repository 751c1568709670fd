package ontology

import "strings"

// TermKind discriminates the three RDF term shapes a triple position can hold.
type TermKind int

const (
	// TermIRI is a resource identifier.
	TermIRI TermKind = iota
	// TermBlank is an anonymous node scoped to the graph.
	TermBlank
	// TermLiteral is a typed or plain literal value.
	TermLiteral
)

// Term is one position of an RDF triple.
//
// Value holds the IRI, the blank node label, or the literal's lexical form.
// Datatype and Lang are only meaningful for literals.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

// NewIRI returns an IRI term.
func NewIRI(iri string) Term {
	return Term{Kind: TermIRI, Value: iri}
}

// NewBlank returns a blank node term with the given label (no "_:" prefix).
func NewBlank(label string) Term {
	return Term{Kind: TermBlank, Value: strings.TrimPrefix(label, "_:")}
}

// NewLiteral returns a plain string literal term.
func NewLiteral(lexical string) Term {
	return Term{Kind: TermLiteral, Value: lexical}
}

// NewTypedLiteral returns a literal term with an explicit datatype IRI.
func NewTypedLiteral(lexical, datatype string) Term {
	return Term{Kind: TermLiteral, Value: lexical, Datatype: datatype}
}

// IsIRI reports whether the term is a resource identifier.
func (t Term) IsIRI() bool { return t.Kind == TermIRI }

// LocalName returns the fragment after '#' (or the last '/' segment) of an
// IRI term. Non-IRI terms return Value unchanged. This mirrors how the
// battery reports resources: "...healthcare-ontology#Doctor_Ahmed" prints as
// "Doctor_Ahmed".
func (t Term) LocalName() string {
	if t.Kind != TermIRI {
		return t.Value
	}
	if i := strings.LastIndex(t.Value, "#"); i >= 0 && i+1 < len(t.Value) {
		return t.Value[i+1:]
	}
	if i := strings.LastIndex(t.Value, "/"); i >= 0 && i+1 < len(t.Value) {
		return t.Value[i+1:]
	}
	return t.Value
}

// Triple is one RDF statement.
type Triple struct {
	Subj Term
	Pred Term
	Obj  Term
}
