package engine

import (
	"fmt"
	"strconv"

	"github.com/hodq/hodq/internal/ontology"
	"github.com/hodq/hodq/internal/vocab"
)

// Value is one bound variable's value: a resource identifier, a blank node,
// or a typed literal. It carries enough to render a display form and to
// coerce to a number or boolean for the aggregate step.
type Value struct {
	Kind     ontology.TermKind
	Text     string // IRI, blank label, or literal lexical form
	Datatype string // literal datatype IRI, empty otherwise
	Lang     string
}

// IRI returns a resource value.
func IRI(iri string) Value {
	return Value{Kind: ontology.TermIRI, Text: iri}
}

// Str returns a plain string literal value.
func Str(s string) Value {
	return Value{Kind: ontology.TermLiteral, Text: s, Datatype: vocab.XSDString}
}

// Int returns an xsd:integer literal value.
func Int(n int64) Value {
	return Value{Kind: ontology.TermLiteral, Text: strconv.FormatInt(n, 10), Datatype: vocab.XSDInteger}
}

// Dec returns an xsd:decimal literal value.
func Dec(f float64) Value {
	return Value{Kind: ontology.TermLiteral, Text: strconv.FormatFloat(f, 'f', -1, 64), Datatype: vocab.XSDDecimal}
}

// FromTerm converts a graph term into a value.
func FromTerm(t ontology.Term) Value {
	return Value{Kind: t.Kind, Text: t.Value, Datatype: t.Datatype, Lang: t.Lang}
}

// Display returns the human-readable form used in report rows: the local
// name for IRIs (the battery always strips the namespace at '#'), "_:" plus
// the label for blank nodes, and the lexical form for literals.
func (v Value) Display() string {
	switch v.Kind {
	case ontology.TermIRI:
		return ontology.NewIRI(v.Text).LocalName()
	case ontology.TermBlank:
		return "_:" + v.Text
	default:
		return v.Text
	}
}

// Float coerces the value to a number. Non-literals and literals whose
// lexical form is not numeric fail with a *CoercionError.
func (v Value) Float() (float64, error) {
	if v.Kind != ontology.TermLiteral {
		return 0, &CoercionError{Value: v.Display(), Want: "numeric literal"}
	}
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil {
		return 0, &CoercionError{Value: v.Text, Want: "numeric literal"}
	}
	return f, nil
}

// Bool coerces the value to a boolean per xsd:boolean lexical rules.
func (v Value) Bool() (bool, error) {
	switch v.Text {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, &CoercionError{Value: v.Text, Want: "boolean literal"}
}

// CoercionError reports a value that could not be coerced to the numeric or
// boolean type an aggregate step expected.
type CoercionError struct {
	Value string
	Want  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %q to %s", e.Value, e.Want)
}
