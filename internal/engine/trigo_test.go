package engine

import (
	"context"
	"path/filepath"
	"testing"

	trigordf "github.com/aleksaelezovic/trigo/pkg/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hodq/hodq/internal/ontology"
	"github.com/hodq/hodq/internal/vocab"
)

func drainRows(t *testing.T, rs ResultSet) []Row {
	t.Helper()
	var rows []Row
	for rs.Next() {
		rows = append(rows, rs.Row())
	}
	require.NoError(t, rs.Err())
	require.NoError(t, rs.Close())
	return rows
}

func TestToTrigoTerm(t *testing.T) {
	node := toTrigoTerm(ontology.NewIRI(vocab.HMO + "Doctor_Sara"))
	named, ok := node.(*trigordf.NamedNode)
	require.True(t, ok)
	assert.Equal(t, vocab.HMO+"Doctor_Sara", named.IRI)

	node = toTrigoTerm(ontology.NewBlank("b0"))
	blank, ok := node.(*trigordf.BlankNode)
	require.True(t, ok)
	assert.Equal(t, "b0", blank.ID)

	node = toTrigoTerm(ontology.NewTypedLiteral("20", vocab.XSDInteger))
	lit, ok := node.(*trigordf.Literal)
	require.True(t, ok)
	assert.Equal(t, "20", lit.Value)
	require.NotNil(t, lit.Datatype)
	assert.Equal(t, vocab.XSDInteger, lit.Datatype.IRI)
}

func TestToTrigoTermPlainLiteral(t *testing.T) {
	// Plain and xsd:string literals enter the store without an explicit
	// datatype node; comparisons treat both as simple strings.
	for _, term := range []ontology.Term{
		ontology.NewLiteral("Cardiology"),
		ontology.NewTypedLiteral("Cardiology", vocab.XSDString),
	} {
		lit, ok := toTrigoTerm(term).(*trigordf.Literal)
		require.True(t, ok)
		assert.Equal(t, "Cardiology", lit.Value)
		assert.Nil(t, lit.Datatype)
	}
}

func TestFromTrigoTerm(t *testing.T) {
	v := fromTrigoTerm(&trigordf.NamedNode{IRI: vocab.HMO + "Treatment_1"})
	assert.Equal(t, ontology.TermIRI, v.Kind)
	assert.Equal(t, "Treatment_1", v.Display())

	v = fromTrigoTerm(&trigordf.BlankNode{ID: "b7"})
	assert.Equal(t, ontology.TermBlank, v.Kind)
	assert.Equal(t, "_:b7", v.Display())

	v = fromTrigoTerm(&trigordf.Literal{
		Value:    "2500.50",
		Datatype: &trigordf.NamedNode{IRI: vocab.XSDDecimal},
	})
	assert.Equal(t, vocab.XSDDecimal, v.Datatype)
	f, err := v.Float()
	require.NoError(t, err)
	assert.Equal(t, 2500.50, f)

	v = fromTrigoTerm(&trigordf.Literal{Value: "clinique", Language: "fr"})
	assert.Equal(t, "clinique", v.Text)
	assert.Equal(t, "fr", v.Lang)
	assert.Empty(t, v.Datatype)
}

func TestTrigoTermRoundTrip(t *testing.T) {
	// A typed literal must keep its datatype through store and back; losing
	// it would not break display, only the aggregate coercions downstream.
	term := ontology.NewTypedLiteral("9000", vocab.XSDInteger)
	v := fromTrigoTerm(toTrigoTerm(term))
	assert.Equal(t, "9000", v.Text)
	assert.Equal(t, vocab.XSDInteger, v.Datatype)

	v = fromTrigoTerm(toTrigoTerm(ontology.NewIRI(vocab.HMO + "Hospital_Main")))
	assert.Equal(t, FromTerm(ontology.NewIRI(vocab.HMO+"Hospital_Main")), v)
}

func loadDoctorsGraph(t *testing.T) *ontology.Graph {
	t.Helper()
	g, err := ontology.LoadFile(filepath.Join("testdata", "doctors.ttl"))
	require.NoError(t, err)
	return g
}

func TestTrigoExperienceFilter(t *testing.T) {
	eng, err := NewTrigo(loadDoctorsGraph(t))
	require.NoError(t, err)

	rs, err := eng.Query(context.Background(), `
		PREFIX hmo: <http://www.semanticweb.org/healthcare-ontology#>
		SELECT ?doctor ?exp
		WHERE {
		  ?doctor a hmo:Doctor .
		  ?doctor hmo:yearsExperience ?exp .
		  FILTER (?exp > 15)
		}
		ORDER BY DESC(?exp)
	`)
	require.NoError(t, err)

	rows := drainRows(t, rs)
	require.Len(t, rows, 2)

	doctor, ok := rows[0].Get("doctor")
	require.True(t, ok)
	assert.Equal(t, "Doctor_Sara", doctor.Display())
	exp, ok := rows[0].Get("exp")
	require.True(t, ok)
	assert.Equal(t, "20", exp.Display())

	doctor, _ = rows[1].Get("doctor")
	assert.Equal(t, "Doctor_Imran", doctor.Display())
	exp, _ = rows[1].Get("exp")
	assert.Equal(t, "16", exp.Display())

	// The bound experience must coerce for the aggregate step.
	f, err := exp.Float()
	require.NoError(t, err)
	assert.Equal(t, 16.0, f)
}

func TestTrigoNoMatches(t *testing.T) {
	eng, err := NewTrigo(loadDoctorsGraph(t))
	require.NoError(t, err)

	rs, err := eng.Query(context.Background(), `
		PREFIX hmo: <http://www.semanticweb.org/healthcare-ontology#>
		SELECT ?nurse
		WHERE { ?nurse a hmo:Nurse . }
	`)
	require.NoError(t, err)
	assert.Empty(t, drainRows(t, rs))
}

func TestTrigoSyntaxError(t *testing.T) {
	eng, err := NewTrigo(ontology.NewGraph(nil))
	require.NoError(t, err)

	_, err = eng.Query(context.Background(), "SELECT ?x WHERE { broken")
	require.Error(t, err)
	assert.True(t, IsSyntaxError(err))
}
