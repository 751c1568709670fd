package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hodq/hodq/internal/vocab"
)

func TestAuditDefaultBattery(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	findings := Audit(cat)

	// The shipped battery has no namespace mismatches, but one preserved
	// construct: the appointment-distribution query uses xsd: without
	// declaring it.
	assert.False(t, HasErrors(findings))
	require.Len(t, findings, 1)
	assert.Equal(t, "val-16", findings[0].QueryID)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, `"xsd"`)
}

func TestAuditWrongNamespaceBinding(t *testing.T) {
	cat, err := New([]QuerySpec{{
		ID:  "bad",
		Seq: 1,
		Text: `PREFIX hmo: <http://example.org/wrong#>
SELECT ?p WHERE { ?p a hmo:Patient }`,
	}})
	require.NoError(t, err)

	findings := Audit(cat)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityError, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "match nothing")
	assert.True(t, HasErrors(findings))
}

func TestAuditUnknownDeclaredPrefix(t *testing.T) {
	cat, err := New([]QuerySpec{{
		ID:  "q",
		Seq: 1,
		Text: `PREFIX foaf: <http://xmlns.com/foaf/0.1/>
SELECT ?p WHERE { ?p foaf:name ?n }`,
	}})
	require.NoError(t, err)

	findings := Audit(cat)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, `"foaf"`)
}

func TestAuditUndeclaredUse(t *testing.T) {
	cat, err := New([]QuerySpec{{
		ID:  "q",
		Seq: 1,
		Text: `PREFIX hmo: <` + vocab.HMO + `>
SELECT ?d WHERE {
  ?d a hmo:Treatment .
  FILTER (?date >= "2023-01-01"^^xsd:date)
}`,
	}})
	require.NoError(t, err)

	findings := Audit(cat)
	require.Len(t, findings, 1)
	assert.Equal(t, SeverityWarning, findings[0].Severity)
	assert.Contains(t, findings[0].Message, "unbound")
}

func TestAuditCleanQuery(t *testing.T) {
	cat, err := New([]QuerySpec{{
		ID:  "q",
		Seq: 1,
		Text: `PREFIX hmo: <` + vocab.HMO + `>
PREFIX rdf: <` + vocab.RDF + `>
SELECT ?d WHERE { ?d rdf:type hmo:Doctor }`,
	}})
	require.NoError(t, err)

	assert.Empty(t, Audit(cat))
}

func TestAuditSkipsIRISchemes(t *testing.T) {
	cat, err := New([]QuerySpec{{
		ID:  "q",
		Seq: 1,
		Text: `SELECT ?s WHERE { ?s ?p <http://example.org/thing> .
  FILTER (?s != <urn:example:x>) }`,
	}})
	require.NoError(t, err)

	assert.Empty(t, Audit(cat))
}
