// Package vocab holds the IRI constants for the hospital management ontology
// and the standard vocabularies its queries draw on.
package vocab

// HMO is the base IRI prefix for hospital management ontology terms.
const HMO = "http://www.semanticweb.org/healthcare-ontology#"

// Standard vocabulary namespaces.
const (
	RDF    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS   = "http://www.w3.org/2000/01/rdf-schema#"
	OWL    = "http://www.w3.org/2002/07/owl#"
	XSD    = "http://www.w3.org/2001/XMLSchema#"
	FHIR   = "http://hl7.org/fhir/"
	Schema = "http://schema.org/"
)

// Well-known term IRIs used by the ontology statistics and the loader.
const (
	RDFType            = RDF + "type"
	RDFSLabel          = RDFS + "label"
	OWLClass           = OWL + "Class"
	OWLObjectProperty  = OWL + "ObjectProperty"
	OWLDataProperty    = OWL + "DatatypeProperty"
	OWLNamedIndividual = OWL + "NamedIndividual"
)

// XSD datatype IRIs used for literal coercion.
const (
	XSDString   = XSD + "string"
	XSDBoolean  = XSD + "boolean"
	XSDInteger  = XSD + "integer"
	XSDInt      = XSD + "int"
	XSDDecimal  = XSD + "decimal"
	XSDDouble   = XSD + "double"
	XSDFloat    = XSD + "float"
	XSDDate     = XSD + "date"
	XSDTime     = XSD + "time"
	XSDDateTime = XSD + "dateTime"
)

// Prefixes maps the prefix labels the query catalogue may declare to the
// namespace IRIs the ontology actually uses. The prefix auditor checks
// declared prefixes against this table: a declaration that binds a known
// label to a different IRI would make every pattern in the query silently
// match nothing.
var Prefixes = map[string]string{
	"hmo":    HMO,
	"hodp":   HMO, // legacy label used by the analytics battery
	"rdf":    RDF,
	"rdfs":   RDFS,
	"owl":    OWL,
	"xsd":    XSD,
	"fhir":   FHIR,
	"schema": Schema,
}
