package ontology

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	knakk "github.com/knakk/rdf"
)

// Format identifies a supported RDF serialization.
type Format int

const (
	// FormatUnknown means the format could not be inferred.
	FormatUnknown Format = iota
	// FormatTurtle is Terse RDF Triple Language (.ttl).
	FormatTurtle
	// FormatNTriples is line-based N-Triples (.nt).
	FormatNTriples
	// FormatRDFXML is RDF/XML (.rdf, .xml, .owl), the serialization the
	// hospital ontology ships in.
	FormatRDFXML
)

// String returns the conventional name of the format.
func (f Format) String() string {
	switch f {
	case FormatTurtle:
		return "turtle"
	case FormatNTriples:
		return "ntriples"
	case FormatRDFXML:
		return "rdfxml"
	default:
		return "unknown"
	}
}

// DetectFormat infers the serialization from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl":
		return FormatTurtle
	case ".nt":
		return FormatNTriples
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML
	default:
		return FormatUnknown
	}
}

// LoadError reports a failed ontology load. It is fatal at startup: no query
// can run without a graph.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load ontology %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFile loads an ontology file, inferring the serialization from its
// extension. Loading is read-only and idempotent: loading the same file twice
// yields graphs with identical triple counts.
func LoadFile(path string) (*Graph, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("unsupported extension %q", filepath.Ext(path))}
	}
	return Load(path, format)
}

// Load loads an ontology file in the given serialization.
func Load(path string, format Format) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	g, err := Read(f, format)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return g, nil
}

// Read decodes triples from r in the given serialization.
func Read(r io.Reader, format Format) (*Graph, error) {
	var kf knakk.Format
	switch format {
	case FormatTurtle:
		kf = knakk.Turtle
	case FormatNTriples:
		kf = knakk.NTriples
	case FormatRDFXML:
		kf = knakk.RDFXML
	default:
		return nil, fmt.Errorf("unsupported format %v", format)
	}

	dec := knakk.NewTripleDecoder(r, kf)
	var triples []Triple
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", format, err)
		}
		triples = append(triples, Triple{
			Subj: fromKnakk(tr.Subj),
			Pred: fromKnakk(tr.Pred),
			Obj:  fromKnakk(tr.Obj),
		})
	}
	return NewGraph(triples), nil
}

// fromKnakk converts a decoded term into the graph's term model.
func fromKnakk(t knakk.Term) Term {
	switch v := t.(type) {
	case knakk.IRI:
		return NewIRI(v.String())
	case knakk.Blank:
		return NewBlank(v.String())
	case knakk.Literal:
		out := Term{Kind: TermLiteral, Value: v.String(), Lang: v.Lang()}
		out.Datatype = v.DataType.String()
		return out
	default:
		return NewLiteral(t.String())
	}
}
