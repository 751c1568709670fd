package ontology

import "github.com/hodq/hodq/internal/vocab"

// Graph is an in-memory set of triples, immutable once loaded. Every query in
// a session reads the same Graph handle; nothing in this module mutates it
// after construction, so concurrent readers need no coordination.
type Graph struct {
	triples []Triple
}

// NewGraph builds a graph from the given triples. Used by tests to construct
// small fixture graphs without touching the filesystem.
func NewGraph(triples []Triple) *Graph {
	return &Graph{triples: triples}
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the graph's statements. The returned slice is shared;
// callers must treat it as read-only.
func (g *Graph) Triples() []Triple { return g.triples }

// Stats summarizes the ontology the way the battery's closing report does:
// schema entities are counted by their rdf:type, and individuals are the
// remaining typed subjects.
type Stats struct {
	Triples     int `json:"triples"`
	Classes     int `json:"classes"`
	Properties  int `json:"properties"`
	Individuals int `json:"individuals"`
}

// Stats computes summary statistics over the graph.
func (g *Graph) Stats() Stats {
	classes := map[string]bool{}
	properties := map[string]bool{}
	typed := map[string]bool{}

	for _, t := range g.triples {
		if t.Pred.Value != vocab.RDFType {
			continue
		}
		subj := t.Subj.Value
		typed[subj] = true
		switch t.Obj.Value {
		case vocab.OWLClass:
			classes[subj] = true
		case vocab.OWLObjectProperty, vocab.OWLDataProperty:
			properties[subj] = true
		}
	}

	individuals := 0
	for subj := range typed {
		if !classes[subj] && !properties[subj] {
			individuals++
		}
	}

	return Stats{
		Triples:     len(g.triples),
		Classes:     len(classes),
		Properties:  len(properties),
		Individuals: individuals,
	}
}
