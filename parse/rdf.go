package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/knakk/rdf"
)

// rdfFormats maps each RDF media type to the serialization decoder used for it.
var rdfFormats = map[string]rdf.Format{
	"text/turtle":           rdf.Turtle,
	"application/x-turtle":  rdf.Turtle,
	"application/n-triples": rdf.NTriples,
	"application/rdf+xml":   rdf.RDFXML,
}

// RDFPlugin returns the plugin that decodes RDF serializations into a Graph.
// All RDF media types share a single parser implementation, parameterized by
// the serialization format.
func RDFPlugin() Plugin {
	mediaTypes := make([]string, 0, len(rdfFormats))
	for mt := range rdfFormats {
		mediaTypes = append(mediaTypes, mt)
	}

	return Plugin{
		Name:       "rdf",
		MediaTypes: mediaTypes,
		New: func(mediaType string) Parser {
			return RDFParser{mediaType: mediaType, format: rdfFormats[mediaType]}
		},
	}
}

// RDFParser decodes a single RDF serialization format.
type RDFParser struct {
	mediaType string
	format    rdf.Format
}

var _ Parser = RDFParser{}

// Parse implements the Parser interface.
func (p RDFParser) Parse(data []byte, charset string, _ map[string]string) (any, error) {
	utf8Data, err := ToUTF8(data, charset)
	if err != nil {
		return nil, &Error{MediaType: p.mediaType, Charset: charset, Err: err}
	}

	dec := rdf.NewTripleDecoder(bytes.NewReader(utf8Data), p.format)
	triples, err := dec.DecodeAll()
	if err != nil {
		return nil, &Error{MediaType: p.mediaType, Charset: charset, Err: err}
	}

	return &Graph{triples: triples}, nil
}

// Graph is a set of RDF triples decoded from a request body.
type Graph struct {
	triples []rdf.Triple
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples in document order.
func (g *Graph) Triples() []rdf.Triple {
	return g.triples
}

// Contains reports whether the graph holds a triple equal to t. Terms are
// compared by their N-Triples serialization.
func (g *Graph) Contains(t rdf.Triple) bool {
	for _, gt := range g.triples {
		if sameTerm(gt.Subj, t.Subj) && sameTerm(gt.Pred, t.Pred) && sameTerm(gt.Obj, t.Obj) {
			return true
		}
	}
	return false
}

func sameTerm(a, b rdf.Term) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Serialize(rdf.NTriples) == b.Serialize(rdf.NTriples)
}

// String returns the graph in N-Triples format.
func (g *Graph) String() string {
	var sb strings.Builder
	for _, t := range g.triples {
		fmt.Fprintf(&sb, "%s %s %s .\n",
			t.Subj.Serialize(rdf.NTriples), t.Pred.Serialize(rdf.NTriples), t.Obj.Serialize(rdf.NTriples))
	}
	return sb.String()
}
