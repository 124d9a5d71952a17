package ontology

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knakk/rdf"
	"golang.org/x/text/language"
)

// Format is an RDF serialization understood by the reader.
type Format int

const (
	FormatRDFXML Format = iota
	FormatTurtle
	FormatNTriples
)

func (f Format) rdfFormat() rdf.Format {
	switch f {
	case FormatTurtle:
		return rdf.Turtle
	case FormatNTriples:
		return rdf.NTriples
	default:
		return rdf.RDFXML
	}
}

// FormatForPath picks a Format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML, nil
	case ".ttl":
		return FormatTurtle, nil
	case ".nt":
		return FormatNTriples, nil
	default:
		return 0, fmt.Errorf("unsupported ontology format %q", filepath.Ext(path))
	}
}

const (
	rdfType            = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfProperty        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Property"
	rdfsClass          = "http://www.w3.org/2000/01/rdf-schema#Class"
	rdfsLabel          = "http://www.w3.org/2000/01/rdf-schema#label"
	rdfsComment        = "http://www.w3.org/2000/01/rdf-schema#comment"
	rdfsSubClassOf     = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	rdfsSubPropertyOf  = "http://www.w3.org/2000/01/rdf-schema#subPropertyOf"
	rdfsDomain         = "http://www.w3.org/2000/01/rdf-schema#domain"
	rdfsRange          = "http://www.w3.org/2000/01/rdf-schema#range"
	owlClass           = "http://www.w3.org/2002/07/owl#Class"
	owlObjectProperty  = "http://www.w3.org/2002/07/owl#ObjectProperty"
	owlDatatypeProp    = "http://www.w3.org/2002/07/owl#DatatypeProperty"
	owlInverseOf       = "http://www.w3.org/2002/07/owl#inverseOf"
	defaultLanguageTag = "en"
)

type config struct {
	lang language.Tag
}

// Option configures Read.
type Option func(*config)

// WithLanguage sets the preferred label and comment language.
func WithLanguage(tag string) Option {
	return func(c *config) {
		if t, err := language.Parse(tag); err == nil {
			c.lang = t
		}
	}
}

func newConfig(opts []Option) config {
	c := config{lang: language.MustParse(defaultLanguageTag)}
	for _, o := range opts {
		o(&c)
	}
	return c
}

// pending accumulates edges for one subject until all triples are read.
type pending struct {
	kind       Kind
	declared   bool
	labels     []literal
	comments   []literal
	subClassOf []string
	domain     string
	rng        string
	subPropOf  string
	inverseOf  string
}

type builder struct {
	subjects map[string]*pending
	order    []string
}

func newBuilder() *builder {
	return &builder{subjects: make(map[string]*pending)}
}

func (b *builder) get(uri string) *pending {
	p, ok := b.subjects[uri]
	if !ok {
		p = &pending{}
		b.subjects[uri] = p
	}
	return p
}

func (b *builder) add(tr rdf.Triple) {
	subj := tr.Subj.String()
	pred := tr.Pred.String()

	// Blank-node subjects carry OWL restrictions, which are not modelled.
	if tr.Subj.Type() == rdf.TermBlank {
		return
	}

	switch pred {
	case rdfType:
		kind := KindUnknown
		switch tr.Obj.String() {
		case rdfsClass, owlClass:
			kind = KindClass
		case rdfProperty, owlObjectProperty, owlDatatypeProp:
			kind = KindProperty
		}
		if kind == KindUnknown {
			return
		}
		p := b.get(subj)
		if !p.declared {
			p.declared = true
			b.order = append(b.order, subj)
		}
		p.kind = kind
	case rdfsLabel:
		if lit, ok := literalOf(tr.Obj); ok {
			p := b.get(subj)
			p.labels = append(p.labels, lit)
		}
	case rdfsComment:
		if lit, ok := literalOf(tr.Obj); ok {
			p := b.get(subj)
			p.comments = append(p.comments, lit)
		}
	case rdfsSubClassOf:
		if iri, ok := iriOf(tr.Obj); ok {
			p := b.get(subj)
			if !slices.Contains(p.subClassOf, iri) {
				p.subClassOf = append(p.subClassOf, iri)
			}
		}
	case rdfsSubPropertyOf:
		if iri, ok := iriOf(tr.Obj); ok {
			b.get(subj).subPropOf = iri
		}
	case rdfsDomain:
		if iri, ok := iriOf(tr.Obj); ok {
			b.get(subj).domain = iri
		}
	case rdfsRange:
		if iri, ok := iriOf(tr.Obj); ok {
			b.get(subj).rng = iri
		}
	case owlInverseOf:
		if iri, ok := iriOf(tr.Obj); ok {
			b.get(subj).inverseOf = iri
		}
	}
}

func literalOf(t rdf.Object) (literal, bool) {
	if t.Type() != rdf.TermLiteral {
		return literal{}, false
	}
	lit, ok := t.(rdf.Literal)
	if !ok {
		return literal{}, false
	}
	return literal{text: lit.String(), lang: lit.Lang()}, true
}

func iriOf(t rdf.Object) (string, bool) {
	if t.Type() != rdf.TermIRI {
		return "", false
	}
	return t.String(), true
}

// build folds the collected edges into g. Every declared term without a
// label produces a MissingLabelError; all of them are returned joined.
func (b *builder) build(g *Graph, cfg config) error {
	var errs []error
	for _, uri := range b.order {
		p := b.subjects[uri]
		label, ok := pickLiteral(p.labels, cfg.lang)
		if !ok {
			errs = append(errs, &MissingLabelError{URI: uri})
			continue
		}
		comment, _ := pickLiteral(p.comments, cfg.lang)
		t := Term{
			URI:     uri,
			Kind:    p.kind,
			Label:   strings.TrimSpace(label),
			Comment: cleanComment(comment),
		}
		if p.kind == KindClass {
			t.SubClassOf = p.subClassOf
		} else {
			t.Domain = p.domain
			t.Range = p.rng
			t.SubPropertyOf = p.subPropOf
			t.InverseOf = p.inverseOf
		}
		g.Add(t)
	}
	return errors.Join(errs...)
}

// pickLiteral chooses among language-tagged candidates with a matcher built
// from the tagged alternatives. An untagged literal is used only when no
// tagged literal matches the preference.
func pickLiteral(cands []literal, pref language.Tag) (string, bool) {
	if len(cands) == 0 {
		return "", false
	}
	var tags []language.Tag
	var tagged []literal
	var untagged *literal
	for i := range cands {
		c := cands[i]
		if c.lang == "" {
			if untagged == nil {
				untagged = &cands[i]
			}
			continue
		}
		t, err := language.Parse(c.lang)
		if err != nil {
			continue
		}
		tags = append(tags, t)
		tagged = append(tagged, c)
	}
	if len(tags) > 0 {
		_, idx, conf := language.NewMatcher(tags).Match(pref)
		if conf != language.No {
			return tagged[idx].text, true
		}
	}
	if untagged != nil {
		return untagged.text, true
	}
	if len(tagged) > 0 {
		return tagged[0].text, true
	}
	return cands[0].text, true
}

func cleanComment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", `\n`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}

// Read decodes one ontology source.
func Read(r io.Reader, format Format, opts ...Option) (*Graph, error) {
	cfg := newConfig(opts)
	b := newBuilder()
	if err := decodeInto(b, r, format); err != nil {
		return nil, err
	}
	g := NewGraph()
	if err := b.build(g, cfg); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeInto(b *builder, r io.Reader, format Format) error {
	dec := rdf.NewTripleDecoder(r, format.rdfFormat())
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode triples: %w", err)
		}
		b.add(tr)
	}
}

// ReadFile decodes the ontology at path, choosing the format by extension.
func ReadFile(path string, opts ...Option) (*Graph, error) {
	return ReadFiles([]string{path}, opts...)
}

// ReadFiles decodes several sources into one graph, in the given order.
// Triples from all files are collected before terms are built, so a label
// or edge in one file may complete a declaration in another.
func ReadFiles(paths []string, opts ...Option) (*Graph, error) {
	cfg := newConfig(opts)
	b := newBuilder()
	for _, path := range paths {
		format, err := FormatForPath(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open ontology: %w", err)
		}
		err = decodeInto(b, f, format)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	g := NewGraph()
	if err := b.build(g, cfg); err != nil {
		return nil, err
	}
	return g, nil
}

// ReadGlob reads every file matching pattern in lexical path order.
func ReadGlob(pattern string, opts ...Option) (*Graph, error) {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("glob %q matched no files", pattern)
	}
	slices.Sort(paths)
	return ReadFiles(paths, opts...)
}
