package schema

import (
	"slices"
	"strings"
)

// Well-known namespace IRIs.
const (
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	NSXSD     = "http://www.w3.org/2001/XMLSchema#"
	NSOWL     = "http://www.w3.org/2002/07/owl#"
	NSDCTerms = "http://purl.org/dc/terms/"
	NSXML     = "http://www.w3.org/XML/1998/namespace"
	NSCRM     = "http://www.cidoc-crm.org/cidoc-crm/"
	NSLA      = "https://linked.art/ns/terms/"
	NSSchema  = "http://schema.org/"
	NSSKOS    = "http://www.w3.org/2004/02/skos/core#"
)

// Namespaces maps prefixes to namespace IRIs for compacting and expanding
// the domain/range columns of the Schema Table.
// The zero value is empty and ready to use.
type Namespaces struct {
	iris map[string]string // prefix -> IRI
}

// DefaultNamespaces returns a fresh table with the standard prefixes.
func DefaultNamespaces() *Namespaces {
	ns := &Namespaces{}
	ns.Add("rdf", NSRDF)
	ns.Add("rdfs", NSRDFS)
	ns.Add("xsd", NSXSD)
	ns.Add("owl", NSOWL)
	ns.Add("dcterms", NSDCTerms)
	ns.Add("xml", NSXML)
	ns.Add("crm", NSCRM)
	ns.Add("la", NSLA)
	ns.Add("schema", NSSchema)
	ns.Add("skos", NSSKOS)
	return ns
}

// Add registers or replaces a prefix.
func (n *Namespaces) Add(prefix, iri string) {
	if n.iris == nil {
		n.iris = make(map[string]string)
	}
	n.iris[prefix] = iri
}

// IRI returns the namespace IRI bound to prefix.
func (n *Namespaces) IRI(prefix string) (string, bool) {
	iri, ok := n.iris[prefix]
	return iri, ok
}

// Prefixes returns all prefixes in sorted order.
func (n *Namespaces) Prefixes() []string {
	out := make([]string, 0, len(n.iris))
	for p := range n.iris {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Compact rewrites uri as prefix:local using the longest matching namespace.
// URIs outside every namespace are returned unchanged.
func (n *Namespaces) Compact(uri string) string {
	best, bestIRI := "", ""
	for _, p := range n.Prefixes() {
		iri := n.iris[p]
		if strings.HasPrefix(uri, iri) && len(iri) > len(bestIRI) {
			best, bestIRI = p, iri
		}
	}
	if bestIRI == "" {
		return uri
	}
	return best + ":" + uri[len(bestIRI):]
}

// Expand rewrites prefix:local back to an absolute IRI.
// Absolute IRIs and unknown prefixes are returned unchanged.
func (n *Namespaces) Expand(curie string) string {
	if curie == "" || strings.Contains(curie, "://") || strings.HasPrefix(curie, "urn:") {
		return curie
	}
	prefix, local, ok := strings.Cut(curie, ":")
	if !ok {
		return curie
	}
	iri, known := n.iris[prefix]
	if !known {
		return curie
	}
	return iri + local
}

// LocalName returns the part of uri after the last '#' or '/'.
func LocalName(uri string) string {
	if i := strings.LastIndexAny(uri, "#/"); i >= 0 {
		return uri[i+1:]
	}
	if _, local, ok := strings.Cut(uri, ":"); ok {
		return local
	}
	return uri
}
