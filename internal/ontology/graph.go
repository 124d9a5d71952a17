package ontology

import "slices"

// Graph holds declared terms in first-seen order, one Term per URI.
type Graph struct {
	terms map[string]*Term
	order []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{terms: make(map[string]*Term)}
}

// Add declares t, or merges it into the existing term with the same URI.
// Non-empty fields of t replace the existing values; parent lists are unioned.
func (g *Graph) Add(t Term) {
	if g.terms == nil {
		g.terms = make(map[string]*Term)
	}
	cur, ok := g.terms[t.URI]
	if !ok {
		cp := t
		cp.SubClassOf = slices.Clone(t.SubClassOf)
		g.terms[t.URI] = &cp
		g.order = append(g.order, t.URI)
		return
	}
	if t.Kind != KindUnknown {
		cur.Kind = t.Kind
	}
	if t.Label != "" {
		cur.Label = t.Label
	}
	if t.Comment != "" {
		cur.Comment = t.Comment
	}
	for _, p := range t.SubClassOf {
		if !slices.Contains(cur.SubClassOf, p) {
			cur.SubClassOf = append(cur.SubClassOf, p)
		}
	}
	setIfEmpty(&cur.Domain, t.Domain)
	setIfEmpty(&cur.Range, t.Range)
	setIfEmpty(&cur.SubPropertyOf, t.SubPropertyOf)
	setIfEmpty(&cur.InverseOf, t.InverseOf)
}

func setIfEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Merge adds every term of other, in other's order.
func (g *Graph) Merge(other *Graph) {
	for _, t := range other.Terms() {
		g.Add(*t)
	}
}

// Lookup returns the term declared for uri.
func (g *Graph) Lookup(uri string) (*Term, bool) {
	t, ok := g.terms[uri]
	return t, ok
}

// Len returns the number of declared terms.
func (g *Graph) Len() int { return len(g.order) }

// Terms returns all terms in first-seen order.
func (g *Graph) Terms() []*Term {
	out := make([]*Term, 0, len(g.order))
	for _, uri := range g.order {
		out = append(out, g.terms[uri])
	}
	return out
}

// Classes returns class terms in first-seen order.
func (g *Graph) Classes() []*Term { return g.byKind(KindClass) }

// Properties returns property terms in first-seen order.
func (g *Graph) Properties() []*Term { return g.byKind(KindProperty) }

func (g *Graph) byKind(k Kind) []*Term {
	var out []*Term
	for _, uri := range g.order {
		if t := g.terms[uri]; t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// Undeclared returns URIs referenced as a parent, domain or range but never
// declared, in sorted order.
func (g *Graph) Undeclared() []string {
	seen := make(map[string]bool)
	check := func(uri string) {
		if uri == "" {
			return
		}
		if _, ok := g.terms[uri]; !ok {
			seen[uri] = true
		}
	}
	for _, t := range g.Terms() {
		for _, p := range t.SubClassOf {
			check(p)
		}
		check(t.SubPropertyOf)
		if t.Kind == KindProperty {
			check(t.Domain)
		}
	}
	out := make([]string, 0, len(seen))
	for uri := range seen {
		out = append(out, uri)
	}
	slices.Sort(out)
	return out
}
