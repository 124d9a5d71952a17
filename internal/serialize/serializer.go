package serialize

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/roach88/provgraph/internal/metrics"
	"github.com/roach88/provgraph/internal/model"
	"github.com/roach88/provgraph/internal/registry"
)

// Options controls one rendering.
type Options struct {
	// Compact writes short names for property keys and type values.
	// Without it, keys and types are absolute URIs.
	Compact bool
	// FullNames, under Compact, writes prefixed names (crm:P67_refers_to)
	// instead of short names.
	FullNames bool
	// ContextURI overrides the factory's context reference. When both
	// are empty an inline context object is written.
	ContextURI string
	// Indent, when set, pretty-prints JSON output with this indent.
	Indent string
}

// DefaultOptions renders short names with the factory's context.
func DefaultOptions() Options {
	return Options{Compact: true}
}

// Serializer renders entities created by one factory.
type Serializer struct {
	f       *model.Factory
	reg     *registry.Registry
	metrics *metrics.Metrics
}

// Option configures New.
type Option func(*Serializer)

// WithMetrics records node counts and render latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Serializer) {
		s.metrics = m
	}
}

// New returns a serializer for entities of f.
func New(f *model.Factory, opts ...Option) *Serializer {
	s := &Serializer{f: f, reg: f.Registry()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// walk is the state of one Serialize call.
type walk struct {
	s       *Serializer
	opts    Options
	visited map[string]bool
	names   map[string]string // emitted name -> URI, for the inline context
	full    int
	refs    int
}

// Serialize renders root and everything reachable from it.
func (s *Serializer) Serialize(root *model.Entity, opts Options) (*Node, error) {
	if root == nil {
		return nil, fmt.Errorf("serialize: nil root entity")
	}
	start := time.Now()
	w := &walk{
		s:       s,
		opts:    opts,
		visited: make(map[string]bool),
		names:   make(map[string]string),
	}
	n, err := w.entity(root)
	if err != nil {
		return nil, err
	}

	var ctx any
	switch {
	case opts.ContextURI != "":
		ctx = opts.ContextURI
	case s.f.ContextURI() != "":
		ctx = s.f.ContextURI()
	default:
		ctx = w.inlineContext()
	}
	doc := n.prepend(registry.KeyContext, ctx)

	s.metrics.AddNodes(w.full, w.refs)
	s.metrics.ObserveSerialize(time.Since(start))
	return doc, nil
}

// JSON renders root as encoded JSON.
func (s *Serializer) JSON(root *model.Entity, opts Options) ([]byte, error) {
	doc, err := s.Serialize(root, opts)
	if err != nil {
		return nil, err
	}
	return MarshalIndent(doc, opts.Indent)
}

func (w *walk) entity(e *model.Entity) (*Node, error) {
	n := NewNode()
	id := e.ID()
	n.Set(registry.KeyID, id)
	n.Set(registry.KeyType, w.className(e.Class()))
	if w.visited[id] {
		w.refs++
		return n, nil
	}
	w.visited[id] = true
	w.full++

	keys := e.Keys()
	ranks := make(map[string]int, len(keys))
	for _, k := range keys {
		ranks[k] = w.s.reg.KeyOrder(k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return ranks[keys[i]] < ranks[keys[j]]
	})

	for _, k := range keys {
		vals := e.Values(k)
		rendered := make([]any, 0, len(vals))
		for _, v := range vals {
			rv, err := w.value(v)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", id, k, err)
			}
			rendered = append(rendered, rv)
		}
		name := w.propertyName(k)
		if len(rendered) == 1 && !w.s.reg.IsMultiValued(k) {
			n.Set(name, rendered[0])
		} else {
			n.Set(name, rendered)
		}
	}
	return n, nil
}

func (w *walk) value(v model.Value) (any, error) {
	switch val := v.(type) {
	case *model.Entity:
		return w.entity(val)
	case model.String:
		return string(val), nil
	case model.Number:
		return float64(val), nil
	case model.Integer:
		return int64(val), nil
	case model.Bool:
		return bool(val), nil
	case model.LangString:
		n := NewNode()
		n.Set("@value", val.Text)
		n.Set("@language", val.Lang)
		return n, nil
	case model.Date:
		if w.opts.Compact {
			return val.String(), nil
		}
		n := NewNode()
		n.Set("@value", val.String())
		n.Set("@type", "xsd:dateTime")
		return n, nil
	default:
		return nil, fmt.Errorf("unsupported value %T", v)
	}
}

func (w *walk) className(name string) string {
	uri, _ := w.s.reg.ClassURI(name)
	return w.name(name, uri)
}

func (w *walk) propertyName(name string) string {
	uri, _ := w.s.reg.PropertyURI(name)
	return w.name(name, uri)
}

// name picks the rendering of a class or property and records it for the
// inline context.
func (w *walk) name(short, uri string) string {
	switch {
	case !w.opts.Compact:
		return uri
	case w.opts.FullNames:
		curie := w.s.reg.Namespaces().Compact(uri)
		if prefix, _, ok := strings.Cut(curie, ":"); ok && !strings.Contains(curie, "://") {
			if iri, known := w.s.reg.Namespaces().IRI(prefix); known {
				w.names[prefix] = iri
			}
		}
		return curie
	default:
		w.names[short] = uri
		return short
	}
}

// inlineContext maps every emitted name to its URI, keys sorted after the
// id and type aliases.
func (w *walk) inlineContext() *Node {
	ctx := NewNode()
	ctx.Set(registry.KeyID, "@id")
	ctx.Set(registry.KeyType, "@type")
	names := make([]string, 0, len(w.names))
	for k := range w.names {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		ctx.Set(k, w.names[k])
	}
	return ctx
}
