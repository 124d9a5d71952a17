package registry

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/roach88/provgraph/internal/metrics"
	"github.com/roach88/provgraph/internal/schema"
)

// Built-in and reserved keys.
const (
	KeyContext = "@context"
	KeyID      = "id"
	KeyType    = "type"
	KeyLabel   = "label"
)

var reservedRanks = map[string]int{
	KeyContext: schema.RankContext,
	KeyID:      schema.RankID,
	KeyType:    schema.RankType,
}

// classNode is one entry of the class arena.
type classNode struct {
	name      string
	uri       string
	label     string
	parents   []int
	ancestors map[int]struct{} // includes the node itself
	usage     schema.UsageFlag
}

// propNode is one entry of the property index.
type propNode struct {
	name       string
	uri        string
	label      string
	domain     int // class index, -1 when unconstrained
	domainURI  string
	rangeURI   string
	rangeKind  rangeKind
	rangeClass int // class index when rangeKind is rangeEntity
	multiple   bool
	keyOrder   int // 0 or DefaultKeyOrder when not explicit
	usage      schema.UsageFlag
	parentURI  string
	inverseURI string
	extension  bool
}

// Registry is the loaded type system.
type Registry struct {
	mu sync.RWMutex

	classes     []*classNode
	classByName map[string]int
	classByURI  map[string]int

	props     map[string]*propNode
	propOrder []string
	propByURI map[string]string

	coercions map[string]map[ValueKind]bool
	dangling  []string
	profiled  bool

	ns      *schema.Namespaces
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures Load.
type Option func(*Registry)

// WithLogger sets the logger for registrations and load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records validation and registration counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithNamespaces sets the prefix table used for CURIE ranges and names.
func WithNamespaces(ns *schema.Namespaces) Option {
	return func(r *Registry) {
		if ns != nil {
			r.ns = ns
		}
	}
}

// Load builds a registry from compiled records. Class parents, property
// domains and ranges that name no loaded class are treated as
// unconstrained and reported by Dangling.
func Load(records []schema.Record, opts ...Option) (*Registry, error) {
	r := &Registry{
		classByName: make(map[string]int),
		classByURI:  make(map[string]int),
		props:       make(map[string]*propNode),
		propByURI:   make(map[string]string),
		coercions:   make(map[string]map[ValueKind]bool),
		ns:          schema.DefaultNamespaces(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(r)
	}

	for _, rec := range records {
		if rec.Usage != schema.UsageUnused {
			r.profiled = true
		}
		if !rec.IsClass() {
			continue
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("class %s has no name", rec.URI)
		}
		if _, dup := r.classByName[rec.Name]; dup {
			return nil, &ConflictError{Name: rec.Name, Existing: "class"}
		}
		idx := len(r.classes)
		r.classes = append(r.classes, &classNode{name: rec.Name, uri: rec.URI, label: rec.Label, usage: rec.Usage})
		r.classByName[rec.Name] = idx
		r.classByURI[rec.URI] = idx
	}

	for _, rec := range records {
		if !rec.IsClass() {
			continue
		}
		node := r.classes[r.classByURI[rec.URI]]
		for _, p := range rec.Parents {
			if pi, ok := r.classByURI[p]; ok {
				node.parents = append(node.parents, pi)
			} else {
				r.addDangling(p)
			}
		}
	}
	for i := range r.classes {
		r.classes[i].ancestors = r.closure(i)
	}

	r.addBuiltins()

	for _, rec := range records {
		if !rec.IsProperty() {
			continue
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("property %s has no name", rec.URI)
		}
		if _, dup := r.props[rec.Name]; dup {
			return nil, &ConflictError{Name: rec.Name, Existing: "property"}
		}
		if _, clash := r.classByName[rec.Name]; clash {
			return nil, &ConflictError{Name: rec.Name, Existing: "class"}
		}
		p := &propNode{
			name:       rec.Name,
			uri:        rec.URI,
			label:      rec.Label,
			domain:     -1,
			domainURI:  rec.Domain,
			rangeURI:   rec.Range,
			multiple:   rec.Cardinality == schema.Multiple,
			keyOrder:   rec.KeyOrder,
			usage:      rec.Usage,
			parentURI:  rec.Parent(),
			inverseURI: rec.Inverse,
		}
		if rec.Domain != "" {
			if di, ok := r.classByURI[rec.Domain]; ok {
				p.domain = di
			} else {
				r.addDangling(rec.Domain)
			}
		}
		r.resolveRange(p)
		r.addProperty(p)
	}

	r.logger.Debug("registry loaded",
		"classes", len(r.classes),
		"properties", len(r.props),
		"dangling", len(r.dangling))
	return r, nil
}

func (r *Registry) addBuiltins() {
	r.addProperty(&propNode{
		name:       KeyLabel,
		uri:        schema.NSRDFS + "label",
		label:      "label",
		domain:     -1,
		rangeURI:   schema.NSRDFS + "Literal",
		rangeKind:  rangeLiteral,
		rangeClass: -1,
		keyOrder:   schema.RankLabel,
		usage:      schema.UsageOK,
	})
}

func (r *Registry) addProperty(p *propNode) {
	if _, exists := r.props[p.name]; !exists {
		r.propOrder = append(r.propOrder, p.name)
	}
	r.props[p.name] = p
	r.propByURI[p.uri] = p.name
}

func (r *Registry) addDangling(uri string) {
	if !slices.Contains(r.dangling, uri) {
		r.dangling = append(r.dangling, uri)
	}
}

// resolveRange classifies p.rangeURI against the loaded classes.
func (r *Registry) resolveRange(p *propNode) {
	p.rangeClass = -1
	if ci, ok := r.classByURI[p.rangeURI]; ok {
		p.rangeKind = rangeEntity
		p.rangeClass = ci
		return
	}
	p.rangeKind = scalarRange(p.rangeURI)
	if p.rangeKind == rangeAny && p.rangeURI != "" {
		r.addDangling(p.rangeURI)
	}
}

// closure returns the ancestor set of class i, i included. Cycles in the
// parent graph terminate through the visited set.
func (r *Registry) closure(i int) map[int]struct{} {
	seen := map[int]struct{}{i: {}}
	stack := []int{i}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range r.classes[n].parents {
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				stack = append(stack, p)
			}
		}
	}
	return seen
}

// ClassInfo is a snapshot of one class.
type ClassInfo struct {
	Name    string
	URI     string
	Label   string
	Parents []string
	Usage   schema.UsageFlag
}

// PropertyInfo is a snapshot of one property.
type PropertyInfo struct {
	Name      string
	URI       string
	Label     string
	Domain    string // class name, "" when unconstrained
	Range     string // class name for entity ranges, otherwise the range URI
	RangeKind string
	Multiple  bool
	KeyOrder  int
	Usage     schema.UsageFlag
	Parent    string // parent property name
	Inverse   string // inverse property name
	Extension bool
}

// IsKnownProperty reports whether name is an assignable property.
func (r *Registry) IsKnownProperty(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.props[name]
	return ok
}

// IsKnownClass reports whether name is a loaded or registered class.
func (r *Registry) IsKnownClass(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classByName[name]
	return ok
}

// Class returns the snapshot of class name.
func (r *Registry) Class(name string) (ClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.classByName[name]
	if !ok {
		return ClassInfo{}, false
	}
	c := r.classes[i]
	info := ClassInfo{Name: c.name, URI: c.uri, Label: c.label, Usage: c.usage}
	for _, p := range c.parents {
		info.Parents = append(info.Parents, r.classes[p].name)
	}
	return info, true
}

// Property returns the snapshot of property name.
func (r *Registry) Property(name string) (PropertyInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.props[name]
	if !ok {
		return PropertyInfo{}, false
	}
	return r.propertyInfo(p), true
}

func (r *Registry) propertyInfo(p *propNode) PropertyInfo {
	info := PropertyInfo{
		Name:      p.name,
		URI:       p.uri,
		Label:     p.label,
		Range:     p.rangeURI,
		RangeKind: p.rangeKind.String(),
		Multiple:  p.multiple,
		KeyOrder:  r.keyOrderLocked(p.name),
		Usage:     p.usage,
		Parent:    r.propByURI[p.parentURI],
		Inverse:   r.propByURI[p.inverseURI],
		Extension: p.extension,
	}
	if p.domain >= 0 {
		info.Domain = r.classes[p.domain].name
	}
	if p.rangeKind == rangeEntity {
		info.Range = r.classes[p.rangeClass].name
	}
	return info
}

// Properties returns every property in load and registration order.
func (r *Registry) Properties() []PropertyInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PropertyInfo, 0, len(r.propOrder))
	for _, name := range r.propOrder {
		out = append(out, r.propertyInfo(r.props[name]))
	}
	return out
}

// Classes returns every class name in load and registration order.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.classes))
	for i, c := range r.classes {
		out[i] = c.name
	}
	return out
}

// IsSubClassOf reports whether sub is super or one of its descendants.
func (r *Registry) IsSubClassOf(sub, super string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isSubClassLocked(sub, super)
}

func (r *Registry) isSubClassLocked(sub, super string) bool {
	si, ok := r.classByName[sub]
	if !ok {
		return false
	}
	pi, ok := r.classByName[super]
	if !ok {
		return false
	}
	_, ok = r.classes[si].ancestors[pi]
	return ok
}

// IsSubPropertyOf reports whether sub is super or reaches it through
// subproperty-of edges.
func (r *Registry) IsSubPropertyOf(sub, super string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{}
	for name := sub; name != "" && !seen[name]; {
		if name == super {
			return true
		}
		seen[name] = true
		p, ok := r.props[name]
		if !ok {
			return false
		}
		name = r.propByURI[p.parentURI]
	}
	return false
}

// KeyOrder returns the serialization rank of a key: the reserved rank for
// @context, id and type, the property's explicit rank, the nearest ancestor
// property's explicit rank, or DefaultKeyOrder.
func (r *Registry) KeyOrder(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keyOrderLocked(name)
}

func (r *Registry) keyOrderLocked(name string) int {
	if rank, ok := reservedRanks[name]; ok {
		return rank
	}
	seen := map[string]bool{}
	for name != "" && !seen[name] {
		seen[name] = true
		p, ok := r.props[name]
		if !ok {
			break
		}
		if p.keyOrder > 0 && p.keyOrder != schema.DefaultKeyOrder {
			return p.keyOrder
		}
		name = r.propByURI[p.parentURI]
	}
	return schema.DefaultKeyOrder
}

// IsMultiValued reports whether name is declared multi-valued.
func (r *Registry) IsMultiValued(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.props[name]
	return ok && p.multiple
}

// UsageFlag returns the usage flag of a class or property.
func (r *Registry) UsageFlag(name string) (schema.UsageFlag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.classByName[name]; ok {
		return r.classes[i].usage, true
	}
	if p, ok := r.props[name]; ok {
		return p.usage, true
	}
	return schema.UsageUnused, false
}

// Profiled reports whether any loaded record carried a non-zero usage flag.
func (r *Registry) Profiled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiled
}

// Inverse returns the short name of the inverse of property name, or "".
func (r *Registry) Inverse(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.props[name]; ok {
		return r.propByURI[p.inverseURI]
	}
	return ""
}

// ClassURI returns the URI of class name.
func (r *Registry) ClassURI(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.classByName[name]; ok {
		return r.classes[i].uri, true
	}
	return "", false
}

// PropertyURI returns the URI of property name.
func (r *Registry) PropertyURI(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.props[name]; ok {
		return p.uri, true
	}
	return "", false
}

// Namespaces returns the prefix table.
func (r *Registry) Namespaces() *schema.Namespaces {
	return r.ns
}

// Dangling returns URIs referenced as parents, domains or ranges that no
// loaded class or known datatype resolves.
func (r *Registry) Dangling() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.dangling)
}
