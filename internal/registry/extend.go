package registry

import (
	"fmt"

	"github.com/roach88/provgraph/internal/schema"
)

// ClassSpec describes a class registered at runtime.
type ClassSpec struct {
	URI     string
	Label   string
	Parents []string // parent class names
}

// PropertySpec describes a property registered at runtime.
type PropertySpec struct {
	URI   string
	Label string
	// Domain is a class name; empty accepts any entity.
	Domain string
	// Range is a class name, an XSD/RDFS datatype URI or CURIE, or empty
	// for an unconstrained range.
	Range    string
	Multiple bool
	// KeyOrder is the serialization rank; zero means unordered.
	KeyOrder int
	// Inverse is the short name of the inverse property, if any.
	Inverse string
	// Replace allows overwriting an existing property of the same name.
	Replace bool
}

// RegisterClass adds a class under the given parents. The new class's
// ancestor closure is computed from its parents' closures.
func (r *Registry) RegisterClass(name string, spec ClassSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || spec.URI == "" {
		return fmt.Errorf("register class: name and URI are required")
	}
	if _, exists := r.classByName[name]; exists {
		return &ConflictError{Name: name, Existing: "class"}
	}
	if _, exists := r.props[name]; exists {
		return &ConflictError{Name: name, Existing: "property"}
	}
	if _, exists := r.classByURI[spec.URI]; exists {
		return &ConflictError{Name: spec.URI, Existing: "class URI"}
	}

	node := &classNode{name: name, uri: spec.URI, label: spec.Label, usage: schema.UsageOK}
	idx := len(r.classes)
	node.ancestors = map[int]struct{}{idx: {}}
	for _, pname := range spec.Parents {
		pi, ok := r.classByName[pname]
		if !ok {
			return &UnknownClassError{Class: pname}
		}
		node.parents = append(node.parents, pi)
		for a := range r.classes[pi].ancestors {
			node.ancestors[a] = struct{}{}
		}
	}

	r.classes = append(r.classes, node)
	r.classByName[name] = idx
	r.classByURI[spec.URI] = idx

	r.logger.Info("class registered", "class", name, "uri", spec.URI, "parents", spec.Parents)
	r.metrics.IncRegistration("class")
	return nil
}

// RegisterProperty adds a property, or replaces one when spec.Replace is
// set. Replacing keeps the property's position in Properties.
func (r *Registry) RegisterProperty(name string, spec PropertySpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || spec.URI == "" {
		return fmt.Errorf("register property: name and URI are required")
	}
	if _, reserved := reservedRanks[name]; reserved {
		return &UnknownPropertyError{Property: name, Reserved: true}
	}
	if prev, exists := r.props[name]; exists && !spec.Replace {
		kind := "property"
		if prev.extension {
			kind = "extension property"
		}
		return &ConflictError{Name: name, Existing: kind}
	}
	if _, exists := r.classByName[name]; exists {
		return &ConflictError{Name: name, Existing: "class"}
	}

	p := &propNode{
		name:      name,
		uri:       spec.URI,
		label:     spec.Label,
		domain:    -1,
		multiple:  spec.Multiple,
		keyOrder:  spec.KeyOrder,
		usage:     schema.UsageOK,
		extension: true,
	}
	if spec.Domain != "" {
		di, ok := r.classByName[spec.Domain]
		if !ok {
			return &UnknownClassError{Class: spec.Domain}
		}
		p.domain = di
		p.domainURI = r.classes[di].uri
	}
	if spec.Range != "" {
		if ci, ok := r.classByName[spec.Range]; ok {
			p.rangeURI = r.classes[ci].uri
		} else {
			p.rangeURI = r.ns.Expand(spec.Range)
		}
	}
	if spec.Inverse != "" {
		inv, ok := r.props[spec.Inverse]
		if !ok {
			return &UnknownPropertyError{Property: spec.Inverse}
		}
		p.inverseURI = inv.uri
	}
	r.resolveRange(p)

	if prev, exists := r.props[name]; exists && prev.uri != p.uri {
		delete(r.propByURI, prev.uri)
	}
	r.addProperty(p)

	r.logger.Info("property registered",
		"property", name,
		"uri", spec.URI,
		"domain", spec.Domain,
		"range", spec.Range,
		"replace", spec.Replace)
	r.metrics.IncRegistration("property")
	return nil
}

// RegisterValueCoercion makes property name accept values of kind in
// addition to what its range allows.
func (r *Registry) RegisterValueCoercion(name string, kind ValueKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.props[name]; !ok {
		return &UnknownPropertyError{Property: name}
	}
	if r.coercions[name] == nil {
		r.coercions[name] = make(map[ValueKind]bool)
	}
	r.coercions[name][kind] = true

	r.logger.Info("value coercion registered", "property", name, "kind", kind.String())
	r.metrics.IncRegistration("coercion")
	return nil
}
