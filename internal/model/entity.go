package model

import (
	"slices"

	"github.com/roach88/provgraph/internal/registry"
)

// Entity is one node of the graph: a class, an identifier, and ordered
// property values.
type Entity struct {
	factory    *Factory
	class      string
	slug       string
	explicitID string

	keys     []string
	values   map[string][]Value
	warnings []error
}

// ValueKind reports KindEntity.
func (*Entity) ValueKind() registry.ValueKind { return registry.KindEntity }

// TypeName returns the entity's class short name.
func (e *Entity) TypeName() string { return e.class }

// Class returns the entity's class short name.
func (e *Entity) Class() string { return e.class }

// Slug returns the local slug, or "" when the identifier is explicit.
func (e *Entity) Slug() string { return e.slug }

// ID returns the explicit identifier, or baseURL + class + "/" + slug.
func (e *Entity) ID() string {
	if e.explicitID != "" {
		return e.explicitID
	}
	return e.factory.baseURL + e.class + "/" + e.slug
}

// Factory returns the factory that created e.
func (e *Entity) Factory() *Factory { return e.factory }

// Set validates v for prop and appends it. A warn-only domain violation is
// logged, recorded in Warnings, and the value is still appended; any other
// validation error rejects the assignment. A nil *Entity is treated as a
// nil value.
func (e *Entity) Set(prop string, v Value) error {
	if ent, ok := v.(*Entity); ok && ent == nil {
		v = nil
	}
	var rv registry.Value
	if v != nil {
		rv = v
	}
	if err := e.factory.reg.ValidateAssignment(e.class, prop, rv); err != nil {
		if !registry.IsWarning(err) {
			return err
		}
		e.factory.logger.Warn("domain violation allowed by usage profile",
			"entity", e.ID(),
			"class", e.class,
			"property", prop,
			"error", err)
		e.warnings = append(e.warnings, err)
	}
	if _, ok := e.values[prop]; !ok {
		e.keys = append(e.keys, prop)
	}
	e.values[prop] = append(e.values[prop], v)
	return nil
}

// Get returns the lone value of a single-valued property holding one
// element, the ordered []Value otherwise, or nil when prop is unset.
func (e *Entity) Get(prop string) any {
	vals := e.values[prop]
	if len(vals) == 0 {
		return nil
	}
	if len(vals) == 1 && !e.factory.reg.IsMultiValued(prop) {
		return vals[0]
	}
	return slices.Clone(vals)
}

// Values returns a copy of the ordered values of prop.
func (e *Entity) Values(prop string) []Value {
	return slices.Clone(e.values[prop])
}

// First returns the first value of prop.
func (e *Entity) First(prop string) (Value, bool) {
	vals := e.values[prop]
	if len(vals) == 0 {
		return nil, false
	}
	return vals[0], true
}

// Has reports whether prop holds at least one value.
func (e *Entity) Has(prop string) bool {
	return len(e.values[prop]) > 0
}

// Keys returns the assigned property names in first-assignment order.
func (e *Entity) Keys() []string {
	return slices.Clone(e.keys)
}

// Warnings returns the warn-only validation errors seen by Set.
func (e *Entity) Warnings() []error {
	return slices.Clone(e.warnings)
}

// Label returns the first label as a string, or "".
func (e *Entity) Label() string {
	v, ok := e.First(registry.KeyLabel)
	if !ok {
		return ""
	}
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}
