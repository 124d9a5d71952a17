package extension

import (
	"fmt"

	"github.com/roach88/provgraph/internal/registry"
)

// ClassDef is one class to register.
type ClassDef struct {
	Name string
	Spec registry.ClassSpec
}

// PropertyDef is one property to register.
type PropertyDef struct {
	Name string
	Spec registry.PropertySpec
}

// CoercionDef makes Property accept values of Kinds beyond its range.
type CoercionDef struct {
	Property string
	Kinds    []registry.ValueKind
}

// Definitions is an ordered set of registrations.
type Definitions struct {
	Classes    []ClassDef
	Properties []PropertyDef
	Coercions  []CoercionDef
}

// Merge appends other's definitions after d's.
func (d Definitions) Merge(other Definitions) Definitions {
	return Definitions{
		Classes:    append(append([]ClassDef(nil), d.Classes...), other.Classes...),
		Properties: append(append([]PropertyDef(nil), d.Properties...), other.Properties...),
		Coercions:  append(append([]CoercionDef(nil), d.Coercions...), other.Coercions...),
	}
}

// Empty reports whether d declares nothing.
func (d Definitions) Empty() bool {
	return len(d.Classes) == 0 && len(d.Properties) == 0 && len(d.Coercions) == 0
}

// Apply registers classes, then properties, then coercions, stopping at
// the first failure. Registrations made before the failure stay in place.
func Apply(reg *registry.Registry, defs Definitions) error {
	for _, c := range defs.Classes {
		if err := reg.RegisterClass(c.Name, c.Spec); err != nil {
			return fmt.Errorf("extension class %s: %w", c.Name, err)
		}
	}
	for _, p := range defs.Properties {
		if err := reg.RegisterProperty(p.Name, p.Spec); err != nil {
			return fmt.Errorf("extension property %s: %w", p.Name, err)
		}
	}
	for _, c := range defs.Coercions {
		for _, k := range c.Kinds {
			if err := reg.RegisterValueCoercion(c.Property, k); err != nil {
				return fmt.Errorf("extension coercion %s: %w", c.Property, err)
			}
		}
	}
	return nil
}
