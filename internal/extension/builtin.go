package extension

import (
	"sort"

	"github.com/roach88/provgraph/internal/registry"
	"github.com/roach88/provgraph/internal/schema"
)

// Payment declares the Payment activity and its three properties.
func Payment() Definitions {
	return Definitions{
		Classes: []ClassDef{{
			Name: "Payment",
			Spec: registry.ClassSpec{
				URI:     schema.NSLA + "Payment",
				Label:   "Payment",
				Parents: []string{"Activity"},
			},
		}},
		Properties: []PropertyDef{
			{Name: "paid_amount", Spec: registry.PropertySpec{
				URI:    schema.NSLA + "paid_amount",
				Label:  "paid amount",
				Domain: "Payment",
				Range:  "MonetaryAmount",
			}},
			{Name: "paid_to", Spec: registry.PropertySpec{
				URI:      schema.NSLA + "paid_to",
				Label:    "paid to",
				Domain:   "Payment",
				Range:    "Actor",
				Multiple: true,
			}},
			{Name: "paid_from", Spec: registry.PropertySpec{
				URI:      schema.NSLA + "paid_from",
				Label:    "paid from",
				Domain:   "Payment",
				Range:    "Actor",
				Multiple: true,
			}},
		},
	}
}

// SchemaProperties declares exact_match, usable on any entity.
func SchemaProperties() Definitions {
	return Definitions{
		Properties: []PropertyDef{{
			Name: "exact_match",
			Spec: registry.PropertySpec{
				URI:      schema.NSSKOS + "exactMatch",
				Label:    "exact match",
				Multiple: true,
			},
		}},
	}
}

// RDFValue lets "value" carry plain numbers instead of Number entities.
func RDFValue() Definitions {
	return Definitions{
		Coercions: []CoercionDef{{
			Property: "value",
			Kinds:    []registry.ValueKind{registry.KindNumber},
		}},
	}
}

// AddPayment applies Payment to reg.
func AddPayment(reg *registry.Registry) error {
	return Apply(reg, Payment())
}

// AddSchemaProperties applies SchemaProperties to reg.
func AddSchemaProperties(reg *registry.Registry) error {
	return Apply(reg, SchemaProperties())
}

// AddRDFValue applies RDFValue to reg.
func AddRDFValue(reg *registry.Registry) error {
	return Apply(reg, RDFValue())
}

// Builtins returns every built-in extension in application order.
func Builtins() Definitions {
	return Payment().Merge(SchemaProperties()).Merge(RDFValue())
}

var builtinByName = map[string]func() Definitions{
	"payment":           Payment,
	"schema_properties": SchemaProperties,
	"rdf_value":         RDFValue,
	"builtins":          Builtins,
}

// Builtin returns the built-in extension set called name: payment,
// schema_properties, rdf_value, or builtins for all of them.
func Builtin(name string) (Definitions, bool) {
	fn, ok := builtinByName[name]
	if !ok {
		return Definitions{}, false
	}
	return fn(), true
}

// BuiltinNames lists the names accepted by Builtin, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinByName))
	for name := range builtinByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
