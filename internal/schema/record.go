package schema

import "fmt"

// Kind distinguishes class records from property records.
type Kind string

const (
	KindClass    Kind = "class"
	KindProperty Kind = "property"
)

// UsageFlag is the profile marker attached to every record.
type UsageFlag int

const (
	// UsageUnused marks a term the profile excludes from direct use.
	UsageUnused UsageFlag = 0
	// UsageOK marks a term in use; validation failures are errors.
	UsageOK UsageFlag = 1
	// UsageWarn marks a term in use where domain violations only warn.
	UsageWarn UsageFlag = 2
	// UsageReferenced marks a term used only as the parent of another term.
	UsageReferenced UsageFlag = 3
)

// String returns the lower-case flag name.
func (u UsageFlag) String() string {
	switch u {
	case UsageUnused:
		return "unused"
	case UsageOK:
		return "ok"
	case UsageWarn:
		return "warn"
	case UsageReferenced:
		return "referenced"
	default:
		return fmt.Sprintf("usage(%d)", int(u))
	}
}

// Valid reports whether u is one of the defined flags.
func (u UsageFlag) Valid() bool {
	return u >= UsageUnused && u <= UsageReferenced
}

// Cardinality is the single/multiple flag of a property.
type Cardinality int

const (
	Single   Cardinality = 0
	Multiple Cardinality = 1
)

// DefaultKeyOrder is the rank of a property absent from the key-order table.
const DefaultKeyOrder = 10000

// Ranks reserved for document structure and the built-in label.
const (
	RankContext = 0
	RankID      = 1
	RankType    = 2
	RankLabel   = 5
)

// Record is the compiler's flattened, name-resolved form of one ontology term.
type Record struct {
	URI     string `json:"uri"`
	Kind    Kind   `json:"kind"`
	Name    string `json:"name"`
	Label   string `json:"label"`
	Comment string `json:"comment,omitempty"`

	// Parents holds subclass-of targets for classes and at most one
	// subproperty-of target for properties.
	Parents []string `json:"parents,omitempty"`

	Domain   string `json:"domain,omitempty"`
	Range    string `json:"range,omitempty"`
	Inverse  string `json:"inverse,omitempty"`
	KeyOrder int    `json:"key_order,omitempty"`

	Usage       UsageFlag   `json:"usage"`
	Cardinality Cardinality `json:"cardinality,omitempty"`
}

// IsClass reports whether r describes a class.
func (r Record) IsClass() bool { return r.Kind == KindClass }

// IsProperty reports whether r describes a property.
func (r Record) IsProperty() bool { return r.Kind == KindProperty }

// Parent returns the first parent URI, or "" when there is none.
func (r Record) Parent() string {
	if len(r.Parents) == 0 {
		return ""
	}
	return r.Parents[0]
}
