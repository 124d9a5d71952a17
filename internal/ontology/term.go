package ontology

import "fmt"

// Kind identifies what a Term declares.
type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Term is one declared ontology class or property.
type Term struct {
	URI     string
	Kind    Kind
	Label   string
	Comment string

	// Classes only.
	SubClassOf []string

	// Properties only.
	Domain        string
	Range         string
	SubPropertyOf string
	InverseOf     string
}

// literal is a candidate label or comment with its language tag.
type literal struct {
	text string
	lang string
}

// MissingLabelError reports a declared term without any rdfs:label.
type MissingLabelError struct {
	URI string
}

func (e *MissingLabelError) Error() string {
	return fmt.Sprintf("term %s has no label", e.URI)
}
