// Package vocab builds commonly used typed entities: objects classified by
// a Getty AAT concept, identifiers, dimensions, monetary amounts, and the
// shared type, unit and currency nodes they point at.
//
// Shared nodes are created once per Vocabulary, so every object in a
// document references the same "painting" or "centimeters" entity.
package vocab

import (
	"fmt"

	"github.com/roach88/provgraph/internal/model"
)

// AAT is the Getty Art & Architecture Thesaurus namespace.
const AAT = "http://vocab.getty.edu/aat/"

// Term is one shared classification node.
type Term struct {
	Key   string
	Class string
	URI   string
	Label string
}

// Shared terms. Object-type terms classify ManMadeObject instances.
var (
	Painting     = Term{"painting", "Type", AAT + "300033618", "painting"}
	Drawing      = Term{"drawing", "Type", AAT + "300033973", "drawing"}
	Sculpture    = Term{"sculpture", "Type", AAT + "300047090", "sculpture"}
	Furniture    = Term{"furniture", "Type", AAT + "300037680", "furniture"}
	Tapestry     = Term{"tapestry", "Type", AAT + "300205002", "tapestry"}
	Accession    = Term{"accession", "Type", AAT + "300312355", "accession number"}
	Height       = Term{"height", "Type", AAT + "300055644", "height"}
	Width        = Term{"width", "Type", AAT + "300055647", "width"}
	Depth        = Term{"depth", "Type", AAT + "300072633", "depth"}
	Centimeters  = Term{"cm", "MeasurementUnit", AAT + "300379098", "centimeters"}
	Inches       = Term{"in", "MeasurementUnit", AAT + "300379100", "inches"}
	USDollars    = Term{"USD", "Currency", AAT + "300411994", "US dollars"}
	BritishPound = Term{"GBP", "Currency", AAT + "300411998", "British pounds"}
)

var terms = map[string]Term{}

func init() {
	for _, t := range []Term{
		Painting, Drawing, Sculpture, Furniture, Tapestry, Accession,
		Height, Width, Depth, Centimeters, Inches, USDollars, BritishPound,
	} {
		terms[t.Key] = t
	}
}

// Lookup returns the shared term registered under key.
func Lookup(key string) (Term, bool) {
	t, ok := terms[key]
	return t, ok
}

// Vocabulary creates entities through one factory and caches shared nodes.
type Vocabulary struct {
	f      *model.Factory
	shared map[string]*model.Entity
}

// New returns a Vocabulary bound to f.
func New(f *model.Factory) *Vocabulary {
	return &Vocabulary{f: f, shared: make(map[string]*model.Entity)}
}

// Shared returns the single node for t, creating it on first use.
func (v *Vocabulary) Shared(t Term) (*model.Entity, error) {
	if e, ok := v.shared[t.URI]; ok {
		return e, nil
	}
	e, err := v.f.New(t.Class, t.URI)
	if err != nil {
		return nil, fmt.Errorf("shared term %s: %w", t.Key, err)
	}
	if err := e.Set("label", v.f.Text(t.Label)); err != nil {
		return nil, err
	}
	v.shared[t.URI] = e
	return e, nil
}

// Object creates a ManMadeObject classified as kind and labeled label.
func (v *Vocabulary) Object(kind Term, slug, label string) (*model.Entity, error) {
	typ, err := v.Shared(kind)
	if err != nil {
		return nil, err
	}
	obj, err := v.f.New("ManMadeObject", slug)
	if err != nil {
		return nil, err
	}
	if err := obj.Set("classified_as", typ); err != nil {
		return nil, err
	}
	if label != "" {
		if err := obj.Set("label", v.f.Text(label)); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// Painting creates a ManMadeObject classified as a painting.
func (v *Vocabulary) Painting(slug, label string) (*model.Entity, error) {
	return v.Object(Painting, slug, label)
}

// Drawing creates a ManMadeObject classified as a drawing.
func (v *Vocabulary) Drawing(slug, label string) (*model.Entity, error) {
	return v.Object(Drawing, slug, label)
}

// Sculpture creates a ManMadeObject classified as a sculpture.
func (v *Vocabulary) Sculpture(slug, label string) (*model.Entity, error) {
	return v.Object(Sculpture, slug, label)
}

// Furniture creates a ManMadeObject classified as furniture.
func (v *Vocabulary) Furniture(slug, label string) (*model.Entity, error) {
	return v.Object(Furniture, slug, label)
}

// Tapestry creates a ManMadeObject classified as a tapestry.
func (v *Vocabulary) Tapestry(slug, label string) (*model.Entity, error) {
	return v.Object(Tapestry, slug, label)
}

// AccessionNumber creates an anonymous Identifier holding number.
func (v *Vocabulary) AccessionNumber(number string) (*model.Entity, error) {
	typ, err := v.Shared(Accession)
	if err != nil {
		return nil, err
	}
	id, err := v.f.New("Identifier", "")
	if err != nil {
		return nil, err
	}
	if err := id.Set("content", model.String(number)); err != nil {
		return nil, err
	}
	if err := id.Set("classified_as", typ); err != nil {
		return nil, err
	}
	return id, nil
}

// Dimension creates an anonymous Dimension of kind with value in unit.
// The "value" property must accept numbers, see extension.AddRDFValue.
func (v *Vocabulary) Dimension(kind Term, value float64, unit Term) (*model.Entity, error) {
	typ, err := v.Shared(kind)
	if err != nil {
		return nil, err
	}
	u, err := v.Shared(unit)
	if err != nil {
		return nil, err
	}
	d, err := v.f.New("Dimension", "")
	if err != nil {
		return nil, err
	}
	for _, a := range []struct {
		prop string
		val  model.Value
	}{
		{"classified_as", typ},
		{"value", model.Number(value)},
		{"unit", u},
	} {
		if err := d.Set(a.prop, a.val); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MonetaryAmount creates an anonymous MonetaryAmount of amount in currency.
// The "value" property must accept numbers, see extension.AddRDFValue.
func (v *Vocabulary) MonetaryAmount(amount float64, currency Term) (*model.Entity, error) {
	cur, err := v.Shared(currency)
	if err != nil {
		return nil, err
	}
	m, err := v.f.New("MonetaryAmount", "")
	if err != nil {
		return nil, err
	}
	if err := m.Set("value", model.Number(amount)); err != nil {
		return nil, err
	}
	if err := m.Set("currency", cur); err != nil {
		return nil, err
	}
	return m, nil
}
