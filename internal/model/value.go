package model

import (
	"fmt"

	"github.com/roach88/provgraph/internal/registry"
)

// Value is a property value. The set of implementations is closed:
// String, Number, Integer, Bool, Date, LangString and *Entity.
type Value interface {
	registry.Value
	isValue()
}

// String is a plain literal.
type String string

// Number is a floating-point literal.
type Number float64

// Integer is an integral literal. It satisfies numeric ranges.
type Integer int64

// Bool is a boolean literal.
type Bool bool

// LangString is a literal with a BCP-47 language tag.
type LangString struct {
	Text string
	Lang string
}

// Date is an ISO-8601 lexical date, validated on construction.
type Date struct {
	lexical string
}

// NewDate validates s as an ISO-8601 year, year-month, date or date-time.
func NewDate(s string) (Date, error) {
	if _, err := registry.ParseISODate(s); err != nil {
		return Date{}, err
	}
	return Date{lexical: s}, nil
}

// MustDate is NewDate for literals known to be valid; it panics otherwise.
func MustDate(s string) Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (String) ValueKind() registry.ValueKind     { return registry.KindString }
func (Number) ValueKind() registry.ValueKind     { return registry.KindNumber }
func (Integer) ValueKind() registry.ValueKind    { return registry.KindNumber }
func (Bool) ValueKind() registry.ValueKind       { return registry.KindBool }
func (LangString) ValueKind() registry.ValueKind { return registry.KindString }
func (Date) ValueKind() registry.ValueKind       { return registry.KindDate }

func (String) isValue()     {}
func (Number) isValue()     {}
func (Integer) isValue()    {}
func (Bool) isValue()       {}
func (LangString) isValue() {}
func (Date) isValue()       {}
func (*Entity) isValue()    {}

func (s String) String() string     { return string(s) }
func (l LangString) String() string { return l.Text }
func (d Date) String() string       { return d.lexical }
func (n Number) String() string     { return fmt.Sprint(float64(n)) }
func (i Integer) String() string    { return fmt.Sprint(int64(i)) }
func (b Bool) String() string       { return fmt.Sprint(bool(b)) }
