package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/provgraph/internal/schema"
)

// ValueKind classifies an assigned value.
type ValueKind int

const (
	KindString ValueKind = iota + 1
	KindNumber
	KindDate
	KindBool
	KindEntity
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	case KindEntity:
		return "entity"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseValueKind maps a kind name back to its ValueKind.
func ParseValueKind(s string) (ValueKind, error) {
	for k := KindString; k <= KindEntity; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown value kind %q", s)
}

// Value is anything that can be assigned to a property.
type Value interface {
	ValueKind() ValueKind
}

// EntityValue is a Value that is a nested entity of a named class.
type EntityValue interface {
	Value
	TypeName() string
}

// rangeKind is the resolved acceptance rule of a property range.
type rangeKind int

const (
	rangeAny rangeKind = iota
	rangeLiteral
	rangeString
	rangeNumber
	rangeDate
	rangeBool
	rangeEntity
)

func (r rangeKind) String() string {
	switch r {
	case rangeLiteral:
		return "literal"
	case rangeString:
		return "string"
	case rangeNumber:
		return "number"
	case rangeDate:
		return "date"
	case rangeBool:
		return "bool"
	case rangeEntity:
		return "entity"
	default:
		return "any"
	}
}

var xsdKinds = map[string]rangeKind{
	"string":             rangeString,
	"normalizedString":   rangeString,
	"token":              rangeString,
	"anyURI":             rangeString,
	"decimal":            rangeNumber,
	"double":             rangeNumber,
	"float":              rangeNumber,
	"integer":            rangeNumber,
	"int":                rangeNumber,
	"long":               rangeNumber,
	"nonNegativeInteger": rangeNumber,
	"positiveInteger":    rangeNumber,
	"date":               rangeDate,
	"dateTime":           rangeDate,
	"dateTimeStamp":      rangeDate,
	"gYear":              rangeDate,
	"gYearMonth":         rangeDate,
	"boolean":            rangeBool,
}

// scalarRange classifies a non-class range URI. Unknown URIs outside the
// XSD namespace are unconstrained.
func scalarRange(uri string) rangeKind {
	switch uri {
	case "":
		return rangeAny
	case schema.NSRDFS + "Literal", schema.NSRDF + "langString", schema.NSRDF + "PlainLiteral":
		return rangeLiteral
	}
	if local, ok := strings.CutPrefix(uri, schema.NSXSD); ok {
		if k, ok := xsdKinds[local]; ok {
			return k
		}
		return rangeLiteral
	}
	return rangeAny
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseISODate parses the ISO-8601 forms accepted for date values: a year,
// year-month, calendar date, or date-time with optional zone.
func ParseISODate(s string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date", s)
}
