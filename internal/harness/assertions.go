package harness

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/provgraph/internal/serialize"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Path     []string
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if len(e.Path) > 0 {
		fmt.Fprintf(&buf, " at %s", formatPath(e.Path))
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

func formatPath(path []string) string {
	if len(path) == 0 {
		return "(root)"
	}
	return strings.Join(path, ".")
}

// lookup walks path from the document root. Object keys select members;
// integer segments index arrays.
func lookup(doc *serialize.Node, path []string) (any, bool) {
	var cur any = doc
	for _, seg := range path {
		switch v := cur.(type) {
		case *serialize.Node:
			next, ok := v.Get(seg)
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// assertKeyOrder checks the keys of the node at path, in order.
func assertKeyOrder(doc *serialize.Node, a Assertion) error {
	v, ok := lookup(doc, a.Path)
	if !ok {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("keys %v", a.Keys), Actual: "path not found"}
	}
	n, ok := v.(*serialize.Node)
	if !ok {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: "an object", Actual: fmt.Sprintf("%T", v)}
	}
	if !slices.Equal(n.Keys(), a.Keys) {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: fmt.Sprintf("keys %v", a.Keys),
			Actual:   fmt.Sprintf("keys %v", n.Keys()),
		}
	}
	return nil
}

// assertPathEquals checks the value at path.
func assertPathEquals(doc *serialize.Node, a Assertion) error {
	v, ok := lookup(doc, a.Path)
	if !ok {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("%v", a.Value), Actual: "path not found"}
	}
	if !valuesEqual(v, a.Value) {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: fmt.Sprintf("%v", a.Value),
			Actual:   describe(v),
		}
	}
	return nil
}

// assertPathCount checks the length of the array at path.
func assertPathCount(doc *serialize.Node, a Assertion) error {
	v, ok := lookup(doc, a.Path)
	if !ok {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: fmt.Sprintf("%d elements", a.Count), Actual: "path not found"}
	}
	arr, ok := v.([]any)
	if !ok {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: "an array", Actual: fmt.Sprintf("%T", v)}
	}
	if len(arr) != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Path:     a.Path,
			Expected: fmt.Sprintf("%d elements", a.Count),
			Actual:   fmt.Sprintf("%d elements", len(arr)),
		}
	}
	return nil
}

// assertPathAbsent checks that nothing is rendered at path.
func assertPathAbsent(doc *serialize.Node, a Assertion) error {
	if v, ok := lookup(doc, a.Path); ok {
		return &AssertionError{Type: a.Type, Path: a.Path, Expected: "no value", Actual: describe(v)}
	}
	return nil
}

// assertWarnings checks the number of warn-only domain violations.
func assertWarnings(warnings []string, a Assertion) error {
	if len(warnings) != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d warnings", a.Count),
			Actual:   fmt.Sprintf("%d warnings %v", len(warnings), warnings),
		}
	}
	return nil
}

func describe(v any) string {
	data, err := serialize.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// valuesEqual compares a rendered value against a YAML-decoded expectation.
// Objects compare member by member, arrays element by element, and
// numbers by value regardless of integer or float representation.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}

	switch a := actual.(type) {
	case *serialize.Node:
		m, ok := expected.(map[string]any)
		if !ok || len(m) != a.Len() {
			return false
		}
		for k, ev := range m {
			av, ok := a.Get(k)
			if !ok || !valuesEqual(av, ev) {
				return false
			}
		}
		return true
	case []any:
		e, ok := expected.([]any)
		if !ok || len(e) != len(a) {
			return false
		}
		for i := range a {
			if !valuesEqual(a[i], e[i]) {
				return false
			}
		}
		return true
	}

	if af, ok := toFloat(actual); ok {
		ef, ok := toFloat(expected)
		return ok && af == ef
	}
	return reflect.DeepEqual(actual, expected)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertWarnings:
			err = assertWarnings(result.Warnings, assertion)
		case AssertKeyOrder, AssertPathEquals, AssertPathCount, AssertPathAbsent:
			if result.doc == nil {
				err = fmt.Errorf("assertion[%d]: %s requires a rendered document", i, assertion.Type)
				break
			}
			switch assertion.Type {
			case AssertKeyOrder:
				err = assertKeyOrder(result.doc, assertion)
			case AssertPathEquals:
				err = assertPathEquals(result.doc, assertion)
			case AssertPathCount:
				err = assertPathCount(result.doc, assertion)
			case AssertPathAbsent:
				err = assertPathAbsent(result.doc, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
