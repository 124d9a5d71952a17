package compiler

import (
	"regexp"
	"strings"

	"github.com/roach88/provgraph/internal/schema"
)

// codePrefix matches CIDOC-style term codes such as E22_, P82a_ or P9i_.
var codePrefix = regexp.MustCompile(`^[A-Z]+[0-9]+[a-z]?_`)

// booleanPrefixes are trimmed from the front of property names.
var booleanPrefixes = []string{"is_", "has_", "had_", "was_"}

// reservedNames are document keys no ontology term may claim.
var reservedNames = map[string]bool{
	"@context": true,
	"id":       true,
	"type":     true,
	"label":    true,
}

// SplitCode returns the code segment of a local name (without the trailing
// underscore) and the remainder. Names without a code return "" and local.
func SplitCode(local string) (code, rest string) {
	m := codePrefix.FindString(local)
	if m == "" {
		return "", local
	}
	return strings.TrimSuffix(m, "_"), local[len(m):]
}

// DeriveName resolves the short name of a term. An entry in names keyed by
// the full URI, the code segment, or the local name overrides derivation.
func DeriveName(uri string, kind schema.Kind, names map[string]string) string {
	local := schema.LocalName(uri)
	code, rest := SplitCode(local)

	if n, ok := names[uri]; ok {
		return n
	}
	if code != "" {
		if n, ok := names[code]; ok {
			return n
		}
	}
	if n, ok := names[local]; ok {
		return n
	}

	if kind == schema.KindClass {
		rest = strings.ReplaceAll(rest, "_or_", "_Or_")
		rest = strings.ReplaceAll(rest, "_of_", "_Of_")
		rest = strings.ReplaceAll(rest, "-", "")
		return strings.ReplaceAll(rest, "_", "")
	}

	rest = strings.ReplaceAll(rest, "-", "")
	for _, p := range booleanPrefixes {
		if strings.HasPrefix(rest, p) && len(rest) > len(p) {
			return rest[len(p):]
		}
	}
	return rest
}
