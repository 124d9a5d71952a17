package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/provgraph/internal/vocab"
)

// Scenario defines a document conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema selects the records the registry is loaded from.
	Schema SchemaSource `yaml:"schema"`

	// Extensions lists built-in extension sets applied in order
	// (payment, schema_properties, rdf_value, builtins).
	Extensions []string `yaml:"extensions,omitempty"`

	// ExtensionFiles lists CUE extension files or directories, applied
	// after Extensions.
	ExtensionFiles []string `yaml:"extension_files,omitempty"`

	// BaseURL overrides the identifier prefix of slugged entities.
	BaseURL string `yaml:"base_url,omitempty"`

	// Render controls how the root entity is serialized.
	Render RenderOptions `yaml:"render,omitempty"`

	// Root is the key of the entity to render.
	Root string `yaml:"root"`

	// Entities are created in order, then assigned in order.
	Entities []EntityDef `yaml:"entities"`

	// Assertions validate the rendered document.
	Assertions []Assertion `yaml:"assertions"`
}

// SchemaSource is either a compiled table or ontology sources with their
// override tables.
type SchemaSource struct {
	Table       string   `yaml:"table,omitempty"`
	Ontology    []string `yaml:"ontology,omitempty"`
	KeyOrder    string   `yaml:"key_order,omitempty"`
	Names       string   `yaml:"names,omitempty"`
	Profile     string   `yaml:"profile,omitempty"`
	ProfileOnly bool     `yaml:"profile_only,omitempty"`
	Lang        string   `yaml:"lang,omitempty"`
}

// RenderOptions mirrors serialize.Options. The zero value renders short
// names with an inline context.
type RenderOptions struct {
	Expanded   bool   `yaml:"expanded,omitempty"`
	FullNames  bool   `yaml:"full_names,omitempty"`
	ContextURI string `yaml:"context_uri,omitempty"`
}

// EntityDef declares one entity and its assignments.
type EntityDef struct {
	// Key names the entity within the scenario, for ref values and root.
	Key string `yaml:"key"`

	// Class is the registry short name of the entity's class.
	Class string `yaml:"class,omitempty"`

	// Term names a shared vocabulary node (painting, cm, USD, ...) used
	// in place of Class and Slug.
	Term string `yaml:"term,omitempty"`

	// Slug is the local identifier; empty yields a generated one and an
	// absolute IRI is used verbatim.
	Slug string `yaml:"slug,omitempty"`

	// Set lists property assignments in order.
	Set []Assignment `yaml:"set,omitempty"`
}

// Assignment is one Set call. Exactly one value field is present.
type Assignment struct {
	Property string    `yaml:"property"`
	String   *string   `yaml:"string,omitempty"`
	Number   *float64  `yaml:"number,omitempty"`
	Integer  *int64    `yaml:"integer,omitempty"`
	Bool     *bool     `yaml:"bool,omitempty"`
	Date     string    `yaml:"date,omitempty"`
	Text     *LangText `yaml:"text,omitempty"`
	Ref      string    `yaml:"ref,omitempty"`

	// ExpectError is the kind of rejection expected: unknown_property,
	// domain, or range.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// LangText is a language-tagged string.
type LangText struct {
	Value string `yaml:"value"`
	Lang  string `yaml:"lang"`
}

// valueCount returns how many value fields are set.
func (a Assignment) valueCount() int {
	n := 0
	for _, set := range []bool{
		a.String != nil,
		a.Number != nil,
		a.Integer != nil,
		a.Bool != nil,
		a.Date != "",
		a.Text != nil,
		a.Ref != "",
	} {
		if set {
			n++
		}
	}
	return n
}

// Assertion validates the rendered document.
type Assertion struct {
	// Type specifies the assertion type:
	// - "key_order": keys of the node at Path equal Keys, in order
	// - "path_equals": the value at Path equals Value
	// - "path_count": the array at Path has Count elements
	// - "path_absent": nothing is rendered at Path
	// - "warnings": Count warn-only domain violations were recorded
	Type string `yaml:"type"`

	// Path addresses a value from the document root. Object keys select
	// members; integer segments index arrays.
	Path []string `yaml:"path,omitempty"`

	// Keys is the expected key order (key_order).
	Keys []string `yaml:"keys,omitempty"`

	// Value is the expected value (path_equals). Mappings compare by
	// member; numbers compare numerically.
	Value any `yaml:"value,omitempty"`

	// Count is the expected length or warning count.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertKeyOrder   = "key_order"
	AssertPathEquals = "path_equals"
	AssertPathCount  = "path_count"
	AssertPathAbsent = "path_absent"
	AssertWarnings   = "warnings"
)

// Expected error kinds.
const (
	ErrorUnknownProperty = "unknown_property"
	ErrorDomain          = "domain"
	ErrorRange           = "range"
)

// LoadScenario reads and parses a scenario YAML file. Relative schema and
// extension paths are resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving relative paths against
// baseDir. Unknown fields are rejected.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenario.resolvePaths(baseDir)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func (s *Scenario) resolvePaths(baseDir string) {
	if baseDir == "" {
		return
	}
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	s.Schema.Table = resolve(s.Schema.Table)
	s.Schema.KeyOrder = resolve(s.Schema.KeyOrder)
	s.Schema.Names = resolve(s.Schema.Names)
	s.Schema.Profile = resolve(s.Schema.Profile)
	for i, p := range s.Schema.Ontology {
		s.Schema.Ontology[i] = resolve(p)
	}
	for i, p := range s.ExtensionFiles {
		s.ExtensionFiles[i] = resolve(p)
	}
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Schema.Table == "" && len(s.Schema.Ontology) == 0:
		return fmt.Errorf("schema requires a table or ontology sources")
	case s.Schema.Table != "" && len(s.Schema.Ontology) > 0:
		return fmt.Errorf("schema takes a table or ontology sources, not both")
	}

	if len(s.Entities) == 0 {
		return fmt.Errorf("entities list is required and must be non-empty")
	}

	keys := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		if e.Key == "" {
			return fmt.Errorf("entities[%d]: key is required", i)
		}
		if keys[e.Key] {
			return fmt.Errorf("entities[%d]: duplicate key %q", i, e.Key)
		}
		switch {
		case e.Term != "":
			if e.Class != "" || e.Slug != "" {
				return fmt.Errorf("entities[%d]: term excludes class and slug", i)
			}
			if _, ok := vocab.Lookup(e.Term); !ok {
				return fmt.Errorf("entities[%d]: unknown term %q", i, e.Term)
			}
		case e.Class == "":
			return fmt.Errorf("entities[%d]: class is required", i)
		}
		keys[e.Key] = true
	}

	if s.Root == "" {
		return fmt.Errorf("root is required")
	}
	if !keys[s.Root] {
		return fmt.Errorf("root %q names no entity", s.Root)
	}

	for i, e := range s.Entities {
		for j, a := range e.Set {
			if err := validateAssignment(a, keys); err != nil {
				return fmt.Errorf("entities[%d].set[%d]: %w", i, j, err)
			}
		}
	}

	if s.Render.FullNames && s.Render.Expanded {
		return fmt.Errorf("render: full_names requires compact output")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateAssignment(a Assignment, keys map[string]bool) error {
	if a.Property == "" {
		return fmt.Errorf("property is required")
	}
	if n := a.valueCount(); n != 1 {
		return fmt.Errorf("property %s: exactly one value is required, got %d", a.Property, n)
	}
	if a.Ref != "" && !keys[a.Ref] {
		return fmt.Errorf("property %s: ref %q names no entity", a.Property, a.Ref)
	}
	switch a.ExpectError {
	case "", ErrorUnknownProperty, ErrorDomain, ErrorRange:
	default:
		return fmt.Errorf("property %s: unknown expect_error %q", a.Property, a.ExpectError)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertKeyOrder:
		if len(a.Keys) == 0 {
			return fmt.Errorf("assertions[%d]: keys list is required for key_order", index)
		}
	case AssertPathEquals:
		if len(a.Path) == 0 {
			return fmt.Errorf("assertions[%d]: path is required for path_equals", index)
		}
	case AssertPathCount:
		if len(a.Path) == 0 {
			return fmt.Errorf("assertions[%d]: path is required for path_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for path_count", index)
		}
	case AssertPathAbsent:
		if len(a.Path) == 0 {
			return fmt.Errorf("assertions[%d]: path is required for path_absent", index)
		}
	case AssertWarnings:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for warnings", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
