package compiler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/provgraph/internal/schema"
)

// ProfileEntry is one usage-profile flag. Class entries are a single
// integer; property entries are a [validate, cardinality] pair.
type ProfileEntry struct {
	Usage       schema.UsageFlag
	Cardinality schema.Cardinality
}

// UnmarshalYAML accepts either an integer or a two-element integer list.
func (p *ProfileEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var n int
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("line %d: profile flag must be an integer", node.Line)
		}
		p.Usage = schema.UsageFlag(n)
		p.Cardinality = schema.Single
	case yaml.SequenceNode:
		var pair []int
		if err := node.Decode(&pair); err != nil || len(pair) != 2 {
			return fmt.Errorf("line %d: property profile must be [validate, cardinality]", node.Line)
		}
		p.Usage = schema.UsageFlag(pair[0])
		p.Cardinality = schema.Cardinality(pair[1])
	default:
		return fmt.Errorf("line %d: unexpected profile value", node.Line)
	}
	if !p.Usage.Valid() {
		return fmt.Errorf("line %d: usage flag %d out of range", node.Line, int(p.Usage))
	}
	if p.Cardinality != schema.Single && p.Cardinality != schema.Multiple {
		return fmt.Errorf("line %d: cardinality %d out of range", node.Line, int(p.Cardinality))
	}
	return nil
}

// Overrides are the three tables that steer compilation.
type Overrides struct {
	// Names maps a full URI, a term code (P2) or a local name to a short name.
	Names map[string]string
	// KeyOrder maps a short name to its serialization rank.
	KeyOrder map[string]int
	// Profile maps a full URI or local name to its usage flags.
	Profile map[string]ProfileEntry
}

// profileFor looks up the profile entry of uri by URI, then by local name.
func (o Overrides) profileFor(uri string) (ProfileEntry, bool) {
	if p, ok := o.Profile[uri]; ok {
		return p, true
	}
	p, ok := o.Profile[schema.LocalName(uri)]
	return p, ok
}

// keyOrderFor returns the rank of name, or the default.
func (o Overrides) keyOrderFor(name string) int {
	if r, ok := o.KeyOrder[name]; ok {
		return r
	}
	return schema.DefaultKeyOrder
}

// ParseNames decodes a naming-override table (YAML or JSON).
func ParseNames(data []byte) (map[string]string, error) {
	m := map[string]string{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, malformed("names", err)
	}
	for k, v := range m {
		if v == "" {
			return nil, malformed("names", fmt.Errorf("empty name for %q", k))
		}
	}
	return m, nil
}

// ParseKeyOrder decodes a key-order table (YAML or JSON). Ranks up to
// schema.RankLabel are reserved.
func ParseKeyOrder(data []byte) (map[string]int, error) {
	m := map[string]int{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, malformed("key order", err)
	}
	for k, v := range m {
		if v <= schema.RankLabel {
			return nil, malformed("key order", fmt.Errorf("rank %d for %q must be above %d; lower ranks belong to @context, id, type and label", v, k, schema.RankLabel))
		}
	}
	return m, nil
}

// ParseProfile decodes a usage-profile table (YAML or JSON).
func ParseProfile(data []byte) (map[string]ProfileEntry, error) {
	m := map[string]ProfileEntry{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, malformed("profile", err)
	}
	return m, nil
}

// LoadOverrides reads the override tables from disk. An empty path leaves
// that table empty.
func LoadOverrides(keyOrderPath, namesPath, profilePath string) (Overrides, error) {
	var ov Overrides
	if keyOrderPath != "" {
		data, err := os.ReadFile(keyOrderPath)
		if err != nil {
			return ov, fmt.Errorf("read key order table: %w", err)
		}
		if ov.KeyOrder, err = ParseKeyOrder(data); err != nil {
			return ov, withPath(err, keyOrderPath)
		}
	}
	if namesPath != "" {
		data, err := os.ReadFile(namesPath)
		if err != nil {
			return ov, fmt.Errorf("read names table: %w", err)
		}
		if ov.Names, err = ParseNames(data); err != nil {
			return ov, withPath(err, namesPath)
		}
	}
	if profilePath != "" {
		data, err := os.ReadFile(profilePath)
		if err != nil {
			return ov, fmt.Errorf("read profile table: %w", err)
		}
		if ov.Profile, err = ParseProfile(data); err != nil {
			return ov, withPath(err, profilePath)
		}
	}
	return ov, nil
}

func malformed(table string, err error) *CompileError {
	return &CompileError{
		Code:    ErrOverrideMalformed,
		Message: fmt.Sprintf("%s table: %v", table, err),
	}
}

func withPath(err error, path string) error {
	if ce, ok := err.(*CompileError); ok {
		ce.Message = path + ": " + ce.Message
	}
	return err
}
