package extension

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/provgraph/internal/registry"
)

// schemaSource constrains extension files. Fields marked optional may be
// omitted; uri is required on every class and property.
const schemaSource = `
#Class: {
	uri:      string & !=""
	label?:   string
	parents?: [...string]
}

#Property: {
	uri:        string & !=""
	label?:     string
	domain?:    string
	range?:     string
	multiple?:  bool
	key_order?: int & >=0
	inverse?:   string
	replace?:   bool
}

#Kind: "string" | "number" | "date" | "bool" | "entity"

class?: [string]: #Class
property?: [string]: #Property
coercion?: [string]: [...#Kind]
`

// Error is a malformed extension definition.
type Error struct {
	Path    string // CUE path of the offending block, if known
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	loc := ""
	if e.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d: ", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	if e.Path != "" {
		return fmt.Sprintf("%s%s: %s", loc, e.Path, e.Message)
	}
	return loc + e.Message
}

type cueClass struct {
	URI     string   `json:"uri"`
	Label   string   `json:"label"`
	Parents []string `json:"parents"`
}

type cueProperty struct {
	URI      string `json:"uri"`
	Label    string `json:"label"`
	Domain   string `json:"domain"`
	Range    string `json:"range"`
	Multiple bool   `json:"multiple"`
	KeyOrder int    `json:"key_order"`
	Inverse  string `json:"inverse"`
	Replace  bool   `json:"replace"`
}

// Load reads extension definitions from a .cue file or from the CUE
// package in a directory.
func Load(path string) (Definitions, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Definitions{}, fmt.Errorf("extensions: %w", err)
	}

	cfg := &load.Config{Dir: path}
	args := []string{"."}
	if !info.IsDir() {
		cfg.Dir = filepath.Dir(path)
		args = []string{filepath.Base(path)}
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return Definitions{}, &Error{Message: fmt.Sprintf("no CUE instances loaded from %s", path)}
	}
	inst := instances[0]
	if inst.Err != nil {
		return Definitions{}, &Error{Message: fmt.Sprintf("loading %s: %v", path, inst.Err)}
	}

	ctx := cuecontext.New()
	return decode(ctx, ctx.BuildInstance(inst))
}

// Parse reads extension definitions from CUE source text.
func Parse(filename string, src []byte) (Definitions, error) {
	ctx := cuecontext.New()
	return decode(ctx, ctx.CompileBytes(src, cue.Filename(filename)))
}

func decode(ctx *cue.Context, v cue.Value) (Definitions, error) {
	var defs Definitions
	if err := v.Err(); err != nil {
		return defs, &Error{Message: err.Error(), Pos: v.Pos()}
	}

	v = ctx.CompileString(schemaSource).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return defs, &Error{Message: err.Error()}
	}

	err := eachField(v, "class", func(name string, fv cue.Value) error {
		var c cueClass
		if err := fv.Decode(&c); err != nil {
			return err
		}
		defs.Classes = append(defs.Classes, ClassDef{
			Name: name,
			Spec: registry.ClassSpec{URI: c.URI, Label: c.Label, Parents: c.Parents},
		})
		return nil
	})
	if err != nil {
		return Definitions{}, err
	}

	err = eachField(v, "property", func(name string, fv cue.Value) error {
		var p cueProperty
		if err := fv.Decode(&p); err != nil {
			return err
		}
		defs.Properties = append(defs.Properties, PropertyDef{
			Name: name,
			Spec: registry.PropertySpec{
				URI:      p.URI,
				Label:    p.Label,
				Domain:   p.Domain,
				Range:    p.Range,
				Multiple: p.Multiple,
				KeyOrder: p.KeyOrder,
				Inverse:  p.Inverse,
				Replace:  p.Replace,
			},
		})
		return nil
	})
	if err != nil {
		return Definitions{}, err
	}

	err = eachField(v, "coercion", func(name string, fv cue.Value) error {
		var names []string
		if err := fv.Decode(&names); err != nil {
			return err
		}
		def := CoercionDef{Property: name}
		for _, n := range names {
			k, err := registry.ParseValueKind(n)
			if err != nil {
				return err
			}
			def.Kinds = append(def.Kinds, k)
		}
		defs.Coercions = append(defs.Coercions, def)
		return nil
	})
	if err != nil {
		return Definitions{}, err
	}
	return defs, nil
}

// eachField calls fn for every regular field of the struct at block, in
// declaration order.
func eachField(v cue.Value, block string, fn func(name string, fv cue.Value) error) error {
	bv := v.LookupPath(cue.ParsePath(block))
	if !bv.Exists() {
		return nil
	}
	iter, err := bv.Fields()
	if err != nil {
		return &Error{Path: block, Message: err.Error(), Pos: bv.Pos()}
	}
	for iter.Next() {
		if err := fn(iter.Label(), iter.Value()); err != nil {
			return &Error{
				Path:    block + "." + iter.Label(),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
	}
	return nil
}
