package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/provgraph/internal/ontology"
	"github.com/roach88/provgraph/internal/schema"
)

// CompileOptions adjusts a compile run.
type CompileOptions struct {
	// ProfileOnly drops records whose usage flag is zero after propagation.
	ProfileOnly bool
}

// Compile flattens g into canonical records: classes first, then
// properties, each in first-seen order. All errors are collected and
// returned together as CompileErrors; no records are returned on error.
func Compile(g *ontology.Graph, ov Overrides) ([]schema.Record, error) {
	return CompileWithOptions(g, ov, CompileOptions{})
}

// CompileWithOptions is Compile with explicit options.
func CompileWithOptions(g *ontology.Graph, ov Overrides, opts CompileOptions) ([]schema.Record, error) {
	var errs CompileErrors
	var classes, props []schema.Record
	owner := make(map[string]string) // short name -> URI

	claim := func(name, uri string) {
		if reservedNames[name] {
			errs = append(errs, &CompileError{
				Code:    ErrNameCollision,
				URI:     uri,
				Message: fmt.Sprintf("short name %q is a reserved document key", name),
			})
			return
		}
		if prev, ok := owner[name]; ok {
			errs = append(errs, &CompileError{
				Code:    ErrNameCollision,
				URI:     uri,
				Message: fmt.Sprintf("short name %q already derived for %s", name, prev),
			})
			return
		}
		owner[name] = uri
	}

	for _, t := range g.Terms() {
		if t.Label == "" {
			errs = append(errs, &CompileError{Code: ErrMissingLabel, URI: t.URI, Message: "term has no label"})
			continue
		}
		switch t.Kind {
		case ontology.KindClass:
			rec := schema.Record{
				URI:     t.URI,
				Kind:    schema.KindClass,
				Name:    DeriveName(t.URI, schema.KindClass, ov.Names),
				Label:   t.Label,
				Comment: t.Comment,
				Parents: slices.Clone(t.SubClassOf),
			}
			if p, ok := ov.profileFor(t.URI); ok {
				rec.Usage = p.Usage
			}
			claim(rec.Name, rec.URI)
			classes = append(classes, rec)

		case ontology.KindProperty:
			rec := schema.Record{
				URI:     t.URI,
				Kind:    schema.KindProperty,
				Name:    DeriveName(t.URI, schema.KindProperty, ov.Names),
				Label:   t.Label,
				Comment: t.Comment,
				Domain:  t.Domain,
				Range:   t.Range,
				Inverse: t.InverseOf,
			}
			if t.SubPropertyOf != "" {
				rec.Parents = []string{t.SubPropertyOf}
			}
			rec.KeyOrder = ov.keyOrderFor(rec.Name)
			if p, ok := ov.profileFor(t.URI); ok {
				rec.Usage = p.Usage
				rec.Cardinality = p.Cardinality
			}
			claim(rec.Name, rec.URI)
			props = append(props, rec)

		default:
			errs = append(errs, &CompileError{Code: ErrUnknownKind, URI: t.URI, Message: "term is neither a class nor a property"})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	records := append(classes, props...)
	propagateUsage(records)

	if opts.ProfileOnly {
		records = slices.DeleteFunc(records, func(r schema.Record) bool {
			return r.Usage == schema.UsageUnused
		})
	}
	return records, nil
}

// propagateUsage raises every parent target with an Unused flag to
// Referenced. Explicit OK and Warn flags are left alone.
func propagateUsage(records []schema.Record) {
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.URI] = i
	}
	for _, r := range records {
		for _, parent := range r.Parents {
			i, ok := index[parent]
			if !ok {
				continue
			}
			if records[i].Usage == schema.UsageUnused {
				records[i].Usage = schema.UsageReferenced
			}
		}
	}
}
