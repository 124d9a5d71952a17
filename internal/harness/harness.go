package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/provgraph/internal/compiler"
	"github.com/roach88/provgraph/internal/extension"
	"github.com/roach88/provgraph/internal/metrics"
	"github.com/roach88/provgraph/internal/model"
	"github.com/roach88/provgraph/internal/ontology"
	"github.com/roach88/provgraph/internal/registry"
	"github.com/roach88/provgraph/internal/schema"
	"github.com/roach88/provgraph/internal/serialize"
	"github.com/roach88/provgraph/internal/store"
	"github.com/roach88/provgraph/internal/testutil"
	"github.com/roach88/provgraph/internal/vocab"
)

// Option configures Run.
type Option func(*Harness)

// WithLogger routes registry and factory diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithIDGenerator replaces the sequence identifiers of anonymous
// entities.
func WithIDGenerator(g model.IDGenerator) Option {
	return func(h *Harness) {
		if g != nil {
			h.ids = g
		}
	}
}

// WithMetrics records registry and serializer counters in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Harness) {
		h.metrics = m
	}
}

// WithDatabase stores the schema and document in the SQLite database at
// path instead of a fresh in-memory store.
func WithDatabase(path string) Option {
	return func(h *Harness) {
		h.dbPath = path
	}
}

// Harness is the scenario execution engine.
// It runs scenarios with a sequence ID generator and an isolated store.
type Harness struct {
	store   *store.Store
	ids     model.IDGenerator
	logger  *slog.Logger
	metrics *metrics.Metrics
	dbPath  string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation unless
// WithDatabase names a persistent one.
//
// Execution flow:
// 1. Load or compile the schema records
// 2. Load the registry and apply extensions
// 3. Create every entity, then run assignments in order
// 4. Render the root entity and store schema and document
// 5. Evaluate assertions against the rendered document
//
// A returned error means the scenario could not be executed; assignment
// and assertion failures are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		ids:    testutil.NewSequenceIDGenerator(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(h)
	}

	var st *store.Store
	var err error
	if h.dbPath == "" {
		st, err = store.Open(":memory:", store.WithClock(testutil.NewDeterministicClock()))
	} else {
		st, err = store.Open(h.dbPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	h.store = st

	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	records, err := loadRecords(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	ns := schema.DefaultNamespaces()
	reg, err := registry.Load(records,
		registry.WithNamespaces(ns),
		registry.WithLogger(h.logger),
		registry.WithMetrics(h.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := applyExtensions(reg, scenario); err != nil {
		return nil, err
	}

	factoryOpts := []model.FactoryOption{
		model.WithIDGenerator(h.ids),
		model.WithLogger(h.logger),
	}
	if scenario.BaseURL != "" {
		factoryOpts = append(factoryOpts, model.WithBaseURL(scenario.BaseURL))
	}
	f := model.NewFactory(reg, factoryOpts...)

	entities, err := createEntities(f, scenario.Entities)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	for _, def := range scenario.Entities {
		e := entities[def.Key]
		for _, a := range def.Set {
			if err := assign(e, a, entities); err != nil {
				result.AddError(err.Error())
			}
		}
	}
	for _, def := range scenario.Entities {
		for _, w := range entities[def.Key].Warnings() {
			result.Warnings = append(result.Warnings, w.Error())
		}
	}

	root := entities[scenario.Root]
	renderOpts := serialize.Options{
		Compact:    !scenario.Render.Expanded,
		FullNames:  scenario.Render.FullNames,
		ContextURI: scenario.Render.ContextURI,
	}
	doc, err := serialize.New(f, serialize.WithMetrics(h.metrics)).Serialize(root, renderOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", scenario.Root, err)
	}
	data, err := serialize.MarshalIndent(doc, "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", scenario.Root, err)
	}
	result.doc = doc
	result.Document = data

	version, err := h.store.SaveSchema(ctx, records, ns, scenario.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to save schema: %w", err)
	}
	stored, err := h.store.WriteDocument(ctx, root.ID(), version.Hash, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	result.SchemaHash = version.Hash
	result.DocumentHash = stored.ContentHash

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// loadRecords reads a compiled table or compiles the ontology sources.
func loadRecords(src SchemaSource) ([]schema.Record, error) {
	if src.Table != "" {
		f, err := os.Open(src.Table)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return schema.ReadTable(f, schema.DefaultNamespaces())
	}

	var readOpts []ontology.Option
	if src.Lang != "" {
		readOpts = append(readOpts, ontology.WithLanguage(src.Lang))
	}
	g, err := ontology.ReadFiles(src.Ontology, readOpts...)
	if err != nil {
		return nil, err
	}
	ov, err := compiler.LoadOverrides(src.KeyOrder, src.Names, src.Profile)
	if err != nil {
		return nil, err
	}
	return compiler.CompileWithOptions(g, ov, compiler.CompileOptions{ProfileOnly: src.ProfileOnly})
}

// applyExtensions applies built-in sets, then extension files.
func applyExtensions(reg *registry.Registry, scenario *Scenario) error {
	var defs extension.Definitions
	for _, name := range scenario.Extensions {
		d, ok := extension.Builtin(name)
		if !ok {
			return fmt.Errorf("unknown extension %q (known: %v)", name, extension.BuiltinNames())
		}
		defs = defs.Merge(d)
	}
	for _, path := range scenario.ExtensionFiles {
		d, err := extension.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load extension %s: %w", path, err)
		}
		defs = defs.Merge(d)
	}
	if err := extension.Apply(reg, defs); err != nil {
		return fmt.Errorf("failed to apply extensions: %w", err)
	}
	return nil
}

func createEntities(f *model.Factory, defs []EntityDef) (map[string]*model.Entity, error) {
	v := vocab.New(f)
	entities := make(map[string]*model.Entity, len(defs))
	for _, def := range defs {
		var e *model.Entity
		var err error
		if def.Term != "" {
			t, _ := vocab.Lookup(def.Term)
			e, err = v.Shared(t)
		} else {
			e, err = f.New(def.Class, def.Slug)
		}
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", def.Key, err)
		}
		entities[def.Key] = e
	}
	return entities, nil
}

// assign runs one assignment and checks it against ExpectError.
func assign(e *model.Entity, a Assignment, entities map[string]*model.Entity) error {
	v, err := assignmentValue(a, entities)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", e.ID(), a.Property, err)
	}

	err = e.Set(a.Property, v)
	got := errorKind(err)
	switch {
	case a.ExpectError == "" && err != nil:
		return fmt.Errorf("%s.%s: unexpected error: %w", e.ID(), a.Property, err)
	case a.ExpectError != "" && err == nil:
		return fmt.Errorf("%s.%s: expected %s error, assignment succeeded", e.ID(), a.Property, a.ExpectError)
	case a.ExpectError != got:
		return fmt.Errorf("%s.%s: expected %s error, got %v", e.ID(), a.Property, a.ExpectError, err)
	}
	return nil
}

func assignmentValue(a Assignment, entities map[string]*model.Entity) (model.Value, error) {
	switch {
	case a.String != nil:
		return model.String(*a.String), nil
	case a.Number != nil:
		return model.Number(*a.Number), nil
	case a.Integer != nil:
		return model.Integer(*a.Integer), nil
	case a.Bool != nil:
		return model.Bool(*a.Bool), nil
	case a.Date != "":
		return model.NewDate(a.Date)
	case a.Text != nil:
		return model.LangString{Text: a.Text.Value, Lang: a.Text.Lang}, nil
	case a.Ref != "":
		e, ok := entities[a.Ref]
		if !ok {
			return nil, fmt.Errorf("ref %q names no entity", a.Ref)
		}
		return e, nil
	}
	return nil, fmt.Errorf("no value")
}

// errorKind maps a Set error to its expect_error name.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case registry.IsUnknownProperty(err):
		return ErrorUnknownProperty
	case registry.IsDomainError(err):
		return ErrorDomain
	case registry.IsRangeError(err):
		return ErrorRange
	}
	return "other"
}
