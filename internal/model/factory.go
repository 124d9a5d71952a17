package model

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/roach88/provgraph/internal/registry"
	"github.com/roach88/provgraph/internal/schema"
)

// DefaultBaseURL prefixes synthesized identifiers when no base is set.
const DefaultBaseURL = "https://data.example.org/"

// IDGenerator supplies identifiers for entities created without a slug.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues urn:uuid identifiers from random (v4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a fresh urn:uuid identifier.
func (UUIDGenerator) NewID() string {
	return "urn:uuid:" + uuid.NewString()
}

// Factory creates entities bound to one registry.
type Factory struct {
	reg        *registry.Registry
	baseURL    string
	contextURI string
	ids        IDGenerator
	logger     *slog.Logger
	lang       string
}

// FactoryOption configures NewFactory.
type FactoryOption func(*Factory)

// WithBaseURL sets the prefix of synthesized identifiers. A trailing slash
// is added when missing.
func WithBaseURL(base string) FactoryOption {
	return func(f *Factory) {
		if base != "" && !strings.HasSuffix(base, "/") {
			base += "/"
		}
		f.baseURL = base
	}
}

// WithContextURI sets the default @context reference of serialized
// documents.
func WithContextURI(uri string) FactoryOption {
	return func(f *Factory) {
		f.contextURI = uri
	}
}

// WithIDGenerator replaces the identifier source for anonymous entities.
func WithIDGenerator(g IDGenerator) FactoryOption {
	return func(f *Factory) {
		if g != nil {
			f.ids = g
		}
	}
}

// WithDefaultLanguage tags text created by Text with a BCP-47 language.
// Well-formed tags are canonicalized ("EN-gb" becomes "en-GB").
func WithDefaultLanguage(tag string) FactoryOption {
	return func(f *Factory) {
		if t, err := language.Parse(tag); err == nil {
			tag = t.String()
		}
		f.lang = tag
	}
}

// WithLogger sets the logger for validation warnings.
func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFactory returns a factory for entities validated by reg.
func NewFactory(reg *registry.Registry, opts ...FactoryOption) *Factory {
	f := &Factory{
		reg:     reg,
		baseURL: DefaultBaseURL,
		ids:     UUIDGenerator{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Registry returns the registry entities are validated against.
func (f *Factory) Registry() *registry.Registry { return f.reg }

// BaseURL returns the identifier prefix.
func (f *Factory) BaseURL() string { return f.baseURL }

// ContextURI returns the default context reference, or "".
func (f *Factory) ContextURI() string { return f.contextURI }

// DefaultLanguage returns the language tag applied by Text, or "".
func (f *Factory) DefaultLanguage() string { return f.lang }

// Text returns s as a LangString in the default language, or as a plain
// String when no default language is set.
func (f *Factory) Text(s string) Value {
	if f.lang == "" {
		return String(s)
	}
	return LangString{Text: s, Lang: f.lang}
}

// New creates an entity of class. An empty slug yields a generated
// identifier; a slug that is already an absolute IRI is used verbatim.
func (f *Factory) New(class, slug string) (*Entity, error) {
	if !f.reg.IsKnownClass(class) {
		return nil, &registry.UnknownClassError{Class: class}
	}
	if f.reg.Profiled() {
		if flag, _ := f.reg.UsageFlag(class); flag == schema.UsageUnused {
			f.logger.Warn("class is not in the usage profile", "class", class, "slug", slug)
		}
	}

	e := &Entity{
		factory: f,
		class:   class,
		values:  make(map[string][]Value),
	}
	switch {
	case slug == "":
		e.explicitID = f.ids.NewID()
	case IsAbsoluteIRI(slug):
		e.explicitID = slug
	default:
		e.slug = slug
	}
	return e, nil
}

// MustNew is New for classes known to exist; it panics otherwise.
func (f *Factory) MustNew(class, slug string) *Entity {
	e, err := f.New(class, slug)
	if err != nil {
		panic(fmt.Sprintf("model: %v", err))
	}
	return e
}

// IsAbsoluteIRI reports whether s is an http(s) or urn identifier.
func IsAbsoluteIRI(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "urn:")
}
