package model

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provgraph/internal/registry"
	"github.com/roach88/provgraph/internal/testutil"
)

func newTestFactory(t *testing.T, opts ...FactoryOption) *Factory {
	t.Helper()
	reg, err := registry.Load(testutil.FixtureRecords(t))
	require.NoError(t, err)
	opts = append([]FactoryOption{WithIDGenerator(testutil.NewSequenceIDGenerator())}, opts...)
	return NewFactory(reg, opts...)
}

func TestFactoryIdentifiers(t *testing.T) {
	f := newTestFactory(t, WithBaseURL("https://museum.example.org/data"))

	e, err := f.New("Purchase", "sale-1")
	require.NoError(t, err)
	assert.Equal(t, "https://museum.example.org/data/Purchase/sale-1", e.ID())
	assert.Equal(t, "sale-1", e.Slug())
	assert.Equal(t, "Purchase", e.TypeName())

	anon, err := f.New("MonetaryAmount", "")
	require.NoError(t, err)
	assert.Equal(t, testutil.SequenceID(1), anon.ID())
	assert.Empty(t, anon.Slug())

	aat, err := f.New("Type", "http://vocab.getty.edu/aat/300033618")
	require.NoError(t, err)
	assert.Equal(t, "http://vocab.getty.edu/aat/300033618", aat.ID())

	_, err = f.New("Painting", "x")
	assert.True(t, registry.IsUnknownClass(err))
}

func TestDefaultFactory(t *testing.T) {
	reg, err := registry.Load(testutil.FixtureRecords(t))
	require.NoError(t, err)
	f := NewFactory(reg)

	e := f.MustNew("Person", "")
	assert.Regexp(t, `^urn:uuid:[0-9a-f-]{36}$`, e.ID())
	assert.Equal(t, DefaultBaseURL+"Person/p1", f.MustNew("Person", "p1").ID())
	assert.Empty(t, f.ContextURI())
	assert.Same(t, reg, f.Registry())

	assert.Panics(t, func() { f.MustNew("Nope", "") })
}

func TestDefaultLanguage(t *testing.T) {
	plain := newTestFactory(t)
	assert.Empty(t, plain.DefaultLanguage())
	assert.Equal(t, String("Study in Blue"), plain.Text("Study in Blue"))

	f := newTestFactory(t, WithDefaultLanguage("EN-gb"))
	assert.Equal(t, "en-GB", f.DefaultLanguage())
	text := f.Text("Study in Blue")
	assert.Equal(t, LangString{Text: "Study in Blue", Lang: "en-GB"}, text)

	e := f.MustNew("Purchase", "sale-1")
	require.NoError(t, e.Set("label", text))
	assert.Equal(t, "Study in Blue", e.Label())
}

func TestValidationGating(t *testing.T) {
	f := newTestFactory(t)
	e := f.MustNew("Purchase", "sale-1")

	err := e.Set("fooBar", String("x"))
	assert.True(t, registry.IsUnknownProperty(err))
	assert.False(t, e.Has("fooBar"))

	require.NoError(t, f.Registry().RegisterProperty("fooBar", registry.PropertySpec{
		URI:    "https://example.org/ns/fooBar",
		Domain: "Purchase",
		Range:  "xsd:string",
	}))
	require.NoError(t, e.Set("fooBar", String("x")))
	assert.Equal(t, String("x"), e.Get("fooBar"))
}

func TestCardinality(t *testing.T) {
	f := newTestFactory(t)
	e := f.MustNew("Purchase", "sale-1")
	first := f.MustNew("Identifier", "")
	second := f.MustNew("Identifier", "")

	require.NoError(t, e.Set("identified_by", first))
	assert.Equal(t, []Value{first}, e.Get("identified_by"))
	require.NoError(t, e.Set("identified_by", second))
	assert.Equal(t, []Value{first, second}, e.Get("identified_by"))

	ts := f.MustNew("TimeSpan", "")
	require.NoError(t, e.Set("timespan", ts))
	assert.Equal(t, ts, e.Get("timespan"))

	// A single-valued property assigned twice keeps both values.
	require.NoError(t, e.Set("timespan", ts))
	assert.Equal(t, []Value{ts, ts}, e.Get("timespan"))

	assert.Nil(t, e.Get("note"))
}

func TestRepeatedAssignmentIsNotDeduplicated(t *testing.T) {
	f := newTestFactory(t)
	e := f.MustNew("LinguisticObject", "")
	require.NoError(t, e.Set("note", String("same")))
	require.NoError(t, e.Set("note", String("same")))
	assert.Equal(t, []Value{String("same"), String("same")}, e.Values("note"))
}

func TestKeysKeepFirstAssignmentOrder(t *testing.T) {
	f := newTestFactory(t)
	e := f.MustNew("Purchase", "sale-1")
	require.NoError(t, e.Set("note", String("a")))
	require.NoError(t, e.Set("label", String("Sale")))
	require.NoError(t, e.Set("note", String("b")))

	assert.Equal(t, []string{"note", "label"}, e.Keys())
	assert.Equal(t, "Sale", e.Label())
	v, ok := e.First("note")
	assert.True(t, ok)
	assert.Equal(t, String("a"), v)
	_, ok = e.First("timespan")
	assert.False(t, ok)
}

func TestRejectedAssignmentLeavesEntityUnchanged(t *testing.T) {
	f := newTestFactory(t)
	e := f.MustNew("Person", "p1")

	err := e.Set("sales_price", f.MustNew("MonetaryAmount", ""))
	assert.True(t, registry.IsDomainError(err))
	err = e.Set("note", nil)
	assert.True(t, registry.IsRangeError(err))

	assert.Empty(t, e.Keys())
	assert.Empty(t, e.Warnings())
}

func TestNilEntityValueIsRejected(t *testing.T) {
	f := newTestFactory(t)
	require.NoError(t, f.Registry().RegisterProperty("anything", registry.PropertySpec{
		URI: "https://example.org/ns/anything",
	}))
	e := f.MustNew("Purchase", "sale-1")

	var missing *Entity
	for _, prop := range []string{"sales_price", "anything"} {
		var err error
		assert.NotPanics(t, func() { err = e.Set(prop, missing) }, prop)
		var re *registry.RangeError
		require.ErrorAs(t, err, &re, prop)
		assert.Equal(t, "nil", re.Got)
	}

	err := e.Set("fooBar", missing)
	assert.True(t, registry.IsUnknownProperty(err))
	assert.Empty(t, e.Keys())
}

func TestWarnOnlyDomainViolation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	f := newTestFactory(t, WithLogger(logger))

	e := f.MustNew("Person", "p1")
	other := f.MustNew("Person", "p2")
	require.NoError(t, e.Set("refers_to", other))

	assert.Equal(t, []Value{other}, e.Values("refers_to"))
	require.Len(t, e.Warnings(), 1)
	assert.True(t, registry.IsWarning(e.Warnings()[0]))
	assert.Contains(t, buf.String(), "domain violation allowed by usage profile")
	assert.Contains(t, buf.String(), "property=refers_to")
}

func TestUnusedClassWarns(t *testing.T) {
	var buf bytes.Buffer
	f := newTestFactory(t, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	// Referenced ancestors are not reported.
	f.MustNew("CRMEntity", "")
	assert.Empty(t, buf.String())

	f.MustNew("Number", "")
	assert.Contains(t, buf.String(), "class is not in the usage profile")
}

func TestDates(t *testing.T) {
	d, err := NewDate("1890-05-01")
	require.NoError(t, err)
	assert.Equal(t, "1890-05-01", d.String())

	_, err = NewDate("May 1890")
	assert.Error(t, err)
	assert.Panics(t, func() { MustDate("nope") })
}

func TestValueKinds(t *testing.T) {
	assert.Equal(t, registry.KindString, String("x").ValueKind())
	assert.Equal(t, registry.KindString, LangString{Text: "x", Lang: "en"}.ValueKind())
	assert.Equal(t, registry.KindNumber, Number(1.5).ValueKind())
	assert.Equal(t, registry.KindNumber, Integer(2).ValueKind())
	assert.Equal(t, registry.KindBool, Bool(true).ValueKind())
	assert.Equal(t, registry.KindDate, MustDate("1890").ValueKind())
	assert.Equal(t, registry.KindEntity, (&Entity{}).ValueKind())
}

func TestDateStringSatisfiesDateRange(t *testing.T) {
	f := newTestFactory(t)
	ts := f.MustNew("TimeSpan", "")
	require.NoError(t, ts.Set("begin_of_the_begin", MustDate("1890-01-01T00:00:00")))
	require.NoError(t, ts.Set("end_of_the_end", String("1890-12-31T23:59:59")))
	assert.True(t, registry.IsRangeError(ts.Set("end_of_the_end", String("late"))))
}
