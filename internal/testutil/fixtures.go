package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/provgraph/internal/compiler"
	"github.com/roach88/provgraph/internal/ontology"
	"github.com/roach88/provgraph/internal/schema"
)

// FixtureDir returns the absolute path of testdata/ontology at the
// repository root.
func FixtureDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", "ontology")
}

// FixturePath returns the path of one ontology fixture file.
func FixturePath(name string) string {
	return filepath.Join(FixtureDir(), name)
}

// FixtureOverrides loads the fixture key-order, names and profile tables.
func FixtureOverrides(t testing.TB) compiler.Overrides {
	t.Helper()
	ov, err := compiler.LoadOverrides(
		FixturePath("key_order.yaml"),
		FixturePath("names.yaml"),
		FixturePath("profile.yaml"),
	)
	require.NoError(t, err)
	return ov
}

// FixtureRecords compiles the CIDOC and Linked Art fixtures with their
// override tables.
func FixtureRecords(t testing.TB) []schema.Record {
	t.Helper()
	g, err := ontology.ReadFiles([]string{
		FixturePath("cidoc-mini.rdf"),
		FixturePath("linkedart-mini.ttl"),
	})
	require.NoError(t, err)
	records, err := compiler.Compile(g, FixtureOverrides(t))
	require.NoError(t, err)
	return records
}
