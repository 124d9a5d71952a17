package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/provgraph/internal/schema"
	"github.com/roach88/provgraph/internal/testutil"
)

// createTestStore opens a fresh store with a deterministic clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewDeterministicClock()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// sampleRecords is a two-record schema: one class and one property.
func sampleRecords() []schema.Record {
	return []schema.Record{
		{
			URI:   schema.NSCRM + "E21_Person",
			Kind:  schema.KindClass,
			Name:  "Person",
			Label: "Person",
			Usage: schema.UsageOK,
		},
		{
			URI:         schema.NSCRM + "P3_has_note",
			Kind:        schema.KindProperty,
			Name:        "note",
			Label:       "has note",
			Domain:      schema.NSCRM + "E21_Person",
			Range:       schema.NSRDFS + "Literal",
			KeyOrder:    schema.DefaultKeyOrder,
			Usage:       schema.UsageOK,
			Cardinality: schema.Single,
		},
	}
}
