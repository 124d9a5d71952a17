package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provgraph/internal/schema"
	"github.com/roach88/provgraph/internal/testutil"
)

func TestSaveSchemaIsIdempotentByHash(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	first, err := s.SaveSchema(ctx, sampleRecords(), nil, "initial")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, 2, first.RecordCount)
	assert.Equal(t, "initial", first.Label)

	want, err := schema.Hash(sampleRecords(), nil)
	require.NoError(t, err)
	assert.Equal(t, want, first.Hash)

	again, err := s.SaveSchema(ctx, sampleRecords(), nil, "relabeled")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	versions, err := s.ListSchemas(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestLoadSchemaRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	v, err := s.SaveSchema(ctx, sampleRecords(), nil, "")
	require.NoError(t, err)

	records, err := s.LoadSchema(ctx, v.Hash, nil)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), records)

	_, err = s.LoadSchema(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCompiledFixtureSchema(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	compiled := testutil.FixtureRecords(t)

	v, err := s.SaveSchema(ctx, compiled, nil, "fixture")
	require.NoError(t, err)
	assert.Equal(t, len(compiled), v.RecordCount)

	loaded, err := s.LoadSchema(ctx, v.Hash, nil)
	require.NoError(t, err)
	reHash, err := schema.Hash(loaded, nil)
	require.NoError(t, err)
	assert.Equal(t, v.Hash, reHash)
}

func TestLatestAndListSchemas(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestSchema(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	empty, err := s.ListSchemas(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	v1, err := s.SaveSchema(ctx, sampleRecords(), nil, "v1")
	require.NoError(t, err)

	changed := sampleRecords()
	changed[1].Cardinality = schema.Multiple
	v2, err := s.SaveSchema(ctx, changed, nil, "v2")
	require.NoError(t, err)
	assert.NotEqual(t, v1.Hash, v2.Hash)

	latest, err := s.LatestSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, v2, latest)

	all, err := s.ListSchemas(ctx)
	require.NoError(t, err)
	assert.Equal(t, []SchemaVersion{v1, v2}, all)
}

func TestDefaultClockContinuesAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	v1, err := s1.SaveSchema(ctx, sampleRecords(), nil, "")
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	changed := sampleRecords()
	changed[0].Label = "Human"
	v2, err := s2.SaveSchema(ctx, changed, nil, "")
	require.NoError(t, err)
	assert.Greater(t, v2.Seq, v1.Seq)
}
