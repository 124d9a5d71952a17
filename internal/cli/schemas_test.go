package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/provgraph/internal/store"
)

func runSchemasCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewSchemasCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSchemasListsStoredVersions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "provgraph.db")

	// Both scenarios build against the same compiled schema.
	for _, name := range []string{"purchase", "purchase", "payment"} {
		_, _, err := runSerializeCmd(t, "text", filepath.Join(scenariosDir, name+".yaml"), "--db", dbPath)
		require.NoError(t, err)
	}

	output, err := runSchemasCmd(t, "json", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string          `json:"status"`
		Data   []SchemaSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "purchase", resp.Data[0].Label)
	assert.Equal(t, int64(1), resp.Data[0].Seq)
	assert.Equal(t, 2, resp.Data[0].Documents)
	assert.Positive(t, resp.Data[0].Records)

	output, err = runSchemasCmd(t, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, output, "SEQ")
	assert.Contains(t, output, "DOCUMENTS")
	assert.Contains(t, output, resp.Data[0].Hash)
	assert.Contains(t, output, "purchase")
}

func TestSchemasWithCompiledVersion(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "provgraph.db")

	cmd := NewCompileCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(fixtureCompileArgs("--db", dbPath, "--label", "fixture v1"))
	require.NoError(t, cmd.Execute())

	output, err := runSchemasCmd(t, "json", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data []SchemaSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "fixture v1", resp.Data[0].Label)
	assert.Zero(t, resp.Data[0].Documents)
}

func TestSchemasEmptyStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "provgraph.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	output, err := runSchemasCmd(t, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, output, "No schema versions stored.")

	output, err = runSchemasCmd(t, "json", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, output, `"data":[]`)
}

func TestSchemasMissingDatabase(t *testing.T) {
	output, err := runSchemasCmd(t, "text", "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "E_NOT_FOUND")
}

func TestSchemasRequiresDB(t *testing.T) {
	_, err := runSchemasCmd(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
