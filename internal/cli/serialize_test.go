package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSerializeCmd(t *testing.T, format string, args ...string) (string, string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewSerializeCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), errBuf.String(), err
}

func TestSerializeMatchesGolden(t *testing.T) {
	for _, name := range []string{"purchase", "payment", "rejections", "timespan"} {
		t.Run(name, func(t *testing.T) {
			output, _, err := runSerializeCmd(t, "text", filepath.Join(scenariosDir, name+".yaml"))
			require.NoError(t, err)

			golden, err := os.ReadFile(filepath.Join(scenariosDir, "golden", name+".golden"))
			require.NoError(t, err)
			assert.Equal(t, string(golden)+"\n", output)
		})
	}
}

func TestSerializeExpanded(t *testing.T) {
	output, _, err := runSerializeCmd(t, "text", filepath.Join(scenariosDir, "purchase.yaml"), "--compact=false")
	require.NoError(t, err)
	assert.Contains(t, output, `"type": "http://www.cidoc-crm.org/cidoc-crm/E96_Purchase"`)
	assert.Contains(t, output, `"http://www.cidoc-crm.org/cidoc-crm/P179_had_sales_price": {`)
}

func TestSerializeFullNamesRequireCompact(t *testing.T) {
	output, _, err := runSerializeCmd(t, "text", filepath.Join(scenariosDir, "purchase.yaml"), "--compact=false", "--full-names")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "full names require compact output")
}

func TestSerializeContextURIAndIndent(t *testing.T) {
	output, _, err := runSerializeCmd(t, "text", filepath.Join(scenariosDir, "purchase.yaml"),
		"--context-uri", "https://linked.art/ns/v1/linked-art.json", "--indent", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, `{"@context":"https://linked.art/ns/v1/linked-art.json","id":"https://data.example.org/Purchase/sale-1"`))
	assert.Equal(t, 1, strings.Count(output, "\n"))
}

func TestSerializeUUIDIdentifiers(t *testing.T) {
	output, _, err := runSerializeCmd(t, "text", filepath.Join(scenariosDir, "purchase.yaml"), "--uuid")
	require.NoError(t, err)
	assert.NotContains(t, output, "urn:uuid:00000000-0000-4000-8000-000000000001")
	assert.Contains(t, output, `"id": "urn:uuid:`)
}

func TestSerializeJSON(t *testing.T) {
	output, _, err := runSerializeCmd(t, "json", filepath.Join(scenariosDir, "rejections.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Document     map[string]any `json:"document"`
			SchemaHash   string         `json:"schema_hash"`
			DocumentHash string         `json:"document_hash"`
			Warnings     []string       `json:"warnings"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "LinguisticObject", resp.Data.Document["type"])
	assert.NotEmpty(t, resp.Data.SchemaHash)
	assert.NotEmpty(t, resp.Data.DocumentHash)
	assert.Len(t, resp.Data.Warnings, 1)
}

func TestSerializeWarningsGoToStderr(t *testing.T) {
	output, errOutput, err := runSerializeCmd(t, "text", filepath.Join(scenariosDir, "rejections.yaml"))
	require.NoError(t, err)
	assert.NotContains(t, output, "warning:")
	assert.Contains(t, errOutput, "warning: ")
}

func TestSerializeMetrics(t *testing.T) {
	output, _, err := runSerializeCmd(t, "json", filepath.Join(scenariosDir, "purchase.yaml"), "--metrics")
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Metrics map[string]float64 `json:"metrics"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Positive(t, resp.Data.Metrics[`provgraph_assignments_total{result="accepted"}`])
	assert.Equal(t, float64(1), resp.Data.Metrics["provgraph_serialize_duration_seconds_count"])
}

func TestSerializeFailingScenario(t *testing.T) {
	dir := t.TempDir()
	path := writePersonScenario(t, dir, "person", "Alice")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.Replace(data, []byte("    value: Alice\n"), []byte("    value: Bob\n"), 1)
	require.NoError(t, os.WriteFile(path, data, 0644))

	output, errOutput, err := runSerializeCmd(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, `"label": "Alice"`)
	assert.Contains(t, errOutput, "error: Assertion failed: path_equals at label")
}

func TestSerializeMissingScenario(t *testing.T) {
	output, _, err := runSerializeCmd(t, "text", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "E_SCENARIO")
}
