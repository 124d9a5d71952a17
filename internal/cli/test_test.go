package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenariosDir = filepath.Join("..", "..", "testdata", "scenarios")

// writePersonScenario writes a one-entity scenario whose schema paths are
// absolute, so it runs from any directory.
func writePersonScenario(t *testing.T, dir, name, label string) string {
	t.Helper()

	abs, err := filepath.Abs(ontologyDir)
	require.NoError(t, err)

	data := fmt.Sprintf(`name: %s
description: "a labelled person"
schema:
  ontology:
    - %s
    - %s
  key_order: %s
  names: %s
  profile: %s
root: p
entities:
  - key: p
    class: Person
    slug: alice
    set:
      - property: label
        string: %s
assertions:
  - type: path_equals
    path: [label]
    value: %s
`, name,
		filepath.Join(abs, "cidoc-mini.rdf"),
		filepath.Join(abs, "linkedart-mini.ttl"),
		filepath.Join(abs, "key_order.yaml"),
		filepath.Join(abs, "names.yaml"),
		filepath.Join(abs, "profile.yaml"),
		label, label)

	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func runTestCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCmd(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := runTestCmd(t, "text", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	output, err := runTestCmd(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, output, "No scenarios found.")

	output, err = runTestCmd(t, "json", t.TempDir())
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestTestCommandFixtureScenarios(t *testing.T) {
	output, err := runTestCmd(t, "text", scenariosDir)
	require.NoError(t, err, output)

	for _, name := range []string{"payment", "purchase", "rejections", "timespan"} {
		assert.Contains(t, output, "✓ "+name)
	}
	assert.Contains(t, output, "Test Summary: 4 passed, 0 failed, 4 total")
	assert.Contains(t, output, "✓ All scenarios passed")
}

func TestTestCommandFilter(t *testing.T) {
	output, err := runTestCmd(t, "json", scenariosDir, "--filter", "pay*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "payment", resp.Data.Scenarios[0].Name)
	assert.NotEmpty(t, resp.Data.Scenarios[0].DocumentHash)
}

func TestTestCommandInvalidFilter(t *testing.T) {
	_, err := runTestCmd(t, "text", scenariosDir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandUpdateAndCompareGolden(t *testing.T) {
	dir := t.TempDir()
	writePersonScenario(t, dir, "person", "Alice")

	output, err := runTestCmd(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ person (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "person.golden"))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"id": "https://data.example.org/Person/alice"`)
	assert.Contains(t, string(golden), `"label": "Alice"`)

	output, err = runTestCmd(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ person")

	// A changed label no longer matches the recorded document.
	writePersonScenario(t, dir, "person", "Alicia")
	output, err = runTestCmd(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ person")
	assert.Contains(t, output, "does not match golden file")
}

func TestTestCommandFailingAssertion(t *testing.T) {
	dir := t.TempDir()
	path := writePersonScenario(t, dir, "person", "Alice")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.Replace(data, []byte("    value: Alice\n"), []byte("    value: Bob\n"), 1)
	require.NoError(t, os.WriteFile(path, data, 0644))

	output, err := runTestCmd(t, "json", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	require.NotEmpty(t, resp.Data.Scenarios[0].Errors)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "path_equals at label")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0644))

	output, err := runTestCmd(t, "text", dir)
	require.Error(t, err)
	assert.Contains(t, output, "✗ broken.yaml")
	assert.Contains(t, output, "failed to load scenario")
	assert.Contains(t, output, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestFindScenarioFiles(t *testing.T) {
	files, err := findScenarioFiles(scenariosDir, "")
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, filepath.Join(scenariosDir, "payment.yaml"), files[0])
	assert.Equal(t, filepath.Join(scenariosDir, "timespan.yaml"), files[3])

	files, err = findScenarioFiles(scenariosDir, "{rejections,time*}")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(scenariosDir, "rejections.yaml"),
		filepath.Join(scenariosDir, "timespan.yaml"),
	}, files)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "purchase.golden"),
		goldenFilePath(filepath.Join("scenarios", "purchase.yaml")))
}
