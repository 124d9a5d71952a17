package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "provgraph", cmd.Use)
	assert.Contains(t, cmd.Long, "JSON-LD")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "serialize", "test", "schemas"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	langFlag := compileCmd.Flags().Lookup("lang")
	require.NotNil(t, langFlag)
	assert.Equal(t, "en", langFlag.DefValue)

	for _, name := range []string{"glob", "key-order", "names", "profile", "profile-only", "db", "label"} {
		assert.NotNil(t, compileCmd.Flags().Lookup(name), name)
	}
}

func TestValidateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	validateCmd, _, err := cmd.Find([]string{"validate"})
	require.NoError(t, err)

	strictFlag := validateCmd.Flags().Lookup("strict")
	require.NotNil(t, strictFlag)
	assert.Equal(t, "false", strictFlag.DefValue)

	require.NotNil(t, validateCmd.Flags().Lookup("extensions"))
	builtinFlag := validateCmd.Flags().Lookup("builtin")
	require.NotNil(t, builtinFlag)
	assert.Contains(t, builtinFlag.Usage, "payment")
}

func TestSerializeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serializeCmd, _, err := cmd.Find([]string{"serialize"})
	require.NoError(t, err)

	compactFlag := serializeCmd.Flags().Lookup("compact")
	require.NotNil(t, compactFlag)
	assert.Equal(t, "true", compactFlag.DefValue)

	indentFlag := serializeCmd.Flags().Lookup("indent")
	require.NotNil(t, indentFlag)
	assert.Equal(t, "  ", indentFlag.DefValue)

	for _, name := range []string{"full-names", "context-uri", "uuid", "metrics", "db"} {
		assert.NotNil(t, serializeCmd.Flags().Lookup(name), name)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestSchemasCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	schemasCmd, _, err := cmd.Find([]string{"schemas"})
	require.NoError(t, err)

	dbFlag := schemasCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// --db is required, so default is empty
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	assert.Contains(t, cmd.Short, "provgraph")
	assert.Contains(t, cmd.Long, "provenance graphs")
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "compile", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
