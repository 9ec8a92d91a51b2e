package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cottand/shift/script"
)

const demoOutput = `x: 3
y: 3
x: 4
y: 3
y: 4
z: hello, world
Error: type mismatch: expected type 'string', got 'int'
Error: type mismatch: cannot assign 'string' to 'int'
`

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.shift")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func resetRunFlags(t *testing.T) {
	t.Helper()
	*continueOnError = false
	*strictAssign = false
	*dumpFormat = dumpNone
}

func TestDemo(t *testing.T) {
	out := &bytes.Buffer{}
	DemoCmd.SetOut(out)
	DemoCmd.SetArgs([]string{})
	require.NoError(t, DemoCmd.Execute())
	assert.Equal(t, demoOutput, out.String())
}

func TestRunStopsOnError(t *testing.T) {
	resetRunFlags(t)
	path := writeScript(t, "var z string\nz << \"hello\"\nprint z\nz << 42\nprint z\n")

	out := &bytes.Buffer{}
	RunCmd.SetOut(out)
	RunCmd.SetErr(&bytes.Buffer{})
	RunCmd.SetArgs([]string{path})
	err := RunCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4: (E002) type mismatch")
	assert.Equal(t, "z: hello\n", out.String())
}

func TestRunContinueAndDump(t *testing.T) {
	resetRunFlags(t)
	path := writeScript(t, "var x int\nx << 3\nx << \"three\"\nvar y int\n")

	out := &bytes.Buffer{}
	RunCmd.SetOut(out)
	RunCmd.SetArgs([]string{"--continue", "--dump", "yaml", path})
	require.NoError(t, RunCmd.Execute())

	errLine, dump, found := bytes.Cut(out.Bytes(), []byte("\n"))
	require.True(t, found)
	assert.Equal(t, "Error: type mismatch: expected type 'int', got 'string'", string(errLine))

	var decoded map[string][]script.Entry
	require.NoError(t, yaml.Unmarshal(dump, &decoded))
	assert.Equal(t, []script.Entry{
		{Name: "x", Type: "int", Value: "3", Set: true, Line: 1},
		{Name: "y", Type: "int", Value: "Uninitialized cell of type int", Set: false, Line: 4},
	}, decoded["cells"])
}

func TestRunParseErrors(t *testing.T) {
	resetRunFlags(t)
	path := writeScript(t, "var x\nx = 3\n")

	RunCmd.SetOut(&bytes.Buffer{})
	RunCmd.SetErr(&bytes.Buffer{})
	RunCmd.SetArgs([]string{path})
	err := RunCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "errors found while parsing")
	assert.Contains(t, err.Error(), "line 1:")
	assert.Contains(t, err.Error(), "line 2:")
}

func TestRunUnknownDump(t *testing.T) {
	resetRunFlags(t)
	path := writeScript(t, "var x int\n")

	RunCmd.SetOut(&bytes.Buffer{})
	RunCmd.SetErr(&bytes.Buffer{})
	RunCmd.SetArgs([]string{"--dump", "json", path})
	err := RunCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dump format 'json'")
}

func TestTypes(t *testing.T) {
	out := &bytes.Buffer{}
	TypesCmd.SetOut(out)
	TypesCmd.SetArgs([]string{})
	require.NoError(t, TypesCmd.Execute())
	assert.Contains(t, out.String(), "byte         uint8\n")
	assert.Contains(t, out.String(), "string       string\n")
}
