package script

import (
	"bytes"
	"context"
	"testing"

	"github.com/cottand/shift/cell"
	"github.com/cottand/shift/cellerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, settings RunSettings, src string) (*Runner, *cellerr.Errors, string) {
	t.Helper()
	out := &bytes.Buffer{}
	settings.Stdout = out
	prog, errs := ParseString(t.Name(), src)
	require.Empty(t, errs.Errors())

	r, err := NewRunner(settings)
	require.NoError(t, err)
	runErrs, err := r.Run(context.Background(), prog)
	require.NoError(t, err)
	return r, runErrs, out.String()
}

func TestRunCopySemantics(t *testing.T) {
	_, errs, out := runScript(t, RunSettings{}, `
var x int
x << 3
print x
var y int
y << x
print y
x << 4
print x
print y
x >> y
print y
`)
	assert.Empty(t, errs.Errors())
	assert.Equal(t, "x: 3\ny: 3\nx: 4\ny: 3\ny: 4\n", out)
}

func TestRunExpressions(t *testing.T) {
	r, errs, _ := runScript(t, RunSettings{}, `
var a int
a << 1 << 3
var f float64
f << 4.5
var s string
s << "hello, " + "world"
var b bool
b << 2 > 1
var small int8
small << int8(7)
var r rune
r << rune('x')
import "strings"
var up string
up << strings.ToUpper("shout")
`)
	require.Empty(t, errs.Errors())

	expected := map[string]any{
		"a":     8,
		"f":     4.5,
		"s":     "hello, world",
		"b":     true,
		"small": int8(7),
		"r":     'x',
		"up":    "SHOUT",
	}
	for name, want := range expected {
		c, ok := r.Lookup(name)
		require.True(t, ok, name)
		got, set := c.Value()
		assert.True(t, set, name)
		assert.Equal(t, want, got, name)
	}
}

func TestRunStopsAtFirstError(t *testing.T) {
	r, errs, out := runScript(t, RunSettings{}, `
var z string
z << "hello"
z << 42
print z
`)
	require.Len(t, errs.Errors(), 1)
	err := errs.Errors()[0]
	assert.Equal(t, cellerr.TypeMismatch, err.Code())
	assert.Equal(t, 4, err.Line())
	assert.Empty(t, out)

	z, _ := r.Lookup("z")
	assert.Equal(t, "hello", z.String())
}

func TestRunContinueOnError(t *testing.T) {
	_, errs, out := runScript(t, RunSettings{ContinueOnError: true}, `
var z string
z << "hello"
z << 42
var y int
y << z
print z
`)
	require.Len(t, errs.Errors(), 2)
	assert.Equal(t, 4, errs.Errors()[0].Line())
	assert.Equal(t, 6, errs.Errors()[1].Line())
	assert.Equal(t, ""+
		"Error: type mismatch: expected type 'string', got 'int'\n"+
		"Error: type mismatch: cannot assign 'string' to 'int'\n"+
		"z: hello\n", out)
}

func TestRunErrorKinds(t *testing.T) {
	cases := map[string]struct {
		src  string
		code cellerr.ErrCode
	}{
		"unknown type":        {"var x str", cellerr.InvalidType},
		"redeclared":          {"var x int\nvar x int", cellerr.Redeclared},
		"undeclared target":   {"x << 1", cellerr.UndefinedCell},
		"undeclared source":   {"var x int\nx << nope", cellerr.UndefinedCell},
		"undeclared print":    {"print x", cellerr.UndefinedCell},
		"undeclared transfer": {"var x int\nx << 1\nx >> y", cellerr.UndefinedCell},
		"bad expression":      {"var x int\nx << 1 +", cellerr.Eval},
		"uninitialized":       {"var x int\nvar y int\nx >> y", cellerr.Uninitialized},
		"transfer mismatch":   {"var x int\nvar y string\nx << 1\nx >> y", cellerr.TypeMismatch},
		"bad import":          {`import "does/not/exist"`, cellerr.Eval},
		"float overflow":      {"var f float64\nf << 1e400", cellerr.Eval},
		"int overflow":        {"var i int\ni << 1 << 70", cellerr.Eval},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, errs, _ := runScript(t, RunSettings{}, tc.src)
			require.Len(t, errs.Errors(), 1)
			assert.Equal(t, tc.code, errs.Errors()[0].Code(), errs.Errors()[0].Error())
		})
	}
}

func TestRunConstantOverflowLeavesCellUnset(t *testing.T) {
	r, errs, out := runScript(t, RunSettings{ContinueOnError: true}, "var f float64\nf << 1e400\nprint f")
	require.Len(t, errs.Errors(), 1)
	assert.Contains(t, errs.Errors()[0].Error(), "overflows float64")
	assert.Equal(t, 2, errs.Errors()[0].Line())

	f, _ := r.Lookup("f")
	assert.False(t, f.IsSet())
	assert.Contains(t, out, "f: Uninitialized cell of type float64\n")
}

func TestRunStrictCellAssign(t *testing.T) {
	src := "var x int\nvar y int\ny << 1\ny << x\nprint y"

	_, errs, out := runScript(t, RunSettings{}, src)
	assert.Empty(t, errs.Errors())
	assert.Equal(t, "y: Uninitialized cell of type int\n", out)

	_, errs, out = runScript(t, RunSettings{Cell: cell.Settings{StrictCellAssign: true}}, src)
	require.Len(t, errs.Errors(), 1)
	assert.Equal(t, cellerr.Uninitialized, errs.Errors()[0].Code())
	assert.Empty(t, out)
}

type celsius float64

func TestRunCustomUniverse(t *testing.T) {
	u, err := cell.Builtins().With("celsius", cell.TypeOf[celsius]())
	require.NoError(t, err)

	r, errs, _ := runScript(t, RunSettings{Universe: u}, "var t celsius\nvar f float64\nf << 1.5\nf >> t")
	require.Len(t, errs.Errors(), 1)
	assert.Equal(t, cellerr.TypeMismatch, errs.Errors()[0].Code())
	assert.Contains(t, errs.Errors()[0].Error(), "script.celsius")

	c, ok := r.Lookup("t")
	require.True(t, ok)
	assert.False(t, c.IsSet())
}

func TestRunSnapshot(t *testing.T) {
	r, errs, _ := runScript(t, RunSettings{}, "var b string\nvar a int\na << 0")
	require.Empty(t, errs.Errors())

	assert.Equal(t, []Entry{
		{Name: "b", Type: "string", Value: "Uninitialized cell of type string", Set: false, Line: 1},
		{Name: "a", Type: "int", Value: "0", Set: true, Line: 2},
	}, r.Snapshot())
}

func TestRunCancelled(t *testing.T) {
	prog, errs := ParseString("cancelled", "var x int\nx << 1")
	require.Empty(t, errs.Errors())
	r, err := NewRunner(RunSettings{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runErrs, err := r.Run(ctx, prog)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, runErrs.Errors())
	_, declared := r.Lookup("x")
	assert.False(t, declared)
}
