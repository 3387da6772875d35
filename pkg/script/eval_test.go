package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalEmptyExpressionIsTrue(t *testing.T) {
	in := &Interp{}

	for _, src := range []string{"", "   ", "\n\t"} {
		v, err := in.Eval(src, NewEnv())
		require.NoError(t, err)
		assert.Equal(t, true, v)
	}
}

func TestEvalArithmetic(t *testing.T) {
	in := &Interp{}
	env := Env{"x": int64(10), "y": 2.5}

	tests := []struct {
		expr string
		want any
	}{
		{"1 + 2", int64(3)},
		{"x - 4", int64(6)},
		{"x * 2", int64(20)},
		{"x / 2", int64(5)},
		{"x / 4", 2.5},
		{"x % 3", int64(1)},
		{"x + y", 12.5},
		{"-x", int64(-10)},
		{"(1 + 2) * 3", int64(9)},
		{"'ab' + 'cd'", "abcd"},
		{"[1, 2] + [3]", []any{int64(1), int64(2), int64(3)}},
	}
	for _, tc := range tests {
		v, err := in.Eval(tc.expr, env)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, v, tc.expr)
	}
}

func TestEvalComparisonsAndBooleans(t *testing.T) {
	in := &Interp{}
	env := Env{"counter": int64(3), "name": "idle", "armed": true}

	tests := []struct {
		expr string
		want bool
	}{
		{"counter == 3", true},
		{"counter != 3", false},
		{"counter > 2 and counter < 5", true},
		{"counter > 5 or armed", true},
		{"not armed", false},
		{"name == 'idle'", true},
		{"name < 'jet'", true},
		{"1.0 == 1", true},
		{"counter >= 3 && name == 'idle'", true},
		{"!armed || counter == 3", true},
	}
	for _, tc := range tests {
		got, err := in.EvalBool(tc.expr, env)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got, tc.expr)
	}
}

func TestEvalShortCircuit(t *testing.T) {
	in := &Interp{}
	env := Env{"flag": false}

	// The right operand references an undefined name; short-circuiting
	// means it is never evaluated.
	got, err := in.EvalBool("flag and missing > 1", env)
	require.NoError(t, err)
	assert.False(t, got)

	got, err = in.EvalBool("true or missing > 1", env)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvalUndefinedVariable(t *testing.T) {
	in := &Interp{}

	_, err := in.Eval("missing + 1", NewEnv())
	require.ErrorIs(t, err, ErrUndefinedName)
}

func TestEvalSyntaxError(t *testing.T) {
	in := &Interp{}

	_, err := in.Eval("1 +", NewEnv())
	require.ErrorIs(t, err, ErrSyntax)

	_, err = in.Eval("x == ", NewEnv())
	require.ErrorIs(t, err, ErrSyntax)

	_, err = in.Eval("a b", NewEnv())
	require.ErrorIs(t, err, ErrSyntax)
}

func TestEvalDivisionByZero(t *testing.T) {
	in := &Interp{}

	_, err := in.Eval("1 / 0", NewEnv())
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = in.Eval("5 % 0", NewEnv())
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestEvalIndexing(t *testing.T) {
	in := &Interp{}
	env := Env{"readings": []any{int64(4), int64(8), int64(15)}, "tag": "abc"}

	v, err := in.Eval("readings[1]", env)
	require.NoError(t, err)
	assert.Equal(t, int64(8), v)

	v, err = in.Eval("tag[0]", env)
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	_, err = in.Eval("readings[9]", env)
	require.ErrorIs(t, err, ErrBadIndex)

	_, err = in.Eval("readings['x']", env)
	require.ErrorIs(t, err, ErrBadIndex)
}

func TestEvalUnicodeStrings(t *testing.T) {
	in := &Interp{}
	env := Env{"label": "héllo", "température": int64(31)}

	// Strings subscript by character, not byte.
	v, err := in.Eval("label[1]", env)
	require.NoError(t, err)
	assert.Equal(t, "é", v)

	_, err = in.Eval("label[5]", env)
	require.ErrorIs(t, err, ErrBadIndex)

	// Identifiers may carry non-ASCII letters.
	got, err := in.EvalBool("température >= 30", env)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestEvalBuiltins(t *testing.T) {
	in := &Interp{}
	env := Env{"vals": []any{int64(3), int64(9), int64(1)}}

	tests := []struct {
		expr string
		want any
	}{
		{"abs(-4)", int64(4)},
		{"abs(-4.5)", 4.5},
		{"len('hello')", int64(5)},
		{"len(vals)", int64(3)},
		{"min(vals)", int64(1)},
		{"max(3, 7, 5)", int64(7)},
		{"int(3.9)", int64(3)},
		{"int('42')", int64(42)},
		{"float(3)", 3.0},
		{"str(12)", "12"},
		{"bool(0)", false},
		{"bool('x')", true},
		{"round(2.5)", int64(3)},
	}
	for _, tc := range tests {
		v, err := in.Eval(tc.expr, env)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, v, tc.expr)
	}
}

func TestEvalUnknownFunction(t *testing.T) {
	in := &Interp{}

	_, err := in.Eval("launch()", NewEnv())
	require.ErrorIs(t, err, ErrUnknownFunc)
}

func TestEvalHostFunction(t *testing.T) {
	var gotArgs []any
	in := &Interp{
		Funcs: map[string]HostFunc{
			"read_sensor": func(args []any) (any, error) {
				gotArgs = args
				return int64(42), nil
			},
		},
	}

	v, err := in.Eval("read_sensor(2) > 40", Env{})
	require.NoError(t, err)
	assert.Equal(t, true, v)
	assert.Equal(t, []any{int64(2)}, gotArgs)
}

func TestEvalPrintGoesToTrace(t *testing.T) {
	var lines []string
	in := &Interp{Trace: func(msg string) { lines = append(lines, msg) }}

	_, err := in.Eval("print('hello', 42)", NewEnv())
	require.NoError(t, err)
	assert.Equal(t, []string{"hello 42"}, lines)
}

func TestEvalBudgetExceeded(t *testing.T) {
	in := &Interp{Budget: 5}

	_, err := in.Eval("1 + 2 + 3 + 4 + 5 + 6 + 7", NewEnv())
	require.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestEvalPythonLiterals(t *testing.T) {
	in := &Interp{}

	v, err := in.Eval("True", NewEnv())
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = in.Eval("None == null", NewEnv())
	require.NoError(t, err)
	assert.Equal(t, true, v)
}
