package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecAssignAndIncrement(t *testing.T) {
	in := &Interp{}
	env := NewEnv()

	errs := in.Exec("counter = 0; counter++; counter++", env)
	assert.Nil(t, errs)
	assert.Equal(t, int64(2), env["counter"])

	errs = in.Exec("counter--", env)
	assert.Nil(t, errs)
	assert.Equal(t, int64(1), env["counter"])
}

func TestExecNewlineSeparatedStatements(t *testing.T) {
	in := &Interp{}
	env := NewEnv()

	errs := in.Exec("a = 1\nb = a + 1\nc = b * 2", env)
	assert.Nil(t, errs)
	assert.Equal(t, int64(1), env["a"])
	assert.Equal(t, int64(2), env["b"])
	assert.Equal(t, int64(4), env["c"])
}

func TestExecUnicodeIdentifiers(t *testing.T) {
	in := &Interp{}
	env := NewEnv()

	errs := in.Exec("señal = 1; señal++", env)
	assert.Nil(t, errs)
	assert.Equal(t, int64(2), env["señal"])
}

func TestExecContinuesPastFailure(t *testing.T) {
	in := &Interp{}
	env := NewEnv()

	errs := in.Exec("a = 1; b = missing + 1; c = 3", env)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrUndefinedName)

	// The statements around the failing one still ran.
	assert.Equal(t, int64(1), env["a"])
	assert.Equal(t, int64(3), env["c"])
	_, defined := env["b"]
	assert.False(t, defined)
}

func TestExecStrictStopsAtFailure(t *testing.T) {
	in := &Interp{}
	env := NewEnv()

	err := in.ExecStrict("a = 1; b = missing + 1; c = 3", env)
	require.ErrorIs(t, err, ErrUndefinedName)

	assert.Equal(t, int64(1), env["a"])
	_, defined := env["c"]
	assert.False(t, defined)
}

func TestExecIncrementErrors(t *testing.T) {
	in := &Interp{}

	err := in.ExecStmt("ghost++", NewEnv())
	assert.ErrorIs(t, err, ErrUndefinedName)

	err = in.ExecStmt("label++", Env{"label": "idle"})
	assert.ErrorIs(t, err, ErrBadOperand)
}

func TestExecExpressionStatement(t *testing.T) {
	var lines []string
	in := &Interp{Trace: func(msg string) { lines = append(lines, msg) }}
	env := Env{"n": int64(7)}

	errs := in.Exec("print('n is', n)", env)
	assert.Nil(t, errs)
	assert.Equal(t, []string{"n is 7"}, lines)
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		source string
		want   []string
	}{
		{"", nil},
		{"  \n ; ", nil},
		{"a = 1", []string{"a = 1"}},
		{"a = 1; b = 2", []string{"a = 1", "b = 2"}},
		{"a = 1\nb = 2", []string{"a = 1", "b = 2"}},
		{"msg = 'a;b'; n = 1", []string{"msg = 'a;b'", "n = 1"}},
		{"a = 1 # set a; not two stmts\nb = 2", []string{"a = 1", "b = 2"}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, SplitStatements(tc.source), tc.source)
	}
}
