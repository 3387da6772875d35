package script

import (
	"fmt"
	"strings"
)

// Exec executes an action block: statements separated by ';' or newlines,
// run in order. Execution continues past a failing statement; every
// failure is collected and returned. A nil result means the whole block
// ran cleanly.
func (in *Interp) Exec(source string, env Env) []error {
	var errs []error
	for _, stmt := range SplitStatements(source) {
		if err := in.ExecStmt(stmt, env); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ExecStrict executes an action block but stops at the first failing
// statement and returns its error. Statements after the failure do not
// run.
func (in *Interp) ExecStrict(source string, env Env) error {
	for _, stmt := range SplitStatements(source) {
		if err := in.ExecStmt(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

// ExecStmt parses and executes a single statement against env.
func (in *Interp) ExecStmt(source string, env Env) error {
	stmt, err := ParseStmt(source)
	if err != nil {
		return err
	}

	ev := in.newEvalState(env)
	switch node := stmt.(type) {
	case *Assign:
		v, err := ev.eval(node.Value)
		if err != nil {
			return err
		}
		env[node.Name] = v
		return nil
	case *IncDec:
		current, ok := env[node.Name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUndefinedName, node.Name)
		}
		switch n := current.(type) {
		case int64:
			env[node.Name] = n + node.Delta
		case float64:
			env[node.Name] = n + float64(node.Delta)
		default:
			return fmt.Errorf("%w: cannot increment %s of type %s", ErrBadOperand, node.Name, typeName(current))
		}
		return nil
	case *ExprStmt:
		_, err := ev.eval(node.X)
		return err
	}
	return nil
}

// SplitStatements breaks an action block into individual statements on
// ';' and newline boundaries, ignoring separators inside string literals
// and comments. Blank fragments are dropped.
func SplitStatements(source string) []string {
	var (
		stmts   []string
		sb      strings.Builder
		quote   byte
		comment bool
	)

	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			stmts = append(stmts, s)
		}
		sb.Reset()
	}

	for i := 0; i < len(source); i++ {
		ch := source[i]

		if comment {
			if ch == '\n' {
				comment = false
				flush()
			}
			continue
		}

		if quote != 0 {
			sb.WriteByte(ch)
			if ch == '\\' && i+1 < len(source) {
				i++
				sb.WriteByte(source[i])
			} else if ch == quote {
				quote = 0
			}
			continue
		}

		switch ch {
		case '\'', '"':
			quote = ch
			sb.WriteByte(ch)
		case '#':
			comment = true
		case ';', '\n':
			flush()
		default:
			sb.WriteByte(ch)
		}
	}
	flush()

	return stmts
}
