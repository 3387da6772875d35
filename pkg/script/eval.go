// Package script implements the small embedded language used for guard
// conditions and state/transition actions: a closed-vocabulary lexer,
// recursive-descent parser and tree-walking evaluator. The language has no
// imports, no attribute access and no way to call anything outside a fixed
// builtin allow-list plus host-registered functions, so authored code
// cannot reach the filesystem, the process environment or arbitrary Go
// values. Runaway snippets are cut off by a per-evaluation step budget.
package script

import (
	"fmt"
	"strings"
)

// DefaultBudget is the per-evaluation instruction budget applied when an
// Interp does not set its own.
const DefaultBudget = 250_000

// Interp evaluates expressions and executes statements against an Env.
// The zero value is usable; all fields are optional.
type Interp struct {
	// Funcs are host-registered functions callable from authored code.
	Funcs map[string]HostFunc
	// Trace receives print output and may be nil.
	Trace func(msg string)
	// Budget caps interpreter steps per Eval/Exec'd statement. Zero means
	// DefaultBudget.
	Budget int
}

// Eval parses and evaluates a single expression. An empty or
// whitespace-only expression evaluates to true, which is the "no
// condition" case for transition guards.
func (in *Interp) Eval(source string, env Env) (any, error) {
	if strings.TrimSpace(source) == "" {
		return true, nil
	}

	expr, err := ParseExpr(source)
	if err != nil {
		return nil, err
	}

	ev := in.newEvalState(env)
	return ev.eval(expr)
}

// EvalBool evaluates a guard condition. Any failure is returned as an
// error; callers must treat a failed guard as false.
func (in *Interp) EvalBool(source string, env Env) (bool, error) {
	v, err := in.Eval(source, env)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

func (in *Interp) newEvalState(env Env) *evalState {
	budget := in.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &evalState{in: in, env: env, remaining: budget}
}

// evalState carries per-evaluation bookkeeping, primarily the step budget.
type evalState struct {
	in        *Interp
	env       Env
	remaining int
}

func (ev *evalState) step() error {
	ev.remaining--
	if ev.remaining < 0 {
		return ErrBudgetExceeded
	}
	return nil
}

func (ev *evalState) eval(expr Expr) (any, error) {
	if err := ev.step(); err != nil {
		return nil, err
	}

	switch node := expr.(type) {
	case *Lit:
		return node.Value, nil
	case *Name:
		v, ok := ev.env[node.Ident]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedName, node.Ident)
		}
		return v, nil
	case *ListLit:
		out := make([]any, len(node.Elems))
		for i, elem := range node.Elems {
			v, err := ev.eval(elem)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case *Unary:
		return ev.evalUnary(node)
	case *Binary:
		return ev.evalBinary(node)
	case *Call:
		return ev.evalCall(node)
	case *Index:
		return ev.evalIndex(node)
	}
	return nil, fmt.Errorf("%w: unknown expression node %T", ErrSyntax, expr)
}

func (ev *evalState) evalUnary(node *Unary) (any, error) {
	v, err := ev.eval(node.X)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case NOT:
		return !Truthy(v), nil
	case MINUS:
		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		}
		return nil, fmt.Errorf("%w: cannot negate %s", ErrBadOperand, typeName(v))
	}
	return nil, fmt.Errorf("%w: unknown unary operator", ErrSyntax)
}

func (ev *evalState) evalBinary(node *Binary) (any, error) {
	// Boolean operators short-circuit and return a bool; everything else
	// evaluates both operands.
	switch node.Op {
	case AND:
		left, err := ev.eval(node.X)
		if err != nil {
			return nil, err
		}
		if !Truthy(left) {
			return false, nil
		}
		right, err := ev.eval(node.Y)
		if err != nil {
			return nil, err
		}
		return Truthy(right), nil
	case OR:
		left, err := ev.eval(node.X)
		if err != nil {
			return nil, err
		}
		if Truthy(left) {
			return true, nil
		}
		right, err := ev.eval(node.Y)
		if err != nil {
			return nil, err
		}
		return Truthy(right), nil
	}

	left, err := ev.eval(node.X)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(node.Y)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case EQ:
		return equal(left, right), nil
	case NE:
		return !equal(left, right), nil
	case LT, LE, GT, GE:
		cmp, err := compare(left, right)
		if err != nil {
			return nil, err
		}
		switch node.Op {
		case LT:
			return cmp < 0, nil
		case LE:
			return cmp <= 0, nil
		case GT:
			return cmp > 0, nil
		default:
			return cmp >= 0, nil
		}
	case PLUS:
		return addValues(left, right)
	case MINUS, STAR, SLASH, PERCENT:
		return arithmetic(node.Op, left, right)
	}
	return nil, fmt.Errorf("%w: unknown binary operator", ErrSyntax)
}

// addValues handles numeric addition, string concatenation and list
// concatenation.
func addValues(left, right any) (any, error) {
	if li, ri, ok := bothInts(left, right); ok {
		return li + ri, nil
	}
	if isNumber(left) && isNumber(right) {
		return asFloat(left) + asFloat(right), nil
	}

	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls + rs, nil
		}
	}
	if ll, ok := left.([]any); ok {
		if rl, ok := right.([]any); ok {
			out := make([]any, 0, len(ll)+len(rl))
			out = append(out, ll...)
			out = append(out, rl...)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot add %s and %s", ErrBadOperand, typeName(left), typeName(right))
}

func arithmetic(op TokenKind, left, right any) (any, error) {
	if !isNumber(left) || !isNumber(right) {
		return nil, fmt.Errorf("%w: arithmetic on %s and %s", ErrBadOperand, typeName(left), typeName(right))
	}

	if li, ri, ok := bothInts(left, right); ok {
		switch op {
		case MINUS:
			return li - ri, nil
		case STAR:
			return li * ri, nil
		case SLASH:
			if ri == 0 {
				return nil, ErrDivisionByZero
			}
			if li%ri == 0 {
				return li / ri, nil
			}
			return float64(li) / float64(ri), nil
		case PERCENT:
			if ri == 0 {
				return nil, ErrDivisionByZero
			}
			return li % ri, nil
		}
	}

	lf, rf := asFloat(left), asFloat(right)
	switch op {
	case MINUS:
		return lf - rf, nil
	case STAR:
		return lf * rf, nil
	case SLASH:
		if rf == 0 {
			return nil, ErrDivisionByZero
		}
		return lf / rf, nil
	case PERCENT:
		return nil, fmt.Errorf("%w: modulo needs integer operands", ErrBadOperand)
	}
	return nil, fmt.Errorf("%w: unknown arithmetic operator", ErrSyntax)
}

func (ev *evalState) evalCall(node *Call) (any, error) {
	args := make([]any, len(node.Args))
	for i, argExpr := range node.Args {
		v, err := ev.eval(argExpr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if fn, ok := builtins[node.Fn]; ok {
		return fn(ev.in, args)
	}
	if fn, ok := ev.in.Funcs[node.Fn]; ok {
		return fn(args)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFunc, node.Fn)
}

func (ev *evalState) evalIndex(node *Index) (any, error) {
	container, err := ev.eval(node.X)
	if err != nil {
		return nil, err
	}
	idxVal, err := ev.eval(node.Idx)
	if err != nil {
		return nil, err
	}

	idx, ok := idxVal.(int64)
	if !ok {
		return nil, fmt.Errorf("%w: index must be an integer, got %s", ErrBadIndex, typeName(idxVal))
	}

	switch c := container.(type) {
	case []any:
		if idx < 0 || idx >= int64(len(c)) {
			return nil, fmt.Errorf("%w: index %d out of range for list of length %d", ErrBadIndex, idx, len(c))
		}
		return c[idx], nil
	case string:
		// Index by character, not byte, so non-ASCII strings subscript
		// cleanly.
		runes := []rune(c)
		if idx < 0 || idx >= int64(len(runes)) {
			return nil, fmt.Errorf("%w: index %d out of range for string of length %d", ErrBadIndex, idx, len(runes))
		}
		return string(runes[idx]), nil
	}
	return nil, fmt.Errorf("%w: cannot index %s", ErrBadIndex, typeName(container))
}
