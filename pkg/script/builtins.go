package script

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HostFunc is a function the embedding host exposes to authored code, such
// as a simulated hardware side effect. Arguments arrive as script values.
type HostFunc func(args []any) (any, error)

// builtinFunc is an entry in the fixed allow-list of callable builtins.
type builtinFunc func(in *Interp, args []any) (any, error)

// builtins is the closed set of functions visible to every piece of
// authored code. Nothing outside this table and the host registry can be
// called.
var builtins = map[string]builtinFunc{
	"abs":   builtinAbs,
	"len":   builtinLen,
	"min":   builtinMin,
	"max":   builtinMax,
	"int":   builtinInt,
	"float": builtinFloat,
	"str":   builtinStr,
	"bool":  builtinBool,
	"round": builtinRound,
	"print": builtinPrint,
}

func wantArgs(name string, args []any, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrBadArgument, name, min, len(args))
		}
		return fmt.Errorf("%w: %s takes %d to %d arguments, got %d", ErrBadArgument, name, min, max, len(args))
	}
	return nil
}

func builtinAbs(_ *Interp, args []any) (any, error) {
	if err := wantArgs("abs", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	}
	return nil, fmt.Errorf("%w: abs expects a number, got %s", ErrBadArgument, typeName(args[0]))
}

func builtinLen(_ *Interp, args []any) (any, error) {
	if err := wantArgs("len", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case string:
		return int64(len(v)), nil
	case []any:
		return int64(len(v)), nil
	}
	return nil, fmt.Errorf("%w: len expects a string or list, got %s", ErrBadArgument, typeName(args[0]))
}

// extremum implements min and max over either a single list argument or a
// variadic argument list.
func extremum(name string, args []any, want int) (any, error) {
	values := args
	if len(args) == 1 {
		if list, ok := args[0].([]any); ok {
			values = list
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s of empty sequence", ErrBadArgument, name)
	}

	best := values[0]
	for _, v := range values[1:] {
		cmp, err := compare(v, best)
		if err != nil {
			return nil, err
		}
		if cmp == want {
			best = v
		}
	}
	return best, nil
}

func builtinMin(_ *Interp, args []any) (any, error) {
	return extremum("min", args, -1)
}

func builtinMax(_ *Interp, args []any) (any, error) {
	return extremum("max", args, 1)
}

func builtinInt(_ *Interp, args []any) (any, error) {
	if err := wantArgs("int", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: int cannot parse %q", ErrBadArgument, v)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: int cannot convert %s", ErrBadArgument, typeName(args[0]))
}

func builtinFloat(_ *Interp, args []any) (any, error) {
	if err := wantArgs("float", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: float cannot parse %q", ErrBadArgument, v)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: float cannot convert %s", ErrBadArgument, typeName(args[0]))
}

func builtinStr(_ *Interp, args []any) (any, error) {
	if err := wantArgs("str", args, 1, 1); err != nil {
		return nil, err
	}
	return Format(args[0]), nil
}

func builtinBool(_ *Interp, args []any) (any, error) {
	if err := wantArgs("bool", args, 1, 1); err != nil {
		return nil, err
	}
	return Truthy(args[0]), nil
}

func builtinRound(_ *Interp, args []any) (any, error) {
	if err := wantArgs("round", args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(math.Round(v)), nil
	}
	return nil, fmt.Errorf("%w: round expects a number, got %s", ErrBadArgument, typeName(args[0]))
}

// builtinPrint writes to the interpreter's trace sink, never to process
// stdout. Authored print calls end up in the step log.
func builtinPrint(in *Interp, args []any) (any, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Format(arg)
	}
	if in.Trace != nil {
		in.Trace(strings.Join(parts, " "))
	}
	return nil, nil
}
