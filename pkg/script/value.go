package script

import (
	"fmt"
	"strconv"
	"strings"
)

// Values are represented as ordinary Go values: int64, float64, string,
// bool, nil and []any. Arithmetic stays integral while both operands are
// integers and widens to float64 otherwise.

// Truthy reports the boolean interpretation of a value.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case int64:
		return val != 0
	case float64:
		return val != 0
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	default:
		return true
	}
}

// Format renders a value the way the str builtin and the trace log do.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Format(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, float64:
		return true
	}
	return false
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case float64:
		return val
	}
	return 0
}

func bothInts(a, b any) (int64, int64, bool) {
	ai, ok := a.(int64)
	if !ok {
		return 0, 0, false
	}
	bi, ok := b.(int64)
	if !ok {
		return 0, 0, false
	}
	return ai, bi, true
}

// equal compares two values. Numbers compare across int/float, everything
// else compares within its own type. Lists compare element-wise.
func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isNumber(a) && isNumber(b) {
		return asFloat(a) == asFloat(b)
	}

	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// compare orders two values: -1, 0 or 1. Only numbers and strings are
// ordered.
func compare(a, b any) (int, error) {
	if isNumber(a) && isNumber(b) {
		af, bf := asFloat(a), asFloat(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), nil
	}

	return 0, fmt.Errorf("%w: cannot order %s and %s", ErrBadOperand, typeName(a), typeName(b))
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}
