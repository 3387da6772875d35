package script

import "errors"

// Sentinel errors for lexing, parsing and evaluation failures.
var (
	ErrSyntax         = errors.New("syntax error")
	ErrUndefinedName  = errors.New("undefined variable")
	ErrUnknownFunc    = errors.New("unknown function")
	ErrBadOperand     = errors.New("unsupported operand type")
	ErrBadIndex       = errors.New("bad index")
	ErrDivisionByZero = errors.New("division by zero")
	ErrBudgetExceeded = errors.New("evaluation budget exceeded")
	ErrBadArgument    = errors.New("bad argument")
)
