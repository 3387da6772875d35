package machina

import "fmt"

// ConfigurationError reports a definition that cannot be simulated.
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// EvalKind names the lifecycle slot whose authored code failed.
type EvalKind string

const (
	EvalEntry    EvalKind = "entry"
	EvalDuring   EvalKind = "during"
	EvalExit     EvalKind = "exit"
	EvalGuard    EvalKind = "guard"
	EvalTransAct EvalKind = "transition_action"
)

// EvaluationError reports a failure while evaluating authored code
// during a step. Kind says which lifecycle slot the code belonged to and
// State the state that owned it.
type EvaluationError struct {
	Kind   EvalKind
	State  string
	Source string
	Err    error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s evaluation failed in state '%s': %v", e.Kind, e.State, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// NewEvaluationError creates a new evaluation error
func NewEvaluationError(kind EvalKind, state, source string, err error) *EvaluationError {
	return &EvaluationError{
		Kind:   kind,
		State:  state,
		Source: source,
		Err:    err,
	}
}

// SecurityError reports authored code rejected by the safety screen
// before evaluation.
type SecurityError struct {
	Kind   EvalKind
	State  string
	Reason string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("%s code blocked in state '%s': %s", e.Kind, e.State, e.Reason)
}

// NewSecurityError creates a new security error
func NewSecurityError(kind EvalKind, state, reason string) *SecurityError {
	return &SecurityError{
		Kind:   kind,
		State:  state,
		Reason: reason,
	}
}

// HaltError reports a simulator stopped by an action failure while
// strict error handling is enabled.
type HaltError struct {
	State string
	Cause error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("simulation halted in state '%s': %v", e.State, e.Cause)
}

func (e *HaltError) Unwrap() error {
	return e.Cause
}

// IsConfigurationError checks if an error is a ConfigurationError
func IsConfigurationError(err error) bool {
	_, ok := err.(*ConfigurationError)
	return ok
}

// IsEvaluationError checks if an error is an EvaluationError
func IsEvaluationError(err error) bool {
	_, ok := err.(*EvaluationError)
	return ok
}

// IsSecurityError checks if an error is a SecurityError
func IsSecurityError(err error) bool {
	_, ok := err.(*SecurityError)
	return ok
}

// IsHaltError checks if an error is a HaltError
func IsHaltError(err error) bool {
	_, ok := err.(*HaltError)
	return ok
}
