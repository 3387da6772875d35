package machina

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/machinago/machina/pkg/script"
)

// Option configures a simulator at construction time.
type Option func(*Simulator)

// WithLogger sets the structured logger used for internal diagnostics.
// Without it the simulator stays silent outside its step log.
func WithLogger(logger *charmlog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithFunctions exposes host functions to authored code. Later calls
// merge into the same registry.
func WithFunctions(funcs FuncRegistry) Option {
	return func(s *Simulator) {
		for name, fn := range funcs {
			s.funcs[name] = fn
		}
	}
}

// WithFunction exposes a single host function to authored code.
func WithFunction(name string, fn script.HostFunc) Option {
	return func(s *Simulator) {
		s.funcs[name] = fn
	}
}

// WithEvalBudget caps the number of interpreter steps any single
// expression or statement may take. Zero means the default budget.
func WithEvalBudget(budget int) Option {
	return func(s *Simulator) {
		s.evalBudget = budget
	}
}

// WithHaltOnActionError makes the simulator halt at the first failing
// action statement instead of continuing with the rest of the block.
func WithHaltOnActionError() Option {
	return func(s *Simulator) {
		s.haltOnActionError = true
	}
}

// WithObserver attaches an observer before the initial state is entered,
// so construction-time entry notifications are delivered to it.
func WithObserver(observer Observer) Option {
	return func(s *Simulator) {
		s.observers.AddObserver(observer)
	}
}
