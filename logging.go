package machina

import (
	charmlog "github.com/charmbracelet/log"
)

// LoggingObserver writes simulator lifecycle events to a structured
// logger. Transitions and halts log at info, rejected events and blocked
// code at warn, evaluation failures at error, and the per-step detail at
// debug.
type LoggingObserver struct {
	BaseObserver
	logger *charmlog.Logger
}

// NewLoggingObserver creates an observer writing to the given logger.
func NewLoggingObserver(logger *charmlog.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnTransition(from, to, event string) {
	o.logger.Info("transition", "from", from, "to", to, "event", event)
}

func (o *LoggingObserver) OnStateEnter(state string) {
	o.logger.Debug("state entered", "state", state)
}

func (o *LoggingObserver) OnStateExit(state string) {
	o.logger.Debug("state exited", "state", state)
}

func (o *LoggingObserver) OnGuardEvaluation(from, to, event, condition string, result bool) {
	o.logger.Debug("guard evaluated", "from", from, "to", to, "condition", condition, "result", result)
}

func (o *LoggingObserver) OnEventRejected(event, reason string) {
	o.logger.Warn("event rejected", "event", event, "reason", reason)
}

func (o *LoggingObserver) OnActionBlocked(kind EvalKind, state, reason string) {
	o.logger.Warn("action blocked", "kind", string(kind), "state", state, "reason", reason)
}

func (o *LoggingObserver) OnEvaluationError(kind EvalKind, state string, err error) {
	o.logger.Error("evaluation failed", "kind", string(kind), "state", state, "error", err)
}

func (o *LoggingObserver) OnStepCompleted(state string, log []string) {
	o.logger.Debug("step completed", "state", state, "messages", len(log))
}

func (o *LoggingObserver) OnHalted(state, reason string) {
	o.logger.Info("simulation halted", "state", state, "reason", reason)
}
