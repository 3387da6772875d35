package machina

import "fmt"

// Observer represents an entity that observes simulator lifecycle
type Observer interface {
	// Required methods

	// OnTransition is called when a state transition occurs
	OnTransition(from string, to string, event string)

	// OnStateEnter is called when entering a new state
	OnStateEnter(state string)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnStateExit is called when exiting a state
	OnStateExit(state string)

	// OnGuardEvaluation is called when a guard condition is evaluated
	OnGuardEvaluation(from string, to string, event string, condition string, result bool)

	// OnEventRejected is called when an event matches no transition
	OnEventRejected(event string, reason string)

	// OnActionBlocked is called when the safety screen rejects authored code
	OnActionBlocked(kind EvalKind, state string, reason string)

	// OnEvaluationError is called when authored code fails to evaluate
	OnEvaluationError(kind EvalKind, state string, err error)

	// OnStepCompleted is called after every step with the step's log
	OnStepCompleted(state string, log []string)

	// OnHalted is called when the simulation halts
	OnHalted(state string, reason string)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnTransition implements the required Observer method
func (o *BaseObserver) OnTransition(from string, to string, event string) {
	// Default implementation - no operation
}

// OnStateEnter implements the required Observer method
func (o *BaseObserver) OnStateEnter(state string) {
	// Default implementation - no operation
}

// OnStateExit implements the optional ExtendedObserver method
func (o *BaseObserver) OnStateExit(state string) {
	// Default implementation - no operation
}

// OnGuardEvaluation implements the optional ExtendedObserver method
func (o *BaseObserver) OnGuardEvaluation(from string, to string, event string, condition string, result bool) {
	// Default implementation - no operation
}

// OnEventRejected implements the optional ExtendedObserver method
func (o *BaseObserver) OnEventRejected(event string, reason string) {
	// Default implementation - no operation
}

// OnActionBlocked implements the optional ExtendedObserver method
func (o *BaseObserver) OnActionBlocked(kind EvalKind, state string, reason string) {
	// Default implementation - no operation
}

// OnEvaluationError implements the optional ExtendedObserver method
func (o *BaseObserver) OnEvaluationError(kind EvalKind, state string, err error) {
	// Default implementation - no operation
}

// OnStepCompleted implements the optional ExtendedObserver method
func (o *BaseObserver) OnStepCompleted(state string, log []string) {
	// Default implementation - no operation
}

// OnHalted implements the optional ExtendedObserver method
func (o *BaseObserver) OnHalted(state string, reason string) {
	// Default implementation - no operation
}

// ObserverManager manages a collection of observers
type ObserverManager struct {
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

// notify runs fn for every observer with panic recovery, so a
// misbehaving observer cannot take down the simulation.
func (om *ObserverManager) notify(method string, fn func(Observer)) {
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)

	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { _ = recover() }()
							extObs.OnEvaluationError("", "", fmt.Errorf("observer panic in %s: %v", method, r))
						}()
					}
				}
			}()
			fn(observer)
		}()
	}
}

// NotifyTransition notifies all observers of a state transition
func (om *ObserverManager) NotifyTransition(from string, to string, event string) {
	om.notify("OnTransition", func(o Observer) {
		o.OnTransition(from, to, event)
	})
}

// NotifyStateEnter notifies all observers of state entry
func (om *ObserverManager) NotifyStateEnter(state string) {
	om.notify("OnStateEnter", func(o Observer) {
		o.OnStateEnter(state)
	})
}

// NotifyStateExit notifies all observers of state exit
func (om *ObserverManager) NotifyStateExit(state string) {
	om.notify("OnStateExit", func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			extObs.OnStateExit(state)
		}
	})
}

// NotifyGuardEvaluation notifies all observers of guard evaluation
func (om *ObserverManager) NotifyGuardEvaluation(from string, to string, event string, condition string, result bool) {
	om.notify("OnGuardEvaluation", func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			extObs.OnGuardEvaluation(from, to, event, condition, result)
		}
	})
}

// NotifyEventRejected notifies all observers of event rejection
func (om *ObserverManager) NotifyEventRejected(event string, reason string) {
	om.notify("OnEventRejected", func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			extObs.OnEventRejected(event, reason)
		}
	})
}

// NotifyActionBlocked notifies all observers of a safety rejection
func (om *ObserverManager) NotifyActionBlocked(kind EvalKind, state string, reason string) {
	om.notify("OnActionBlocked", func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			extObs.OnActionBlocked(kind, state, reason)
		}
	})
}

// NotifyEvaluationError notifies all observers of an evaluation failure
func (om *ObserverManager) NotifyEvaluationError(kind EvalKind, state string, err error) {
	om.notify("OnEvaluationError", func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			extObs.OnEvaluationError(kind, state, err)
		}
	})
}

// NotifyStepCompleted notifies all observers that a step finished
func (om *ObserverManager) NotifyStepCompleted(state string, log []string) {
	om.notify("OnStepCompleted", func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			extObs.OnStepCompleted(state, log)
		}
	})
}

// NotifyHalted notifies all observers that the simulation halted
func (om *ObserverManager) NotifyHalted(state string, reason string) {
	om.notify("OnHalted", func(o Observer) {
		if extObs, ok := o.(ExtendedObserver); ok {
			extObs.OnHalted(state, reason)
		}
	})
}
