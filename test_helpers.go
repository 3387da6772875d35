package machina

import "sync"

// TestObserver is a mock observer for testing that captures all observer events
type TestObserver struct {
	mutex        sync.RWMutex
	Transitions  []TransitionEvent
	StateEnters  []string
	StateExits   []string
	EventRejects []EventRejectEvent
	Blocked      []BlockedEvent
	EvalErrors   []EvalErrorEvent
	Guards       []GuardEvent
	Steps        []StepEvent
	Halts        []HaltEvent
}

type TransitionEvent struct {
	From  string
	To    string
	Event string
}

type EventRejectEvent struct {
	Event  string
	Reason string
}

type BlockedEvent struct {
	Kind   EvalKind
	State  string
	Reason string
}

type EvalErrorEvent struct {
	Kind  EvalKind
	State string
	Err   error
}

type GuardEvent struct {
	From      string
	To        string
	Event     string
	Condition string
	Result    bool
}

type StepEvent struct {
	State string
	Log   []string
}

type HaltEvent struct {
	State  string
	Reason string
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) OnTransition(from string, to string, event string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Transitions = append(o.Transitions, TransitionEvent{From: from, To: to, Event: event})
}

func (o *TestObserver) OnStateEnter(state string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateEnters = append(o.StateEnters, state)
}

func (o *TestObserver) OnStateExit(state string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.StateExits = append(o.StateExits, state)
}

func (o *TestObserver) OnGuardEvaluation(from, to, event, condition string, result bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Guards = append(o.Guards, GuardEvent{From: from, To: to, Event: event, Condition: condition, Result: result})
}

func (o *TestObserver) OnEventRejected(event, reason string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.EventRejects = append(o.EventRejects, EventRejectEvent{Event: event, Reason: reason})
}

func (o *TestObserver) OnActionBlocked(kind EvalKind, state, reason string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Blocked = append(o.Blocked, BlockedEvent{Kind: kind, State: state, Reason: reason})
}

func (o *TestObserver) OnEvaluationError(kind EvalKind, state string, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.EvalErrors = append(o.EvalErrors, EvalErrorEvent{Kind: kind, State: state, Err: err})
}

func (o *TestObserver) OnStepCompleted(state string, log []string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Steps = append(o.Steps, StepEvent{State: state, Log: log})
}

func (o *TestObserver) OnHalted(state, reason string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Halts = append(o.Halts, HaltEvent{State: state, Reason: reason})
}

// LastTransition returns the most recent transition, or a zero value.
func (o *TestObserver) LastTransition() TransitionEvent {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Transitions) == 0 {
		return TransitionEvent{}
	}
	return o.Transitions[len(o.Transitions)-1]
}

// securityPanelDefinition builds the alarm panel machine used across the
// simulator tests: Idle arms into Armed, Armed trips into Active when the
// panel is enabled, Active acknowledges back to Idle.
func securityPanelDefinition() *Definition {
	return NewDefinition().
		Var("enabled", true).
		Var("alarms", int64(0)).
		State("Idle").Initial().
		OnEntry("ready = true").
		To("Armed").On("arm").Do("ready = false").
		State("Armed").
		To("Active").On("trip").When("enabled").
		To("Idle").On("disarm").
		State("Active").
		OnEntry("alarms++").
		To("Idle").On("ack").
		Definition()
}

// trafficLightDefinition builds a plain three state cycle with no guards
// or actions.
func trafficLightDefinition() *Definition {
	return NewDefinition().
		State("Red").Initial().To("Green").On("go").
		State("Green").To("Yellow").On("caution").
		State("Yellow").To("Red").On("stop").
		Definition()
}
