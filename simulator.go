package machina

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/machinago/machina/pkg/script"
)

// Simulator executes a Definition: it tracks the current state, owns the
// variable environment authored code runs against, and advances one step
// at a time. All methods are safe for concurrent use.
type Simulator struct {
	mu sync.Mutex

	id  uuid.UUID
	def *Definition

	env     script.Env
	interp  *script.Interp
	checker *script.Checker

	observers *ObserverManager
	logger    *charmlog.Logger

	funcs             FuncRegistry
	evalBudget        int
	haltOnActionError bool

	current    string
	halted     bool
	haltReason string
	haltErr    error
	trace      []string

	// sub is the child simulator of the current state's nested machine,
	// nil when the current state has none. subSuper names the owning
	// superstate.
	sub      *Simulator
	subSuper string
}

// New validates the definition, seeds the environment from its declared
// variables and enters the initial state. Entry activity is recorded in
// the log retrievable with DrainLog.
func New(def *Definition, opts ...Option) (*Simulator, error) {
	if def == nil {
		return nil, NewConfigurationError("definition", "definition is nil")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	s := &Simulator{
		id:        uuid.New(),
		def:       def,
		observers: NewObserverManager(),
		funcs:     NewFuncRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger != nil {
		s.logger = s.logger.With("run", s.id.String())
	}

	s.checker = script.NewChecker()
	s.interp = &script.Interp{
		Funcs:  s.funcs,
		Budget: s.evalBudget,
		Trace:  func(msg string) { s.trace = append(s.trace, msg) },
	}
	s.env = s.seedEnv()

	s.enterState(def.InitialState())
	s.checkTerminal()

	return s, nil
}

// seedEnv builds a fresh environment from the definition's declared
// variables. Values are deep-copied so resets never alias authored seed
// data.
func (s *Simulator) seedEnv() script.Env {
	env := script.NewEnv()
	for name, value := range s.def.Variables {
		env[name] = value
	}
	return env.Snapshot()
}

// ID returns the unique identifier of this simulation run.
func (s *Simulator) ID() uuid.UUID {
	return s.id
}

// Definition returns the definition the simulator executes.
func (s *Simulator) Definition() *Definition {
	return s.def
}

// AddObserver attaches an observer.
func (s *Simulator) AddObserver(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers.AddObserver(observer)
}

// RemoveObserver detaches an observer.
func (s *Simulator) RemoveObserver(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers.RemoveObserver(observer)
}

// CurrentState returns the name of the current top-level state.
func (s *Simulator) CurrentState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// LeafState returns the deepest active state, descending through nested
// machines. Without a nested machine it equals CurrentState.
func (s *Simulator) LeafState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub != nil {
		return s.sub.LeafState()
	}
	return s.current
}

// Halted reports whether the simulation has stopped advancing.
func (s *Simulator) Halted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halted
}

// HaltReason returns why the simulation halted, or "" while running.
func (s *Simulator) HaltReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.haltReason
}

// HaltCause returns the error that halted the simulation. Halts without
// an underlying error, like reaching a terminal state, return nil.
func (s *Simulator) HaltCause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.haltErr
}

// Variables returns a deep snapshot of the environment. Mutating the
// result does not affect the simulation.
func (s *Simulator) Variables() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.Snapshot()
}

// PossibleEvents returns the sorted distinct event names that can cause a
// transition out of the current state, including events of an active
// nested machine. Completion transitions contribute nothing.
func (s *Simulator) PossibleEvents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	for _, t := range s.def.TransitionsFrom(s.current) {
		if t.Event != "" {
			seen[t.Event] = struct{}{}
		}
	}
	if s.sub != nil {
		for _, ev := range s.sub.PossibleEvents() {
			seen[ev] = struct{}{}
		}
	}

	events := make([]string, 0, len(seen))
	for ev := range seen {
		events = append(events, ev)
	}
	slices.Sort(events)
	return events
}

// DrainLog returns the messages accumulated since construction, the last
// step or the last drain, and clears them.
func (s *Simulator) DrainLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drainTrace()
}

// Reset discards all simulation progress: the environment is re-seeded
// from the definition, the halted flag cleared and the initial state
// entered again. The returned log covers the re-entry.
func (s *Simulator) Reset() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trace = nil
	s.halted = false
	s.haltReason = ""
	s.haltErr = nil
	s.sub = nil
	s.subSuper = ""
	s.env = s.seedEnv()

	s.enterState(s.def.InitialState())
	s.checkTerminal()

	return s.drainTrace()
}

// Step advances the simulation by one step: the current state's during
// action runs, an active nested machine is stepped, and the event is
// arbitrated against the outgoing transitions in declaration order. The
// empty event performs an eventless step. It returns the state after the
// step and the step's log.
func (s *Simulator) Step(event string) (string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trace = nil

	if s.halted {
		s.logf("[HALTED] step ignored in state '%s': %s", s.current, s.haltReason)
		if s.logger != nil {
			s.logger.Warn("step on halted simulator", "state", s.current, "reason", s.haltReason)
		}
		log := s.drainTrace()
		s.observers.NotifyStepCompleted(s.current, log)
		return s.current, log
	}

	state := s.def.State(s.current)
	s.execAction(EvalDuring, s.current, state.DuringAction)

	if !s.halted {
		s.stepSub()
	}

	if !s.halted {
		if t, ok := s.findTransition(event); ok {
			s.fireTransition(t, event)
			s.checkTerminal()
		} else if event != "" {
			reason := fmt.Sprintf("no eligible transition from state '%s'", s.current)
			s.logf("Event '%s' ignored: %s", event, reason)
			s.observers.NotifyEventRejected(event, reason)
		} else {
			s.logf("No transition; state remains '%s'", s.current)
		}
	}

	log := s.drainTrace()
	s.observers.NotifyStepCompleted(s.current, log)
	return s.current, log
}

// drainTrace hands the accumulated trace to the caller and clears it, so
// a later DrainLog never delivers the same entries twice.
func (s *Simulator) drainTrace() []string {
	log := s.trace
	s.trace = nil
	return log
}

// stepSub advances the nested machine eventlessly and merges its log.
// When the nested machine reaches a final state, a completion variable
// named after the superstate is raised in the parent environment.
func (s *Simulator) stepSub() {
	if s.sub == nil {
		return
	}

	subState, subLog := s.sub.Step("")
	for _, line := range subLog {
		s.trace = append(s.trace, "[SUB] "+line)
	}

	// An error-halt in the child stops the parent too. A child that
	// merely reached its terminal state has no cause and keeps the
	// parent running.
	if s.sub.Halted() {
		if cause := s.sub.HaltCause(); cause != nil {
			s.haltErr = &HaltError{State: s.subSuper, Cause: cause}
			s.halt(fmt.Sprintf("nested machine of '%s' halted: %v", s.subSuper, cause))
			return
		}
	}

	if st := s.sub.def.State(subState); st != nil && st.IsFinal {
		key := s.subSuper + "_sub_completed"
		if done, _ := s.env[key].(bool); !done {
			s.env[key] = true
			s.logf("Nested machine of '%s' completed in state '%s'", s.subSuper, subState)
		}
	}
}

// findTransition arbitrates the outgoing transitions of the current state
// in declaration order and returns the first eligible one. A transition
// is eligible when its event matches (empty event matches anything, names
// compare case-insensitively) and its guard evaluates to true. Guard
// failures count as false rather than aborting the step.
func (s *Simulator) findTransition(event string) (TransitionDef, bool) {
	for _, t := range s.def.TransitionsFrom(s.current) {
		if t.Event != "" && !strings.EqualFold(t.Event, event) {
			continue
		}

		result := true
		if t.Condition != "" {
			if ok, reason := s.checker.Check(t.Condition); !ok {
				s.logf("[SECURITY] guard '%s' blocked: %s", t.Condition, reason)
				s.observers.NotifyActionBlocked(EvalGuard, s.current, reason)
				continue
			}
			var err error
			result, err = s.interp.EvalBool(t.Condition, s.env)
			if err != nil {
				evalErr := NewEvaluationError(EvalGuard, s.current, t.Condition, err)
				s.logf("[GUARD ERROR] %v", evalErr)
				s.observers.NotifyEvaluationError(EvalGuard, s.current, evalErr)
				result = false
			}
			s.observers.NotifyGuardEvaluation(t.Source, t.Target, t.Event, t.Condition, result)
		}

		if result {
			return t, true
		}
	}
	return TransitionDef{}, false
}

// fireTransition runs the exit, transition and entry activity for an
// eligible transition. The current state only changes once all three ran,
// so authored code observes a consistent picture of the step.
func (s *Simulator) fireTransition(t TransitionDef, event string) {
	from := s.current

	if st := s.def.State(from); st != nil {
		s.execAction(EvalExit, from, st.ExitAction)
	}
	if s.sub != nil {
		s.logf("Tearing down nested machine of '%s'", s.subSuper)
		s.sub = nil
		s.subSuper = ""
	}
	s.observers.NotifyStateExit(from)
	if s.halted {
		return
	}

	s.execAction(EvalTransAct, from, t.Action)
	if s.halted {
		return
	}

	s.logf("Transition %s --[%s]--> %s", from, t.Event, t.Target)
	s.observers.NotifyTransition(from, t.Target, event)

	s.enterState(t.Target)
}

// enterState runs the entry activity of a state, spawns its nested
// machine if it has one, and makes it current.
func (s *Simulator) enterState(name string) {
	state := s.def.State(name)

	s.logf("Entering state '%s'", name)
	s.execAction(EvalEntry, name, state.EntryAction)

	if !s.halted && state.Sub != nil {
		subOpts := []Option{
			WithEvalBudget(s.evalBudget),
			WithFunctions(s.funcs),
		}
		if s.haltOnActionError {
			subOpts = append(subOpts, WithHaltOnActionError())
		}
		sub, err := New(state.Sub, subOpts...)
		if err != nil {
			s.logf("[SUB] failed to start nested machine of '%s': %v", name, err)
		} else {
			s.sub = sub
			s.subSuper = name
			for _, line := range sub.DrainLog() {
				s.trace = append(s.trace, "[SUB] "+line)
			}
		}
	}

	s.current = name
	s.observers.NotifyStateEnter(name)
}

// checkTerminal halts the simulation when the current state is final and
// has no way out.
func (s *Simulator) checkTerminal() {
	if s.halted {
		return
	}
	state := s.def.State(s.current)
	if state == nil || !state.IsFinal {
		return
	}
	if len(s.def.TransitionsFrom(s.current)) > 0 {
		return
	}
	s.halt(fmt.Sprintf("reached terminal state '%s'", s.current))
}

// execAction screens and executes a block of authored action code. In
// the default mode a failing statement is logged and the rest of the
// block still runs; with WithHaltOnActionError the first failure halts
// the simulation.
func (s *Simulator) execAction(kind EvalKind, state, source string) {
	if strings.TrimSpace(source) == "" {
		return
	}

	if ok, reason := s.checker.Check(source); !ok {
		secErr := NewSecurityError(kind, state, reason)
		s.logf("[SECURITY] %v", secErr)
		s.observers.NotifyActionBlocked(kind, state, reason)
		if s.haltOnActionError {
			s.haltErr = &HaltError{State: state, Cause: secErr}
			s.halt(secErr.Error())
		}
		return
	}

	if s.haltOnActionError {
		if err := s.interp.ExecStrict(source, s.env); err != nil {
			evalErr := NewEvaluationError(kind, state, source, err)
			s.logf("[ACTION ERROR] %v", evalErr)
			s.observers.NotifyEvaluationError(kind, state, evalErr)
			s.haltErr = &HaltError{State: state, Cause: evalErr}
			s.halt(evalErr.Error())
		}
		return
	}

	for _, err := range s.interp.Exec(source, s.env) {
		evalErr := NewEvaluationError(kind, state, source, err)
		s.logf("[ACTION ERROR] %v", evalErr)
		s.observers.NotifyEvaluationError(kind, state, evalErr)
	}
}

// halt stops the simulation and records why.
func (s *Simulator) halt(reason string) {
	s.halted = true
	s.haltReason = reason
	s.logf("[HALT] %s", reason)
	if s.logger != nil {
		s.logger.Error("simulation halted", "state", s.current, "reason", reason)
	}
	s.observers.NotifyHalted(s.current, reason)
}

func (s *Simulator) logf(format string, args ...any) {
	s.trace = append(s.trace, fmt.Sprintf(format, args...))
}
