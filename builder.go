package machina

// DefinitionBuilder assembles a Definition with a fluent interface.
// States and transitions are recorded in the order they are declared,
// which is the order the simulator arbitrates them in.
type DefinitionBuilder struct {
	def Definition
}

// NewDefinition starts an empty builder.
func NewDefinition() *DefinitionBuilder {
	return &DefinitionBuilder{}
}

// Var seeds a variable in the simulation environment.
func (b *DefinitionBuilder) Var(name string, value any) *DefinitionBuilder {
	if b.def.Variables == nil {
		b.def.Variables = make(map[string]any)
	}
	b.def.Variables[name] = value
	return b
}

// State declares a state and returns its builder.
func (b *DefinitionBuilder) State(name string) *StateBuilder {
	b.def.States = append(b.def.States, StateDef{Name: name})
	return &StateBuilder{parent: b, index: len(b.def.States) - 1}
}

// Definition finalizes and returns the built definition.
func (b *DefinitionBuilder) Definition() *Definition {
	def := b.def
	return &def
}

// StateBuilder configures a single state and its outgoing transitions.
type StateBuilder struct {
	parent *DefinitionBuilder
	index  int
}

func (sb *StateBuilder) state() *StateDef {
	return &sb.parent.def.States[sb.index]
}

// Initial marks the state as the initial state.
func (sb *StateBuilder) Initial() *StateBuilder {
	sb.state().IsInitial = true
	return sb
}

// Final marks the state as final.
func (sb *StateBuilder) Final() *StateBuilder {
	sb.state().IsFinal = true
	return sb
}

// OnEntry sets the authored code run when the state is entered.
func (sb *StateBuilder) OnEntry(code string) *StateBuilder {
	sb.state().EntryAction = code
	return sb
}

// OnDuring sets the authored code run on every step spent in the state.
func (sb *StateBuilder) OnDuring(code string) *StateBuilder {
	sb.state().DuringAction = code
	return sb
}

// OnExit sets the authored code run when the state is exited.
func (sb *StateBuilder) OnExit(code string) *StateBuilder {
	sb.state().ExitAction = code
	return sb
}

// SubMachine nests a machine inside the state. The nested machine starts
// when the state is entered and is torn down when it is exited.
func (sb *StateBuilder) SubMachine(def *Definition) *StateBuilder {
	sb.state().Sub = def
	return sb
}

// To declares an outgoing transition to the target state and returns its
// builder.
func (sb *StateBuilder) To(target string) *TransitionBuilder {
	sb.parent.def.Transitions = append(sb.parent.def.Transitions, TransitionDef{
		Source: sb.state().Name,
		Target: target,
	})
	return &TransitionBuilder{state: sb, index: len(sb.parent.def.Transitions) - 1}
}

// ToSelf declares a self transition.
func (sb *StateBuilder) ToSelf() *TransitionBuilder {
	return sb.To(sb.state().Name)
}

// State declares a sibling state, ending this state's configuration.
func (sb *StateBuilder) State(name string) *StateBuilder {
	return sb.parent.State(name)
}

// Definition finalizes and returns the built definition.
func (sb *StateBuilder) Definition() *Definition {
	return sb.parent.Definition()
}

// TransitionBuilder configures a single transition.
type TransitionBuilder struct {
	state *StateBuilder
	index int
}

func (tb *TransitionBuilder) transition() *TransitionDef {
	return &tb.state.parent.def.Transitions[tb.index]
}

// On binds the transition to an event name. Without it the transition is
// a completion transition considered on every step.
func (tb *TransitionBuilder) On(event string) *TransitionBuilder {
	tb.transition().Event = event
	return tb
}

// When sets the authored guard expression.
func (tb *TransitionBuilder) When(condition string) *TransitionBuilder {
	tb.transition().Condition = condition
	return tb
}

// Do sets the authored code run when the transition fires.
func (tb *TransitionBuilder) Do(code string) *TransitionBuilder {
	tb.transition().Action = code
	return tb
}

// To declares another transition from the same state.
func (tb *TransitionBuilder) To(target string) *TransitionBuilder {
	return tb.state.To(target)
}

// ToSelf declares a self transition from the same state.
func (tb *TransitionBuilder) ToSelf() *TransitionBuilder {
	return tb.state.ToSelf()
}

// State declares a sibling state, ending this transition's configuration.
func (tb *TransitionBuilder) State(name string) *StateBuilder {
	return tb.state.parent.State(name)
}

// Definition finalizes and returns the built definition.
func (tb *TransitionBuilder) Definition() *Definition {
	return tb.state.parent.Definition()
}
