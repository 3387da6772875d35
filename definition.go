package machina

import "strings"

// StateDef describes a single state of a machine. Action fields hold
// authored code executed by the simulator at the corresponding point of
// the state's lifecycle; any of them may be empty.
type StateDef struct {
	Name         string `json:"name"`
	IsInitial    bool   `json:"is_initial,omitempty"`
	IsFinal      bool   `json:"is_final,omitempty"`
	EntryAction  string `json:"entry_action,omitempty"`
	DuringAction string `json:"during_action,omitempty"`
	ExitAction   string `json:"exit_action,omitempty"`

	// Sub is an optional nested machine. When the state is entered a
	// child simulator for Sub is spawned and stepped alongside the
	// parent until the state is exited.
	Sub *Definition `json:"sub_fsm,omitempty"`
}

// TransitionDef describes one directed edge between two states. Event
// names are matched case-insensitively; an empty Event makes this a
// completion transition that is considered on every step. Condition is an
// authored guard expression and Action an authored action block, both
// optional.
type TransitionDef struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Event     string `json:"event,omitempty"`
	Condition string `json:"condition,omitempty"`
	Action    string `json:"action,omitempty"`
}

// Definition is the static description of a machine: its states and
// transitions as authored, in declaration order. Transition order is
// significant because the simulator resolves competing transitions by
// first match.
type Definition struct {
	States      []StateDef      `json:"states"`
	Transitions []TransitionDef `json:"transitions"`

	// Variables seeds the simulation environment before the initial
	// state is entered.
	Variables map[string]any `json:"variables,omitempty"`
}

// InitialState returns the name of the state marked initial, or "" when
// none is marked.
func (d *Definition) InitialState() string {
	for _, s := range d.States {
		if s.IsInitial {
			return s.Name
		}
	}
	return ""
}

// StateNames returns the state names in declaration order.
func (d *Definition) StateNames() []string {
	names := make([]string, len(d.States))
	for i, s := range d.States {
		names[i] = s.Name
	}
	return names
}

// State returns the state with the given name, or nil.
func (d *Definition) State(name string) *StateDef {
	for i := range d.States {
		if d.States[i].Name == name {
			return &d.States[i]
		}
	}
	return nil
}

// TransitionsFrom returns the outgoing transitions of a state in
// declaration order.
func (d *Definition) TransitionsFrom(source string) []TransitionDef {
	var out []TransitionDef
	for _, t := range d.Transitions {
		if t.Source == source {
			out = append(out, t)
		}
	}
	return out
}

// Validate checks the structural invariants a definition must satisfy
// before it can be simulated: non-empty distinct state names, exactly one
// initial state, and transition endpoints that resolve to declared
// states. Nested machines are validated recursively.
func (d *Definition) Validate() error {
	if len(d.States) == 0 {
		return NewConfigurationError("states", "definition has no states")
	}

	seen := make(map[string]struct{}, len(d.States))
	initials := 0
	for _, s := range d.States {
		if strings.TrimSpace(s.Name) == "" {
			return NewConfigurationError("states", "state with empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return NewConfigurationError("states", "duplicate state name '"+s.Name+"'")
		}
		seen[s.Name] = struct{}{}
		if s.IsInitial {
			initials++
		}
		if s.Sub != nil {
			if err := s.Sub.Validate(); err != nil {
				return NewConfigurationError("states", "invalid nested machine in '"+s.Name+"': "+err.Error())
			}
		}
	}

	if initials == 0 {
		return NewConfigurationError("states", "no initial state marked")
	}
	if initials > 1 {
		return NewConfigurationError("states", "more than one initial state marked")
	}

	for _, t := range d.Transitions {
		if _, ok := seen[t.Source]; !ok {
			return NewConfigurationError("transitions", "transition source '"+t.Source+"' is not a declared state")
		}
		if _, ok := seen[t.Target]; !ok {
			return NewConfigurationError("transitions", "transition target '"+t.Target+"' is not a declared state")
		}
	}

	return nil
}
