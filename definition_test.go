package machina

import (
	"encoding/json"
	"testing"
)

func TestDefinition_ValidateAcceptsWellFormed(t *testing.T) {
	def := securityPanelDefinition()

	if err := def.Validate(); err != nil {
		t.Fatalf("Expected valid definition, got: %v", err)
	}
}

func TestDefinition_ValidateRejectsEmpty(t *testing.T) {
	def := &Definition{}

	err := def.Validate()
	if err == nil {
		t.Fatal("Expected error for definition without states")
	}
	if !IsConfigurationError(err) {
		t.Errorf("Expected configuration error, got: %v", err)
	}
}

func TestDefinition_ValidateRejectsDuplicateStates(t *testing.T) {
	def := &Definition{States: []StateDef{
		{Name: "A", IsInitial: true},
		{Name: "A"},
	}}

	if err := def.Validate(); err == nil {
		t.Fatal("Expected error for duplicate state name")
	}
}

func TestDefinition_ValidateRequiresExactlyOneInitial(t *testing.T) {
	none := &Definition{States: []StateDef{{Name: "A"}, {Name: "B"}}}
	if err := none.Validate(); err == nil {
		t.Error("Expected error when no state is initial")
	}

	two := &Definition{States: []StateDef{
		{Name: "A", IsInitial: true},
		{Name: "B", IsInitial: true},
	}}
	if err := two.Validate(); err == nil {
		t.Error("Expected error when two states are initial")
	}
}

func TestDefinition_ValidateRejectsDanglingTransitions(t *testing.T) {
	def := &Definition{
		States:      []StateDef{{Name: "A", IsInitial: true}},
		Transitions: []TransitionDef{{Source: "A", Target: "Ghost"}},
	}

	if err := def.Validate(); err == nil {
		t.Fatal("Expected error for transition to undeclared state")
	}
}

func TestDefinition_ValidateRecursesIntoNestedMachines(t *testing.T) {
	def := &Definition{States: []StateDef{{
		Name:      "Outer",
		IsInitial: true,
		Sub:       &Definition{States: []StateDef{{Name: "Inner"}}},
	}}}

	if err := def.Validate(); err == nil {
		t.Fatal("Expected error for nested machine without initial state")
	}
}

func TestDefinition_TransitionsFromPreservesOrder(t *testing.T) {
	def := &Definition{
		States: []StateDef{{Name: "A", IsInitial: true}, {Name: "B"}, {Name: "C"}},
		Transitions: []TransitionDef{
			{Source: "A", Target: "B", Event: "go"},
			{Source: "B", Target: "C"},
			{Source: "A", Target: "C", Event: "go"},
		},
	}

	from := def.TransitionsFrom("A")
	if len(from) != 2 {
		t.Fatalf("Expected 2 transitions from A, got %d", len(from))
	}
	if from[0].Target != "B" || from[1].Target != "C" {
		t.Errorf("Expected declaration order preserved, got %v", from)
	}
}

func TestDefinition_UnmarshalJSON(t *testing.T) {
	raw := `{
		"states": [
			{"name": "Idle", "is_initial": true, "entry_action": "ready = true"},
			{"name": "Done", "is_final": true}
		],
		"transitions": [
			{"source": "Idle", "target": "Done", "event": "finish", "condition": "ready"}
		],
		"variables": {"ready": false}
	}`

	var def Definition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		t.Fatalf("Expected clean unmarshal, got: %v", err)
	}

	if def.InitialState() != "Idle" {
		t.Errorf("Expected initial state Idle, got %q", def.InitialState())
	}
	if def.State("Idle").EntryAction != "ready = true" {
		t.Errorf("Unexpected entry action: %q", def.State("Idle").EntryAction)
	}
	if !def.State("Done").IsFinal {
		t.Error("Expected Done to be final")
	}
	if def.Transitions[0].Condition != "ready" {
		t.Errorf("Unexpected condition: %q", def.Transitions[0].Condition)
	}
	if err := def.Validate(); err != nil {
		t.Errorf("Expected decoded definition to validate, got: %v", err)
	}
}
