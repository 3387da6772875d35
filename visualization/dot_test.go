package visualization_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/machinago/machina"
	"github.com/machinago/machina/visualization"
)

func alarmDefinition() *machina.Definition {
	return machina.NewDefinition().
		State("Idle").Initial().
		To("Armed").On("arm").
		State("Armed").
		To("Active").On("trip").When("enabled").Do("alarms++").
		State("Active").Final().
		Definition()
}

func TestDOTGenerator_Generate(t *testing.T) {
	g := visualization.NewDOTGenerator(alarmDefinition())

	dot, err := g.Generate()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.HasPrefix(dot, "digraph StateMachine {") {
		t.Errorf("Expected digraph header, got: %q", dot[:40])
	}
	if !strings.Contains(dot, `"Idle"`) || !strings.Contains(dot, "lightgreen") {
		t.Error("Expected initial state node with initial styling")
	}
	if !strings.Contains(dot, "doublecircle") {
		t.Error("Expected final state styled as doublecircle")
	}
	if !strings.Contains(dot, `"Armed" -> "Active"`) {
		t.Error("Expected transition edge Armed -> Active")
	}
	if !strings.Contains(dot, "[enabled]") {
		t.Error("Expected guard condition in edge label")
	}
	if !strings.Contains(dot, "alarms++") {
		t.Error("Expected action in edge label")
	}
}

func TestDOTGenerator_OptionsHideDetails(t *testing.T) {
	opts := visualization.DefaultDOTOptions()
	opts.ShowGuardConditions = false
	opts.ShowActions = false
	opts.RankDirection = "LR"

	g := visualization.NewDOTGenerator(alarmDefinition(), opts)
	dot, err := g.Generate()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if strings.Contains(dot, "[enabled]") {
		t.Error("Expected guards hidden")
	}
	if strings.Contains(dot, "alarms++") {
		t.Error("Expected actions hidden")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("Expected rank direction applied")
	}
}

func TestDOTGenerator_NestedMachineAnnotation(t *testing.T) {
	inner := machina.NewDefinition().
		State("I1").Initial().
		State("I2").
		Definition()
	def := machina.NewDefinition().
		State("Outer").Initial().SubMachine(inner).
		Definition()

	g := visualization.NewDOTGenerator(def)
	dot, err := g.Generate()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(dot, "[2 nested states]") {
		t.Error("Expected nested machine annotation on Outer")
	}
}

func TestDOTGenerator_GenerateToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machine.dot")
	g := visualization.NewDOTGenerator(alarmDefinition())

	if err := g.GenerateToFile(path); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected readable file, got: %v", err)
	}
	if !strings.Contains(string(content), "digraph StateMachine") {
		t.Error("Expected DOT content in file")
	}
}
