package visualization

import (
	"fmt"
	"os"
	"strings"

	"github.com/machinago/machina"
)

// DOTGenerator generates Graphviz DOT format representations of machine
// definitions
type DOTGenerator struct {
	definition *machina.Definition
	options    DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowGuardConditions bool
	ShowActions         bool
	ShowNestedMachines  bool
	RankDirection       string // "TB", "LR", "BT", "RL"
	NodeShape           string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowGuardConditions: true,
		ShowActions:         true,
		ShowNestedMachines:  true,
		RankDirection:       "TB",
		NodeShape:           "box",
	}
}

// NewDOTGenerator creates a new DOT generator for the given definition
func NewDOTGenerator(definition *machina.Definition, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		definition: definition,
		options:    opts,
	}
}

// Generate creates a DOT representation of the machine definition
func (g *DOTGenerator) Generate() (string, error) {
	if g.definition == nil {
		return "", fmt.Errorf("no definition to visualize")
	}

	var dot strings.Builder

	dot.WriteString("digraph StateMachine {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateStates(&dot)
	g.generateTransitions(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateStates generates DOT nodes for all states
func (g *DOTGenerator) generateStates(dot *strings.Builder) {
	dot.WriteString("  // States\n")
	for i := range g.definition.States {
		g.generateStateNode(dot, &g.definition.States[i])
	}
	dot.WriteString("\n")
}

// generateStateNode generates a DOT node for a single state
func (g *DOTGenerator) generateStateNode(dot *strings.Builder, state *machina.StateDef) {
	shape := g.options.NodeShape
	fillColor := "lightblue"
	label := state.Name

	if state.IsInitial {
		fillColor = "lightgreen"
		label += "\\n(initial)"
	}
	if state.IsFinal {
		shape = "doublecircle"
		fillColor = "lightcoral"
	}
	if state.Sub != nil && g.options.ShowNestedMachines {
		label += fmt.Sprintf("\\n[%d nested states]", len(state.Sub.States))
	}

	dot.WriteString(fmt.Sprintf("  \"%s\" [shape=%s style=\"filled\" fillcolor=%s label=\"%s\"];\n",
		state.Name, shape, fillColor, label))
}

// generateTransitions generates DOT edges for all transitions
func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")
	for _, t := range g.definition.Transitions {
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\"%s;\n", t.Source, t.Target, g.edgeAttrs(t)))
	}
}

// edgeAttrs builds the label attribute of a transition edge from its
// event, guard and action.
func (g *DOTGenerator) edgeAttrs(t machina.TransitionDef) string {
	var parts []string
	if t.Event != "" {
		parts = append(parts, t.Event)
	}
	if t.Condition != "" && g.options.ShowGuardConditions {
		parts = append(parts, fmt.Sprintf("[%s]", t.Condition))
	}
	if t.Action != "" && g.options.ShowActions {
		parts = append(parts, fmt.Sprintf("/ %s", t.Action))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" [label=\"%s\"]", escapeLabel(strings.Join(parts, "\\n")))
}

// escapeLabel escapes quotes so authored code cannot break the DOT
// syntax.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}
