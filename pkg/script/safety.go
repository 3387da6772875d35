package script

import (
	"fmt"
	"strings"
	"sync"
)

// Checker statically screens authored code before it is ever parsed or
// executed, and caches the verdict per distinct source string.
//
// The grammar itself has no imports, no attribute access and no dynamic
// code loading, so the checker is defense in depth against snippets pasted
// in from other environments rather than a sandbox guarantee. Resource
// exhaustion is handled separately by the evaluation budget.
type Checker struct {
	mu       sync.RWMutex
	verdicts map[string]verdict
}

type verdict struct {
	ok     bool
	reason string
}

// deniedIdents are identifiers that signal code written for a
// general-purpose runtime: module loading, dynamic evaluation, file,
// process and input primitives. Their presence blocks the whole snippet.
var deniedIdents = map[string]struct{}{
	"import":     {},
	"from":       {},
	"eval":       {},
	"exec":       {},
	"compile":    {},
	"open":       {},
	"input":      {},
	"system":     {},
	"popen":      {},
	"subprocess": {},
	"os":         {},
	"sys":        {},
	"getattr":    {},
	"setattr":    {},
	"delattr":    {},
	"globals":    {},
	"locals":     {},
	"vars":       {},
	"__import__": {},
}

// NewChecker creates an empty checker.
func NewChecker() *Checker {
	return &Checker{verdicts: make(map[string]verdict)}
}

// Check reports whether the source is safe to hand to the interpreter.
// When it is not, the reason names the first offending construct. Empty
// source is trivially safe.
func (c *Checker) Check(source string) (bool, string) {
	if strings.TrimSpace(source) == "" {
		return true, ""
	}

	c.mu.RLock()
	v, cached := c.verdicts[source]
	c.mu.RUnlock()
	if cached {
		return v.ok, v.reason
	}

	v = screen(source)

	c.mu.Lock()
	c.verdicts[source] = v
	c.mu.Unlock()

	return v.ok, v.reason
}

// screen scans the token stream for denied identifiers. Lexing errors end
// the scan: unlexable source cannot reach the interpreter either, and is
// reported as an ordinary evaluation error there.
func screen(source string) verdict {
	lx := newLexer(source)
	for {
		tok, err := lx.next()
		if err != nil || tok.Kind == EOF {
			return verdict{ok: true}
		}
		if tok.Kind != IDENT {
			continue
		}
		if _, denied := deniedIdents[tok.Text]; denied {
			return verdict{reason: fmt.Sprintf("use of %q is not allowed", tok.Text)}
		}
		if strings.HasPrefix(tok.Text, "__") {
			return verdict{reason: fmt.Sprintf("reserved identifier %q is not allowed", tok.Text)}
		}
	}
}
