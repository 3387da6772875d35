package machina

import "github.com/machinago/machina/pkg/script"

// FuncRegistry maps names to host functions that authored code may call,
// typically simulated hardware or environment hooks.
type FuncRegistry map[string]script.HostFunc

// NewFuncRegistry creates an empty registry.
func NewFuncRegistry() FuncRegistry {
	return make(FuncRegistry)
}

// Register adds or replaces a host function and returns the registry for
// chaining.
func (r FuncRegistry) Register(name string, fn script.HostFunc) FuncRegistry {
	r[name] = fn
	return r
}
