package script

// Env is the variable environment an authored machine mutates through its
// actions. Keys are variable names; values are script values.
type Env map[string]any

// NewEnv creates an empty environment.
func NewEnv() Env {
	return make(Env)
}

// Snapshot returns a deep copy of the environment. Mutating the copy never
// affects the original, including nested lists.
func (e Env) Snapshot() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	list, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]any, len(list))
	for i, elem := range list {
		out[i] = copyValue(elem)
	}
	return out
}
