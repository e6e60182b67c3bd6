package weaver

// Thunk is a deferred reference to a constructible type. It is evaluated
// only when a bound method call needs its target, so the referenced type
// may be expensive to load or not yet defined when the binding is
// declared. A Thunk may block before returning; callers wait for the
// result either way.
type Thunk func() (*Def, error)

// To returns a Thunk that yields def immediately. It is the common case
// for targets already in hand at declaration time.
func To(def *Def) Thunk {
	return func() (*Def, error) { return def, nil }
}

// Binding redirects one method name on an owner type to a method on a
// separately resolved target type. Bindings are declared on the owner's
// Def and shared by every instance constructed from it; they are not
// per-instance state.
type Binding struct {
	// Owner is the def the binding is declared on.
	Owner *Def

	// Source is the intercepted method name on the owner.
	Source string

	// Target yields the type whose method handles the call.
	Target Thunk

	// Method is the name invoked on the target; empty means Source.
	Method string
}

// EffectiveMethod returns the method name invoked on the target.
func (b Binding) EffectiveMethod() string {
	if b.Method != "" {
		return b.Method
	}
	return b.Source
}

// redirectTable flattens a def's bindings into a source-name dispatch
// table. A later attachment for the same source overwrites an earlier
// one. Returns nil when the def carries no bindings.
func redirectTable(def *Def) map[string]Binding {
	if def == nil || len(def.bindings) == 0 {
		return nil
	}
	table := make(map[string]Binding, len(def.bindings))
	for _, b := range def.bindings {
		table[b.Source] = b
	}
	return table
}
