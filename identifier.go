package weaver

import (
	"fmt"
	"reflect"
)

// Identifier is a registry key. Exactly two kinds exist: Token, for
// opaque stored values, and *Def, for constructible types. The interface
// is sealed; nothing outside this package implements it.
type Identifier interface {
	fmt.Stringer

	isIdentifier()
}

// Token identifies a value that is stored and returned verbatim. Tokens
// never participate in dependency interpretation: resolving one returns
// exactly what was registered under it, and a token is never constructed.
type Token string

func (t Token) String() string { return string(t) }

func (Token) isIdentifier() {}

// Def describes a constructible type: a constructor, the ordered
// dependency list that fixes its argument order, and any method
// redirections declared on the type. A *Def acts as its own registry
// descriptor and is compared by identity, so every instance constructed
// from it shares the same bindings.
//
// Defs are built once, at type-definition time, by chaining:
//
//	var Service = weaver.Define("Service", NewService).
//	    Deps(Config).
//	    Redirect("Describe", weaver.To(Renderer))
type Def struct {
	name string
	ctor any

	// deps stays undeclared until Deps is called; registration rejects
	// undeclared lists, while a declared-empty list is valid.
	deps     []Identifier
	declared bool

	bindings []Binding
}

// Define creates a constructible identifier for ctor under the given
// diagnostic name. The dependency list starts undeclared; chain Deps to
// declare it before registering, and Redirect to bind methods.
func Define(name string, ctor any) *Def {
	return &Def{name: name, ctor: ctor}
}

// Deps declares the ordered dependency list. Order fixes constructor
// argument order. Deps() with no arguments declares an empty list, which
// is distinct from never declaring one: only the former passes
// registration.
func (d *Def) Deps(ids ...Identifier) *Def {
	d.deps = ids
	d.declared = true
	return d
}

// Redirect declares that calls to source on instances of this type are
// handled by an independently resolved target. The thunk runs only when
// a bound call needs it, never at declaration, so a failing or expensive
// target costs nothing until first use. The optional targetMethod names
// the method invoked on the target and defaults to source.
//
// Declaring the same source twice keeps both entries; the later one wins
// when the dispatch table is flattened at wrap time.
func (d *Def) Redirect(source string, target Thunk, targetMethod ...string) *Def {
	b := Binding{Owner: d, Source: source, Target: target}
	if len(targetMethod) > 0 {
		b.Method = targetMethod[0]
	}
	d.bindings = append(d.bindings, b)
	return d
}

// Name returns the diagnostic name given to Define.
func (d *Def) Name() string { return d.name }

// Dependencies returns a copy of the dependency list and whether one was
// declared at all.
func (d *Def) Dependencies() ([]Identifier, bool) {
	if !d.declared {
		return nil, false
	}
	out := make([]Identifier, len(d.deps))
	copy(out, d.deps)
	return out, true
}

// Bindings returns a copy of the redirection bindings in attachment order.
func (d *Def) Bindings() []Binding {
	out := make([]Binding, len(d.bindings))
	copy(out, d.bindings)
	return out
}

func (d *Def) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.name
}

func (*Def) isIdentifier() {}

// validate reports why the def cannot be registered, if anything.
func (d *Def) validate() error {
	if d.ctor == nil {
		return ErrConstructorInvalid
	}
	if reflect.TypeOf(d.ctor).Kind() != reflect.Func {
		return ErrConstructorInvalid
	}
	if !d.declared {
		return ErrMissingDeps
	}
	return nil
}
