// Package uow provides the typed unit-of-work surface on top of a
// container: a single Execute contract, a function adapter, and a
// factory that resolves fresh units by identifier.
//
// Example usage:
//
//	unitDef := weaver.Define("ImportUnit", NewImportUnit).Deps(db)
//	c.Register(unitDef)
//
//	imports := uow.NewFactory[ImportRequest, ImportResult](c, unitDef)
//	unit, _ := imports.Unit()
//	result, err := unit.Execute(ctx, req)
package uow

import (
	"context"
	"reflect"

	"github.com/baikenlabs/weaver"
)

// Unit is one typed operation. Implementations are resolved out of a
// container per call, so each unit starts from fresh state.
type Unit[I, O any] interface {
	Execute(ctx context.Context, in I) (O, error)
}

// Func adapts a plain function to Unit.
type Func[I, O any] func(ctx context.Context, in I) (O, error)

// Execute calls f.
func (f Func[I, O]) Execute(ctx context.Context, in I) (O, error) {
	return f(ctx, in)
}

// Factory resolves units registered under a single identifier. Every
// Unit call resolves anew, so callers get the container's
// fresh-instance semantics per unit of work.
type Factory[I, O any] struct {
	container *weaver.Container
	id        weaver.Identifier
	opts      []weaver.ResolveOption
}

// NewFactory builds a factory for id on c. Resolve options are applied
// to every Unit call, so a factory built with weaver.WithOverlay hands
// out units constructed against test substitutes.
func NewFactory[I, O any](c *weaver.Container, id weaver.Identifier, opts ...weaver.ResolveOption) *Factory[I, O] {
	return &Factory[I, O]{container: c, id: id, opts: opts}
}

// Unit resolves one unit of work.
//
// A root miss is hardened into an error carrying ErrNotRegistered; a
// factory never hands out a nil unit. A value that resolved to a
// *weaver.Redirector is adapted so Execute dispatches through the
// redirection table, with unbound calls reaching the wrapped unit.
func (f *Factory[I, O]) Unit() (Unit[I, O], error) {
	v, err := f.container.Resolve(f.id, f.opts...)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, weaver.ResolutionError{Id: f.id, Cause: weaver.ErrNotRegistered}
	}

	switch u := v.(type) {
	case *weaver.Redirector:
		return redirected[I, O]{r: u}, nil
	case Unit[I, O]:
		return u, nil
	default:
		return nil, weaver.TypeMismatchError{
			Context:  "unit factory",
			Expected: reflect.TypeOf((*Unit[I, O])(nil)).Elem(),
			Actual:   reflect.TypeOf(v),
		}
	}
}

// MustUnit is Unit for wiring code that treats failure as fatal.
func (f *Factory[I, O]) MustUnit() Unit[I, O] {
	u, err := f.Unit()
	if err != nil {
		panic(err)
	}
	return u
}

// redirected adapts a redirector-wrapped unit: Execute goes through
// Call, so a bound Execute is handled by its redirection target and an
// unbound one reaches the wrapped instance.
type redirected[I, O any] struct {
	r *weaver.Redirector
}

func (d redirected[I, O]) Execute(ctx context.Context, in I) (O, error) {
	var zero O

	out, err := d.r.Call("Execute", ctx, in)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}

	o, ok := out.(O)
	if !ok {
		return zero, weaver.TypeMismatchError{
			Context:  "unit execute",
			Expected: reflect.TypeOf((*O)(nil)).Elem(),
			Actual:   reflect.TypeOf(out),
		}
	}
	return o, nil
}
