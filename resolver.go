package weaver

import (
	"reflect"

	"github.com/baikenlabs/weaver/internal/callable"
	"github.com/baikenlabs/weaver/logger"
)

// ResolveOption adjusts a single Resolve call.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	useOverlay bool
	nested     bool
}

// WithOverlay makes nested lookups honor overlays stored with
// RegisterMock: a non-constructible stored value short-circuits
// construction and is injected as-is. The root of the call is not
// substituted, only the dependencies below it.
func WithOverlay() ResolveOption {
	return func(cfg *resolveConfig) { cfg.useOverlay = true }
}

// Nested marks the call as a non-root resolution, giving it the same
// semantics a dependency lookup has inside a chain: an unregistered
// identifier is auto-registered as its own descriptor instead of
// degrading to nil.
func Nested() ResolveOption {
	return func(cfg *resolveConfig) { cfg.nested = true }
}

// Resolve builds the value registered under id.
//
// A Token returns its stored value verbatim. A *Def is built recursively:
// each declared dependency resolves in order, the results become the
// constructor's positional arguments, and a def that declares
// redirections comes back wrapped in a *Redirector.
//
// An identifier that was never registered resolves to (nil, nil) at the
// root. That soft failure is deliberate: a missing root registration is
// a caller mistake best noticed at the call site, not three levels down
// a dependency chain. Nested misses auto-register instead.
func (c *Container) Resolve(id Identifier, opts ...ResolveOption) (any, error) {
	var cfg resolveConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return c.resolve(id, cfg.useOverlay, !cfg.nested)
}

// resolve walks one identifier. Soft failures are (nil, nil); hard
// failures carry a typed error.
func (c *Container) resolve(id Identifier, useOverlay, isRoot bool) (any, error) {
	if id == nil {
		return nil, nil
	}

	// Tokens short-circuit: the stored value comes back untouched.
	if tok, ok := id.(Token); ok {
		if v, found := c.entries[tok]; found {
			return v, nil
		}
	}

	if _, found := c.entries[id]; !found {
		if isRoot {
			return nil, nil
		}
		// A dependency that was never registered is assumed
		// self-sufficient and registered on the fly as its own
		// descriptor.
		c.entries[id] = id
	}

	stored := c.entries[id]
	if stored == nil {
		return nil, nil
	}

	// Overlay substitution: inside a chain, with overlays requested, a
	// stored non-constructible value replaces construction entirely.
	if !isRoot && useOverlay {
		if _, constructible := stored.(*Def); !constructible {
			return stored, nil
		}
	}

	def, ok := stored.(*Def)
	if !ok {
		return nil, c.fail(id, nil, ErrNotConstructible)
	}

	deps, _ := def.Dependencies()
	params := make([]any, len(deps))
	for i, dep := range deps {
		v, err := c.resolve(dep, useOverlay, false)
		if err != nil {
			return nil, err
		}
		params[i] = v
	}

	instance, err := callable.Invoke(def.ctor, params)
	if err != nil {
		return nil, c.fail(def, params, err)
	}

	if table := redirectTable(def); table != nil {
		return newRedirector(c, def, instance, table), nil
	}
	return instance, nil
}

// fail emits the construction diagnostic and builds the typed error.
func (c *Container) fail(id Identifier, params []any, cause error) error {
	c.log.Error("construction failed",
		logger.String("container", c.id),
		logger.String("descriptor", formatIdentifier(id)),
		logger.String("params", formatParams(params)),
		logger.Err(cause),
	)
	return ResolutionError{Id: id, Params: params, Cause: cause}
}

// Resolve is the typed counterpart of Container.Resolve. It hardens the
// soft nil of a root miss into ErrNotRegistered and asserts the result
// type, so typed callers never receive a silent zero value.
func Resolve[T any](c *Container, id Identifier, opts ...ResolveOption) (T, error) {
	var zero T

	v, err := c.Resolve(id, opts...)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, ResolutionError{Id: id, Cause: ErrNotRegistered}
	}

	t, ok := v.(T)
	if !ok {
		return zero, TypeMismatchError{
			Context:  "resolve",
			Expected: reflect.TypeOf((*T)(nil)).Elem(),
			Actual:   reflect.TypeOf(v),
		}
	}
	return t, nil
}

// MustResolve is Resolve for wiring code that treats failure as fatal.
// It panics on any error, including a root miss.
func MustResolve[T any](c *Container, id Identifier, opts ...ResolveOption) T {
	v, err := Resolve[T](c, id, opts...)
	if err != nil {
		panic(err)
	}
	return v
}
