package weaver

import (
	"github.com/baikenlabs/weaver/internal/callable"
	"github.com/baikenlabs/weaver/logger"
)

// Redirector wraps a constructed instance whose def declares method
// redirections. Calls to bound names are routed to an independently
// resolved target; every other name falls through to the wrapped
// instance, so the type's observable call surface does not change.
//
// The dispatch table is computed once, when the wrapper is built.
// Bindings attached to the def afterwards affect future resolutions, not
// existing wrappers.
type Redirector struct {
	container *Container
	owner     *Def
	subject   any
	table     map[string]Binding
}

func newRedirector(c *Container, owner *Def, subject any, table map[string]Binding) *Redirector {
	return &Redirector{container: c, owner: owner, subject: subject, table: table}
}

// Unwrap returns the wrapped instance.
func (r *Redirector) Unwrap() any { return r.subject }

// Owner returns the def the wrapped instance was constructed from.
func (r *Redirector) Owner() *Def { return r.owner }

// Bound reports whether calls to method are redirected.
func (r *Redirector) Bound(method string) bool {
	_, ok := r.table[method]
	return ok
}

// Call invokes method with positional args.
//
// A bound name evaluates its binding's thunk, resolves the produced type
// with full nested semantics (auto-registration included), and invokes
// the effective target method with the original args. An unbound name is
// forwarded to the wrapped instance unchanged. Failures in the
// redirection machinery come back as *RedirectionError after being
// logged; errors returned by the invoked method itself pass through
// untouched.
func (r *Redirector) Call(method string, args ...any) (any, error) {
	b, bound := r.table[method]
	if !bound {
		return r.forward(method, args)
	}
	return r.redirect(b, args)
}

func (r *Redirector) redirect(b Binding, args []any) (any, error) {
	if b.Target == nil {
		return nil, r.fail(b.Source, b.EffectiveMethod(), ErrNilThunk)
	}

	target, err := b.Target()
	if err != nil {
		return nil, r.fail(b.Source, b.EffectiveMethod(), err)
	}
	if target == nil {
		return nil, r.fail(b.Source, b.EffectiveMethod(), ErrNoTargetType)
	}

	// Resolution failures keep their own error kind; the resolver has
	// already logged its diagnostic.
	instance, err := r.container.resolve(target, false, false)
	if err != nil {
		return nil, err
	}

	name := b.EffectiveMethod()

	// A target with redirections of its own resolves to another
	// wrapper; dispatch through it so chains keep working.
	if rd, ok := instance.(*Redirector); ok {
		return rd.Call(name, args...)
	}

	m, err := callable.Method(instance, name)
	if err != nil {
		return nil, r.fail(b.Source, name, ErrMethodMissing)
	}

	return callable.Call(m, args)
}

func (r *Redirector) forward(method string, args []any) (any, error) {
	m, err := callable.Method(r.subject, method)
	if err != nil {
		return nil, r.fail(method, "", ErrMethodMissing)
	}
	return callable.Call(m, args)
}

// fail logs the redirection diagnostic and builds the typed error.
func (r *Redirector) fail(source, target string, cause error) error {
	r.container.log.Error("redirection failed",
		logger.String("container", r.container.id),
		logger.String("owner", r.owner.Name()),
		logger.String("source", source),
		logger.String("target", target),
		logger.Err(cause),
	)
	return RedirectionError{Owner: r.owner, Source: source, Target: target, Cause: cause}
}
