package weaver

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Base errors wrapped by the typed errors below. Match them with
// errors.Is; the typed wrappers carry the context.

var (
	// Registration errors.
	ErrIdentifierNil      = errors.New("identifier cannot be nil")
	ErrConstructorInvalid = errors.New("constructor must be a non-nil function")
	ErrMissingDeps        = errors.New("dependency list not declared")

	// Resolution errors.
	ErrNotConstructible = errors.New("stored descriptor is not constructible")
	ErrNotRegistered    = errors.New("identifier not registered")

	// Redirection errors.
	ErrNilThunk      = errors.New("binding has no target thunk")
	ErrNoTargetType  = errors.New("target thunk produced no type")
	ErrMethodMissing = errors.New("no callable method with that name")
)

var (
	_ error = ConfigurationError{}
	_ error = ResolutionError{}
	_ error = RedirectionError{}
	_ error = TypeMismatchError{}
	_ error = ModuleError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================
// Always use these instead of fmt.Errorf for domain failures; they wrap
// the sentinels above.

// ConfigurationError reports an invalid registration. It is returned
// synchronously from Register and RegisterMock and always signals a
// programming error at the call site; the container never swallows it.
type ConfigurationError struct {
	Id    Identifier
	Cause error
}

func (e ConfigurationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid registration of %s: %v", formatIdentifier(e.Id), e.Cause)

	if errors.Is(e.Cause, ErrMissingDeps) {
		b.WriteString("\n\nConstructible identifiers must declare their dependency list before registration:\n")
		b.WriteString("  • weaver.Define(\"Config\", NewConfig).Deps(Env) for ordered dependencies\n")
		b.WriteString("  • weaver.Define(\"Clock\", NewClock).Deps() when there are none\n")
	}

	return b.String()
}

func (e ConfigurationError) Unwrap() error {
	return e.Cause
}

// ResolutionError reports that constructing a resolved type failed: the
// constructor returned an error or panicked, the arguments did not fit,
// or the stored descriptor was not constructible at all. It is always
// preceded by an error-level diagnostic carrying the same detail.
type ResolutionError struct {
	Id     Identifier
	Params []any
	Cause  error
}

func (e ResolutionError) Error() string {
	if len(e.Params) == 0 {
		return fmt.Sprintf("failed to construct %s: %v", formatIdentifier(e.Id), e.Cause)
	}
	return fmt.Sprintf("failed to construct %s with parameters %s: %v",
		formatIdentifier(e.Id), formatParams(e.Params), e.Cause)
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// RedirectionError reports a failure inside a redirector call: the
// binding's thunk failed or produced nothing, or the target of the call
// had no callable method of the expected name.
type RedirectionError struct {
	Owner  Identifier
	Source string
	Target string
	Cause  error
}

func (e RedirectionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "redirector call %s.%s", formatIdentifier(e.Owner), e.Source)
	if e.Target != "" && e.Target != e.Source {
		fmt.Fprintf(&b, " (target method %s)", e.Target)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	return b.String()
}

func (e RedirectionError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a type assertion on a resolved value failed.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "resolve", "unit factory", etc.
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// ModuleError wraps a failure from a module registration action.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// formatIdentifier renders an identifier for error messages.
func formatIdentifier(id Identifier) string {
	switch v := id.(type) {
	case nil:
		return "<nil>"
	case Token:
		return fmt.Sprintf("token %q", string(v))
	case *Def:
		return v.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}

// formatParams renders resolved constructor parameters by type, keeping
// nil slots visible.
func formatParams(params []any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p == nil {
			parts[i] = "<nil>"
			continue
		}
		parts[i] = fmt.Sprintf("%T", p)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
