// Package weaver is a minimal dependency-resolution engine: a registry of
// constructible types and opaque values, a recursive instantiation
// algorithm, a test-time value-overlay mechanism, and a method-redirection
// mechanism that lets a declared method stub be transparently handled, at
// call time, by a method on a separately resolved, possibly lazily loaded
// type.
//
// # Overview
//
// weaver keeps wiring explicit and small. The library provides:
//   - Tokens for opaque values and Defs for constructible types
//   - Recursive construction with ordered, positional arguments
//   - Auto-registration of unregistered nested dependencies
//   - Mock overlays for test isolation
//   - Declarative method redirection through lazy thunks
//   - Typed errors for registration, resolution, and redirection faults
//
// # Basic Usage
//
// Declare identifiers once, register them on a container, and resolve:
//
//	var (
//	    Env     = weaver.Token("env")
//	    Config  = weaver.Define("Config", NewConfig).Deps(Env)
//	    Service = weaver.Define("Service", NewReportService).Deps(Config)
//	)
//
//	c := weaver.New()
//	c.Register(Env, map[string]string{"env": "dev"})
//	c.Register(Config)
//	c.Register(Service)
//
//	svc, err := weaver.Resolve[*ReportService](c, Service)
//
// Constructors receive their dependencies as positional arguments in
// declaration order and may return either an instance or an instance and
// an error.
//
// # Tokens and Defs
//
// A Token stores a value verbatim; resolving it performs no injection and
// always returns the identical stored value. A Def describes how to build
// a type: its constructor plus an ordered dependency list declared with
// Deps. Registering a def whose list was never declared fails with
// ConfigurationError; Deps() with no arguments declares an empty list.
//
// Resolving an identifier that was never registered returns nil at the
// root, so misconfiguration surfaces at the call site. Inside a chain the
// same miss auto-registers the identifier as its own descriptor instead,
// keeping deep graphs terse.
//
// # Mock Overlays
//
// RegisterMock stores a substitute value under an identifier. Resolving
// WithOverlay injects that value wherever the identifier appears as a
// dependency, bypassing construction:
//
//	c.RegisterMock(Database, &fakeDB{})
//	svc, err := c.Resolve(Service, weaver.WithOverlay())
//
// # Method Redirection
//
// A def may declare that calls to one of its method names are handled by
// another, independently resolved type. The target is given as a thunk so
// it can be loaded lazily; the optional third argument renames the method
// on the target:
//
//	var Report = weaver.Define("Report", NewReport).
//	    Deps().
//	    Redirect("Render", weaver.To(Renderer), "RenderReport")
//
// Instances of such a def resolve to a *Redirector. Calls go through
// Redirector.Call: bound names dispatch to the target, all other names
// reach the wrapped instance unchanged.
//
// # Error Handling
//
// weaver reports failures with typed errors:
//   - ConfigurationError: invalid registration, a programmer error
//   - ResolutionError: construction failed; logged with the failing
//     descriptor, resolved parameters, and cause
//   - RedirectionError: a redirected call could not reach its target
//
// All of them unwrap to sentinel values (ErrMissingDeps,
// ErrNotConstructible, ErrMethodMissing, ...) for errors.Is checks.
//
// # Thread Safety
//
// Containers are NOT thread-safe. The registry is single-goroutine state
// by design; use Clone to hand concurrent goroutines, subtests, or HTTP
// requests their own isolated container.
//
// # Best Practices
//
//   - Declare Defs once, as package-level variables
//   - Register everything during startup, then treat the container as
//     read-only
//   - Keep constructors pure wiring; construction failures become
//     ResolutionError
//   - Use RegisterMock plus WithOverlay in tests instead of reaching into
//     instances
//   - Give each test its own container, or Clone a prepared one
package weaver
