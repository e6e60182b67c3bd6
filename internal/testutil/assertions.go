package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baikenlabs/weaver"
)

// RequireRegister registers id or fails the test
func RequireRegister(t *testing.T, c *weaver.Container, id weaver.Identifier, value ...any) {
	t.Helper()
	require.NoError(t, c.Register(id, value...), "failed to register %s", id)
}

// RequireResolve resolves id to a T or fails the test
func RequireResolve[T any](t *testing.T, c *weaver.Container, id weaver.Identifier, opts ...weaver.ResolveOption) T {
	t.Helper()
	v, err := weaver.Resolve[T](c, id, opts...)
	require.NoError(t, err, "failed to resolve %s", id)
	return v
}

// RequireRedirector resolves id and requires the result to be a wrapped
// instance carrying redirection bindings
func RequireRedirector(t *testing.T, c *weaver.Container, id weaver.Identifier, opts ...weaver.ResolveOption) *weaver.Redirector {
	t.Helper()
	v, err := c.Resolve(id, opts...)
	require.NoError(t, err, "failed to resolve %s", id)
	r, ok := v.(*weaver.Redirector)
	require.True(t, ok, "resolved %s to %T, want *weaver.Redirector", id, v)
	return r
}

// RequireCall invokes a redirected method or fails the test
func RequireCall(t *testing.T, r *weaver.Redirector, method string, args ...any) any {
	t.Helper()
	out, err := r.Call(method, args...)
	require.NoError(t, err, "call %s failed", method)
	return out
}

// AssertNotResolvable asserts the root-miss soft failure: (nil, nil)
func AssertNotResolvable(t *testing.T, c *weaver.Container, id weaver.Identifier) {
	t.Helper()
	v, err := c.Resolve(id)
	assert.NoError(t, err, "root miss must not error")
	assert.Nil(t, v, "root miss must resolve to nil")
}

// AssertErrorType checks if an error is of a specific type
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...interface{}) T {
	t.Helper()
	var target T
	assert.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// AssertSameInstance verifies two resolved values are the same instance
func AssertSameInstance(t *testing.T, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Same(t, expected, actual, msgAndArgs...)
}

// AssertDifferentInstances verifies two resolved values are different instances
func AssertDifferentInstances(t *testing.T, first, second interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	assert.NotSame(t, first, second, msgAndArgs...)
}
