package weaver

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		err     error
		message string
	}{
		{ErrIdentifierNil, "identifier cannot be nil"},
		{ErrConstructorInvalid, "constructor must be a non-nil function"},
		{ErrMissingDeps, "dependency list not declared"},
		{ErrNotConstructible, "stored descriptor is not constructible"},
		{ErrNotRegistered, "identifier not registered"},
		{ErrNilThunk, "binding has no target thunk"},
		{ErrNoTargetType, "target thunk produced no type"},
		{ErrMethodMissing, "no callable method with that name"},
	}

	for _, tt := range sentinels {
		t.Run(tt.message, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestConfigurationError(t *testing.T) {
	t.Run("message carries identifier and cause", func(t *testing.T) {
		err := ConfigurationError{
			Id:    Define("Config", NewTLeaf),
			Cause: ErrConstructorInvalid,
		}

		msg := err.Error()
		assert.Contains(t, msg, "invalid registration of Config")
		assert.Contains(t, msg, ErrConstructorInvalid.Error())
		assert.NotContains(t, msg, "Deps(")
	})

	t.Run("missing deps adds usage hint", func(t *testing.T) {
		err := ConfigurationError{
			Id:    Define("Config", NewTLeaf),
			Cause: ErrMissingDeps,
		}

		msg := err.Error()
		assert.Contains(t, msg, ErrMissingDeps.Error())
		assert.Contains(t, msg, ".Deps(Env) for ordered dependencies")
		assert.Contains(t, msg, ".Deps() when there are none")
	})

	t.Run("nil identifier", func(t *testing.T) {
		err := ConfigurationError{Cause: ErrIdentifierNil}
		assert.Contains(t, err.Error(), "invalid registration of <nil>")
	})

	t.Run("unwrap", func(t *testing.T) {
		err := ConfigurationError{Id: Token("env"), Cause: ErrMissingDeps}
		assert.ErrorIs(t, err, ErrMissingDeps)
		assert.Equal(t, ErrMissingDeps, err.Unwrap())
	})
}

func TestResolutionError(t *testing.T) {
	t.Run("without parameters", func(t *testing.T) {
		err := ResolutionError{
			Id:    Define("Leaf", NewTLeaf),
			Cause: ErrNotConstructible,
		}
		assert.Equal(t, "failed to construct Leaf: stored descriptor is not constructible", err.Error())
	})

	t.Run("with parameters", func(t *testing.T) {
		err := ResolutionError{
			Id:     Define("Mid", NewTMid),
			Params: []any{&TLeaf{}, nil},
			Cause:  errCtor,
		}

		msg := err.Error()
		assert.Contains(t, msg, "failed to construct Mid")
		assert.Contains(t, msg, "[*weaver.TLeaf, <nil>]")
		assert.Contains(t, msg, errCtor.Error())
	})

	t.Run("token identifier", func(t *testing.T) {
		err := ResolutionError{Id: Token("ghost"), Cause: ErrNotConstructible}
		assert.Contains(t, err.Error(), `token "ghost"`)
	})

	t.Run("unwrap", func(t *testing.T) {
		err := ResolutionError{Id: Token("ghost"), Cause: ErrNotRegistered}
		assert.ErrorIs(t, err, ErrNotRegistered)

		var resErr ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, Token("ghost"), resErr.Id)
	})
}

func TestRedirectionError(t *testing.T) {
	owner := Define("Stub", NewTStub)

	t.Run("same target name stays quiet", func(t *testing.T) {
		err := RedirectionError{Owner: owner, Source: "Ping", Target: "Ping", Cause: ErrNilThunk}
		assert.Equal(t, "redirector call Stub.Ping: binding has no target thunk", err.Error())
	})

	t.Run("renamed target is spelled out", func(t *testing.T) {
		err := RedirectionError{Owner: owner, Source: "Ping", Target: "Pong", Cause: ErrMethodMissing}

		msg := err.Error()
		assert.Contains(t, msg, "redirector call Stub.Ping")
		assert.Contains(t, msg, "(target method Pong)")
	})

	t.Run("unwrap", func(t *testing.T) {
		err := RedirectionError{Owner: owner, Source: "Ping", Cause: ErrNoTargetType}
		assert.ErrorIs(t, err, ErrNoTargetType)
	})
}

func TestTypeMismatchError(t *testing.T) {
	err := TypeMismatchError{
		Context:  "resolve",
		Expected: reflect.TypeOf(""),
		Actual:   reflect.TypeOf(0),
	}
	assert.Equal(t, "resolve: expected string, got int", err.Error())
}

func TestModuleError(t *testing.T) {
	cause := errors.New("registration exploded")
	err := ModuleError{Module: "storage", Cause: cause}

	assert.Equal(t, `module "storage": registration exploded`, err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestFormatIdentifier(t *testing.T) {
	tests := []struct {
		name string
		id   Identifier
		want string
	}{
		{"nil", nil, "<nil>"},
		{"token", Token("env"), `token "env"`},
		{"def", Define("Config", NewTLeaf), "Config"},
		{"typed nil def", (*Def)(nil), "<nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatIdentifier(tt.id))
		})
	}
}

func TestFormatParams(t *testing.T) {
	tests := []struct {
		name   string
		params []any
		want   string
	}{
		{"empty", nil, "[]"},
		{"nil slot", []any{nil}, "[<nil>]"},
		{"mixed", []any{"x", 3, &TLeaf{}}, "[string, int, *weaver.TLeaf]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatParams(tt.params))
		})
	}
}

func TestFormatType(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"nil", nil, "<nil>"},
		{"named pointer", reflect.TypeOf(&TLeaf{}), "*TLeaf"},
		{"unnamed pointer", reflect.TypeOf(&struct{}{}), "*struct {}"},
		{"interface", reflect.TypeOf((*error)(nil)).Elem(), "error"},
		{"named struct", reflect.TypeOf(TLeaf{}), "TLeaf"},
		{"builtin", reflect.TypeOf(0), "int"},
		{"slice", reflect.TypeOf([]int{}), "[]int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatType(tt.typ))
		})
	}
}
