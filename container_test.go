package weaver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c := New()

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, 0, c.Count())

	// Instances own independent state and identities.
	other := New()
	assert.NotEqual(t, c.ID(), other.ID())
}

func TestWithLogger(t *testing.T) {
	t.Run("custom logger receives diagnostics", func(t *testing.T) {
		c, logs := observedContainer()

		failing := Define("Failing", NewTFailing).Deps()
		requireRegister(t, c, failing)

		_, err := c.Resolve(failing)
		require.Error(t, err)
		assert.Equal(t, 1, logs.FilterMessage("construction failed").Len())
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		c := New(WithLogger(nil))

		failing := Define("Failing", NewTFailing).Deps()
		requireRegister(t, c, failing)

		// Must not panic on the diagnostic path.
		_, err := c.Resolve(failing)
		assert.Error(t, err)
	})
}

func TestRegister_Token(t *testing.T) {
	t.Run("stores value verbatim", func(t *testing.T) {
		c := New()
		env := map[string]string{"env": "dev"}

		requireRegister(t, c, Token("env"), env)

		assert.True(t, c.Contains(Token("env")))
		assert.Equal(t, 1, c.Count())
	})

	t.Run("re-registration overwrites", func(t *testing.T) {
		c := New()
		requireRegister(t, c, Token("env"), "first")
		requireRegister(t, c, Token("env"), "second")

		v, err := c.Resolve(Token("env"))
		require.NoError(t, err)
		assert.Equal(t, "second", v)
		assert.Equal(t, 1, c.Count())
	})

	t.Run("value is optional", func(t *testing.T) {
		c := New()
		requireRegister(t, c, Token("empty"))

		assert.True(t, c.Contains(Token("empty")))

		v, err := c.Resolve(Token("empty"))
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestRegister_Def(t *testing.T) {
	t.Run("declared dependency list registers", func(t *testing.T) {
		c := New()
		leaf := newLeafDef()

		requireRegister(t, c, leaf)
		assert.True(t, c.Contains(leaf))
	})

	t.Run("undeclared dependency list fails", func(t *testing.T) {
		c := New()
		err := c.Register(Define("Leaf", NewTLeaf))

		require.Error(t, err)

		var cfgErr ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.ErrorIs(t, err, ErrMissingDeps)
		assert.False(t, c.Contains(cfgErr.Id))
		assert.Equal(t, 0, c.Count())
	})

	t.Run("nil identifier fails", func(t *testing.T) {
		c := New()

		err := c.Register(nil)
		assert.ErrorIs(t, err, ErrIdentifierNil)

		var def *Def
		err = c.Register(def)
		assert.ErrorIs(t, err, ErrIdentifierNil)
	})

	t.Run("invalid constructor fails", func(t *testing.T) {
		c := New()

		err := c.Register(Define("Bad", nil).Deps())
		assert.ErrorIs(t, err, ErrConstructorInvalid)

		err = c.Register(Define("Bad", "text").Deps())
		assert.ErrorIs(t, err, ErrConstructorInvalid)
	})
}

func TestRegisterMock(t *testing.T) {
	t.Run("stores the overlay for a def", func(t *testing.T) {
		c := New()
		leaf := newLeafDef()
		mock := &TLeaf{N: -1}

		require.NoError(t, c.RegisterMock(leaf, mock))
		assert.True(t, c.Contains(leaf))
	})

	t.Run("validates like Register", func(t *testing.T) {
		c := New()

		err := c.RegisterMock(Define("Leaf", NewTLeaf), &TLeaf{})
		assert.ErrorIs(t, err, ErrMissingDeps)

		err = c.RegisterMock(nil, &TLeaf{})
		assert.ErrorIs(t, err, ErrIdentifierNil)

		var def *Def
		err = c.RegisterMock(def, &TLeaf{})
		assert.ErrorIs(t, err, ErrIdentifierNil)
	})

	t.Run("overwrites a real registration", func(t *testing.T) {
		c := New()
		leaf := newLeafDef()
		mock := &TLeaf{N: -1}

		requireRegister(t, c, leaf)
		require.NoError(t, c.RegisterMock(leaf, mock))
		assert.Equal(t, 1, c.Count())
	})

	t.Run("token mock resolves to the value", func(t *testing.T) {
		c := New()
		require.NoError(t, c.RegisterMock(Token("env"), "mocked"))

		v, err := c.Resolve(Token("env"))
		require.NoError(t, err)
		assert.Equal(t, "mocked", v)
	})
}

func TestClear(t *testing.T) {
	c := New()
	leaf := newLeafDef()

	requireRegister(t, c, Token("env"), "dev")
	requireRegister(t, c, leaf)
	require.Equal(t, 2, c.Count())

	c.Clear()

	assert.Equal(t, 0, c.Count())
	assert.False(t, c.Contains(Token("env")))
	assert.False(t, c.Contains(leaf))
}

func TestContains(t *testing.T) {
	c := New()
	leaf := newLeafDef()

	assert.False(t, c.Contains(leaf))
	assert.False(t, c.Contains(Token("env")))

	requireRegister(t, c, leaf)
	requireRegister(t, c, Token("env"), "dev")

	assert.True(t, c.Contains(leaf))
	assert.True(t, c.Contains(Token("env")))
}

func TestClone(t *testing.T) {
	t.Run("snapshot shares entries, not the map", func(t *testing.T) {
		c := New()
		leaf := newLeafDef()
		requireRegister(t, c, leaf)
		requireRegister(t, c, Token("env"), "dev")

		clone := c.Clone()

		assert.NotEqual(t, c.ID(), clone.ID())
		assert.Equal(t, c.Count(), clone.Count())
		assert.True(t, clone.Contains(leaf))

		v, err := clone.Resolve(Token("env"))
		require.NoError(t, err)
		assert.Equal(t, "dev", v)
	})

	t.Run("later changes stay local", func(t *testing.T) {
		c := New()
		requireRegister(t, c, Token("shared"), 1)

		clone := c.Clone()

		requireRegister(t, c, Token("original-only"), 2)
		requireRegister(t, clone, Token("clone-only"), 3)
		clone.Clear()

		assert.True(t, c.Contains(Token("shared")))
		assert.True(t, c.Contains(Token("original-only")))
		assert.False(t, c.Contains(Token("clone-only")))
		assert.Equal(t, 0, clone.Count())
	})
}
