package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/baikenlabs/weaver"
	"github.com/baikenlabs/weaver/logger"
)

// ContainerBuilder provides a fluent interface for building test containers
type ContainerBuilder struct {
	t *testing.T
	c *weaver.Container
}

// NewContainerBuilder creates a new ContainerBuilder
func NewContainerBuilder(t *testing.T, opts ...weaver.Option) *ContainerBuilder {
	return &ContainerBuilder{
		t: t,
		c: weaver.New(opts...),
	}
}

// WithLogger rebuilds the container with the given logger, dropping any
// registrations added so far. Call it first.
func (b *ContainerBuilder) WithLogger(l logger.Logger) *ContainerBuilder {
	b.c = weaver.New(weaver.WithLogger(l))
	return b
}

// WithDef registers a constructible def
func (b *ContainerBuilder) WithDef(def *weaver.Def) *ContainerBuilder {
	require.NoError(b.t, b.c.Register(def))
	return b
}

// WithValue registers a value under an identifier, usually a token
func (b *ContainerBuilder) WithValue(id weaver.Identifier, value any) *ContainerBuilder {
	require.NoError(b.t, b.c.Register(id, value))
	return b
}

// WithMock registers an overlay value for test substitution
func (b *ContainerBuilder) WithMock(id weaver.Identifier, value any) *ContainerBuilder {
	require.NoError(b.t, b.c.RegisterMock(id, value))
	return b
}

// WithModules applies registration modules to the container
func (b *ContainerBuilder) WithModules(modules ...weaver.ModuleOption) *ContainerBuilder {
	require.NoError(b.t, b.c.Apply(modules...))
	return b
}

// WithGraph registers a full test graph
func (b *ContainerBuilder) WithGraph(g *Graph) *ContainerBuilder {
	g.Register(b.t, b.c)
	return b
}

// Build returns the built container
func (b *ContainerBuilder) Build() *weaver.Container {
	return b.c
}
