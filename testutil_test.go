package weaver

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/baikenlabs/weaver/logger"
)

// ============================================================================
// Shared Test Types
// ============================================================================

// TLeaf has no dependencies.
type TLeaf struct {
	N int
}

// TMid depends on one leaf.
type TMid struct {
	Leaf *TLeaf
}

// TTop depends on a mid and a leaf, in that order.
type TTop struct {
	Mid  *TMid
	Leaf *TLeaf
}

var leafCounter atomic.Int64

func NewTLeaf() *TLeaf {
	return &TLeaf{N: int(leafCounter.Add(1))}
}

func NewTMid(leaf *TLeaf) *TMid {
	return &TMid{Leaf: leaf}
}

func NewTTop(mid *TMid, leaf *TLeaf) *TTop {
	return &TTop{Mid: mid, Leaf: leaf}
}

// TStub declares methods whose real behavior may be supplied through
// redirection; Note stays unbound in every test.
type TStub struct{}

func NewTStub() *TStub { return &TStub{} }

func (s *TStub) Ping(msg string) string { return "stub-ping:" + msg }

func (s *TStub) Note() string { return "stub-note" }

// TTarget is the usual redirection target.
type TTarget struct{}

func NewTTarget() *TTarget { return &TTarget{} }

func (t *TTarget) Ping(msg string) string { return "target-ping:" + msg }

func (t *TTarget) Pong(msg string) string { return "target-pong:" + msg }

func (t *TTarget) Fail(msg string) (string, error) { return "", errors.New("target failed: " + msg) }

func (t *TTarget) Sum(a, b int) int { return a + b }

// Error-returning and panicking constructors

var errCtor = errors.New("constructor refused")

func NewTFailing() (*TLeaf, error) {
	return nil, errCtor
}

func NewTPanicking() *TLeaf {
	panic("constructor panicked")
}

// ============================================================================
// Test Helpers
// ============================================================================

// newLeafDef returns a fresh no-dependency def so per-test bindings never
// leak across tests.
func newLeafDef() *Def {
	return Define("Leaf", NewTLeaf).Deps()
}

// observedContainer builds a container whose diagnostics are captured.
func observedContainer() (*Container, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(WithLogger(logger.New(zap.New(core)))), logs
}

// requireRegister registers id or fails the test.
func requireRegister(t *testing.T, c *Container, id Identifier, value ...any) {
	t.Helper()
	require.NoError(t, c.Register(id, value...))
}

// resolveTop registers and resolves the three-level chain, returning the
// root instance.
func resolveTop(t *testing.T, c *Container) *TTop {
	t.Helper()

	leaf := newLeafDef()
	mid := Define("Mid", NewTMid).Deps(leaf)
	top := Define("Top", NewTTop).Deps(mid, leaf)

	requireRegister(t, c, leaf)
	requireRegister(t, c, mid)
	requireRegister(t, c, top)

	v, err := c.Resolve(top)
	require.NoError(t, err)
	require.IsType(t, &TTop{}, v)
	return v.(*TTop)
}
