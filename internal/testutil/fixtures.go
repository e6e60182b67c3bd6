package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/baikenlabs/weaver"
	"github.com/baikenlabs/weaver/logger"
)

// Graph is a fresh set of identifiers wired the usual way: three leaf
// services and one service depending on all of them. Every call to
// NewGraph returns new defs, so bindings and mocks attached in one test
// never leak into another.
type Graph struct {
	Env      weaver.Token
	Logger   *weaver.Def
	Database *weaver.Def
	Cache    *weaver.Def
	Service  *weaver.Def
}

// NewGraph builds a fresh identifier set.
func NewGraph() *Graph {
	g := &Graph{Env: weaver.Token("env")}
	g.Logger = weaver.Define("Logger", NewTestLogger).Deps()
	g.Database = weaver.Define("Database", NewTestDatabase).Deps()
	g.Cache = weaver.Define("Cache", NewTestCache).Deps()
	g.Service = weaver.Define("Service", NewTestServiceWithDeps).Deps(g.Logger, g.Database, g.Cache)
	return g
}

// Register registers the whole graph on c, env token included.
func (g *Graph) Register(t *testing.T, c *weaver.Container) {
	t.Helper()

	RequireRegister(t, c, g.Env, map[string]string{"env": "test"})
	RequireRegister(t, c, g.Logger)
	RequireRegister(t, c, g.Database)
	RequireRegister(t, c, g.Cache)
	RequireRegister(t, c, g.Service)
}

// Module returns the graph as a single registration module.
func (g *Graph) Module() weaver.ModuleOption {
	return weaver.NewModule("test-graph",
		weaver.ProvideValue(g.Env, map[string]string{"env": "test"}),
		weaver.Provide(g.Logger),
		weaver.Provide(g.Database),
		weaver.Provide(g.Cache),
		weaver.Provide(g.Service),
	)
}

// ObservedLogger returns a container logger whose entries are captured
// for assertions on the diagnostic path.
func ObservedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.New(zap.New(core)), logs
}

// ObservedContainer builds a container wired to an observed logger.
func ObservedContainer() (*weaver.Container, *observer.ObservedLogs) {
	log, logs := ObservedLogger()
	return weaver.New(weaver.WithLogger(log)), logs
}
