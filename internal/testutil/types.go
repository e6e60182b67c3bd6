package testutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrConstructor = errors.New("constructor error")
)

// TestLogger is a test logger interface
type TestLogger interface {
	Log(msg string)
	GetLogs() []string
}

// TestLoggerImpl implements TestLogger
type TestLoggerImpl struct {
	logs []string
	mu   sync.Mutex
}

func NewTestLogger() TestLogger {
	return &TestLoggerImpl{}
}

func (l *TestLoggerImpl) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *TestLoggerImpl) GetLogs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]string, len(l.logs))
	copy(result, l.logs)
	return result
}

// TestDatabase is a test database interface
type TestDatabase interface {
	Query(sql string) string
}

// TestDatabaseImpl implements TestDatabase
type TestDatabaseImpl struct {
	name string
}

func NewTestDatabase() TestDatabase {
	return &TestDatabaseImpl{name: "testdb"}
}

func NewTestDatabaseNamed(name string) func() TestDatabase {
	return func() TestDatabase {
		return &TestDatabaseImpl{name: name}
	}
}

func (d *TestDatabaseImpl) Query(sql string) string {
	return fmt.Sprintf("%s: %s", d.name, sql)
}

// TestCache is a test cache interface
type TestCache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
}

// TestCacheImpl implements TestCache
type TestCacheImpl struct {
	data map[string]string
	mu   sync.RWMutex
}

func NewTestCache() TestCache {
	return &TestCacheImpl{data: make(map[string]string)}
}

func (c *TestCacheImpl) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.data[key]
	return val, ok
}

func (c *TestCacheImpl) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string]string)
	}
	c.data[key] = value
}

// TestServiceWithDeps is a service constructed from its dependencies in
// declaration order: logger, database, cache.
type TestServiceWithDeps struct {
	Logger   TestLogger
	Database TestDatabase
	Cache    TestCache
	ID       string
}

func NewTestServiceWithDeps(logger TestLogger, db TestDatabase, cache TestCache) *TestServiceWithDeps {
	return &TestServiceWithDeps{
		Logger:   logger,
		Database: db,
		Cache:    cache,
		ID:       uuid.NewString(),
	}
}

// TestRenderer is a redirection target exposing methods under both the
// usual source name and a renamed variant.
type TestRenderer struct{}

func NewTestRenderer() *TestRenderer {
	return &TestRenderer{}
}

func (r *TestRenderer) Render(s string) string {
	return "rendered:" + s
}

func (r *TestRenderer) RenderLoud(s string) string {
	return "RENDERED:" + s
}

// TestReport declares a Render stub whose real behavior is meant to be
// supplied through a redirection binding; the stub body is unreachable
// once the binding is in place.
type TestReport struct{}

func NewTestReport() *TestReport {
	return &TestReport{}
}

func (r *TestReport) Render(s string) string {
	return "stub:" + s
}

func (r *TestReport) Title() string {
	return "report"
}
