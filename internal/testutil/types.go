// Package testutil provides shared fixtures for the keydi test suites.
package testutil

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrConstructor = errors.New("constructor error")
)

// Logger is a test logger interface.
type Logger interface {
	Log(msg string)
	Logs() []string
}

// MemoryLogger implements Logger by recording messages.
type MemoryLogger struct {
	mu   sync.Mutex
	logs []string
}

// NewMemoryLogger creates a MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func (l *MemoryLogger) Logs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.logs))
	copy(out, l.logs)
	return out
}

// PrefixLogger wraps another Logger, prefixing every message. Used to
// exercise override chaining.
type PrefixLogger struct {
	Inner  Logger
	Prefix string
}

func (l *PrefixLogger) Log(msg string) { l.Inner.Log(l.Prefix + msg) }
func (l *PrefixLogger) Logs() []string { return l.Inner.Logs() }

// Config is a simple value service.
type Config struct {
	DSN string
}

// Database is a service with an identity, so tests can compare instances.
type Database struct {
	ID  string
	DSN string
}

// NewDatabase creates a Database with a unique ID.
func NewDatabase(cfg *Config) *Database {
	return &Database{
		ID:  uuid.NewString(),
		DSN: cfg.DSN,
	}
}

// UserService depends on a Database and a Logger.
type UserService struct {
	ID string
	DB *Database
	L  Logger
}

// NewUserService creates a UserService with a unique ID.
func NewUserService(db *Database, l Logger) *UserService {
	return &UserService{
		ID: uuid.NewString(),
		DB: db,
		L:  l,
	}
}

// Counter wraps a constructor so tests can assert how many times it ran.
type Counter struct {
	calls atomic.Int64
}

// Calls returns the number of invocations so far.
func (c *Counter) Calls() int64 { return c.calls.Load() }

// Value returns a zero-argument constructor producing v and counting calls.
func (c *Counter) Value(v any) func() any {
	return func() any {
		c.calls.Add(1)
		return v
	}
}

// Unique returns a zero-argument constructor producing a fresh unique string
// per invocation and counting calls.
func (c *Counter) Unique(prefix string) func() string {
	return func() string {
		n := c.calls.Add(1)
		return fmt.Sprintf("%s-%d-%s", prefix, n, uuid.NewString())
	}
}
