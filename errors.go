package keydi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Base errors that are wrapped in typed errors when returned. Never returned
// directly to users - always wrapped with context.

var (
	// Resolution errors.
	ErrKeyNotFound  = errors.New("key not found")
	ErrContainerNil = errors.New("container cannot be nil")

	// Registration errors.
	ErrFactoryNil     = errors.New("factory cannot be nil")
	ErrPartialNil     = errors.New("partial container cannot be nil")
	ErrNotAFunction   = errors.New("constructor must be a function")
	ErrNotAStruct     = errors.New("prototype must be a struct or pointer to struct")
	ErrNotASlice      = errors.New("appended service must hold a slice")
	ErrVariadic       = errors.New("variadic constructors are not supported")
	ErrSelfDepTwice   = errors.New("a factory may depend on its own key at most once")
	ErrReservedKey    = errors.New("key is reserved")
	ErrBadConstructor = errors.New("constructor must return a value and an optional error")
)

var (
	_ error = KeyNotFoundError{}
	_ error = ArityMismatchError{}
	_ error = InvalidFactoryError{}
	_ error = CircularDependencyError{}
	_ error = NotSliceError{}
	_ error = FactoryInvocationError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// KeyNotFoundError indicates a Get for a key no factory was registered under.
// This is always a configuration bug in registration code, never a condition
// to recover from at runtime.
type KeyNotFoundError struct {
	// Key is the key that was requested.
	Key Key

	// Container is the String() of the container the lookup ran against.
	Container string
}

func (e KeyNotFoundError) Error() string {
	if e.Container == "" {
		return fmt.Sprintf("key %s not found", formatKey(e.Key))
	}
	return fmt.Sprintf("key %s not found in %s", formatKey(e.Key), e.Container)
}

func (e KeyNotFoundError) Is(target error) bool {
	return target == ErrKeyNotFound
}

// ArityMismatchError indicates a factory whose constructor does not accept
// exactly one parameter per declared dependency key. It is raised at factory
// construction time, before any container exists.
type ArityMismatchError struct {
	// Key is the factory's own key.
	Key Key

	// Declared is the length of the dependency-key list.
	Declared int

	// Actual is the constructor's parameter count (or the prototype's
	// exported field count for struct factories).
	Actual int

	// Kind names what was counted: "parameter" or "exported field".
	Kind string
}

func (e ArityMismatchError) Error() string {
	return fmt.Sprintf("factory %s: declared %d dependency key(s) but constructor has %d %s(s)",
		formatKey(e.Key), e.Declared, e.Actual, e.Kind)
}

// InvalidFactoryError indicates malformed arguments to a factory constructor
// or a container operation that requires a well-formed factory.
type InvalidFactoryError struct {
	// Key is the factory's key, when one is known.
	Key Key

	// Cause is the underlying sentinel or validation error.
	Cause error
}

func (e InvalidFactoryError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("invalid factory: %v", e.Cause)
	}
	return fmt.Sprintf("invalid factory %s: %v", formatKey(e.Key), e.Cause)
}

func (e InvalidFactoryError) Unwrap() error { return e.Cause }

// CircularDependencyError indicates a genuine dependency cycle among
// registered keys. Self-override chaining is not a cycle: a factory that
// depends on its own key resolves that dependency against a frozen snapshot
// of the registry as it was before the factory's registration.
type CircularDependencyError struct {
	// Key is the key whose resolution closed the cycle.
	Key Key

	// Path is the resolution path that led back to Key.
	Path []Key
}

func (e CircularDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	if len(e.Path) == 0 {
		b.WriteString(fmt.Sprintf("    %s\n", formatKey(e.Key)))
		b.WriteString("      ↓\n")
		b.WriteString(fmt.Sprintf("    %s (cycle)\n", formatKey(e.Key)))
		return b.String()
	}

	for _, k := range e.Path {
		b.WriteString(fmt.Sprintf("    %s\n", formatKey(k)))
		b.WriteString("      ↓\n")
	}
	b.WriteString(fmt.Sprintf("    %s (cycle)\n", formatKey(e.Key)))
	return b.String()
}

// NotSliceError indicates an append registration whose key does not currently
// hold a slice-typed service.
type NotSliceError struct {
	// Key is the key being appended under.
	Key Key

	// Actual is the type the key resolved to instead of a slice.
	Actual reflect.Type
}

func (e NotSliceError) Error() string {
	if e.Actual == nil {
		return fmt.Sprintf("append to %s: existing service is nil, not a slice", formatKey(e.Key))
	}
	return fmt.Sprintf("append to %s: existing service is %s, not a slice", formatKey(e.Key), e.Actual)
}

func (e NotSliceError) Is(target error) bool {
	return target == ErrNotASlice
}

// FactoryInvocationError wraps a failure that occurred while invoking a
// factory's constructor: an error returned by the constructor itself, or a
// resolved dependency that is not assignable to its parameter or field.
type FactoryInvocationError struct {
	// Key is the factory's own key.
	Key Key

	// Cause is the constructor's error or the assignability failure.
	Cause error
}

func (e FactoryInvocationError) Error() string {
	return fmt.Sprintf("factory %s: %v", formatKey(e.Key), e.Cause)
}

func (e FactoryInvocationError) Unwrap() error { return e.Cause }
