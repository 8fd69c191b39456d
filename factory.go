package keydi

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ksotala/keydi/internal/reflection"
)

// Factory is a tagged constructor: a function paired with the key it produces
// and the ordered list of keys it depends on. The constructor's arity is
// validated against the dependency list when the Factory is built, so a
// malformed registration fails before any container exists.
//
// A factory may list its own key among its dependencies at most once. That
// dependency is never resolved against the factory itself: it refers to the
// previous definition of the key, as it stood immediately before this factory
// was registered (see Container.Provide).
type Factory struct {
	key    Key
	deps   []Key
	invoke func(args []any) (any, error)
}

// NewFactory builds a Factory for key from a constructor function and its
// ordered dependency keys. fn must be a non-variadic function whose parameter
// count equals len(deps), returning the service value and an optional error.
func NewFactory(key Key, deps []Key, fn any) (*Factory, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	info, err := reflection.AnalyzeFunc(fn)
	if err != nil {
		return nil, InvalidFactoryError{Key: key, Cause: translateFuncErr(err)}
	}
	if info.NumIn != len(deps) {
		return nil, ArityMismatchError{Key: key, Declared: len(deps), Actual: info.NumIn, Kind: "parameter"}
	}
	if err := checkSelfDeps(key, deps); err != nil {
		return nil, err
	}

	return &Factory{
		key:    key,
		deps:   slices.Clone(deps),
		invoke: info.Call,
	}, nil
}

// MustFactory is like NewFactory but panics on error.
func MustFactory(key Key, deps []Key, fn any) *Factory {
	f, err := NewFactory(key, deps, fn)
	if err != nil {
		panic(err)
	}
	return f
}

// NewValue builds a zero-dependency Factory that always produces value. It
// panics if key is nil or the reserved ContainerKey; ProvideValue offers the
// error-returning path.
func NewValue(key Key, value any) *Factory {
	if err := checkKey(key); err != nil {
		panic(err)
	}
	return &Factory{
		key: key,
		invoke: func([]any) (any, error) {
			return value, nil
		},
	}
}

// NewStruct builds a Factory for key from a struct prototype. The prototype's
// exported fields, in declaration order, receive the resolved dependencies;
// the exported field count must equal len(deps). A pointer prototype produces
// *T instances, a plain struct prototype produces T values.
func NewStruct(key Key, deps []Key, prototype any) (*Factory, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	info, err := reflection.AnalyzeStruct(prototype)
	if err != nil {
		return nil, InvalidFactoryError{Key: key, Cause: ErrNotAStruct}
	}
	if len(info.Fields) != len(deps) {
		return nil, ArityMismatchError{Key: key, Declared: len(deps), Actual: len(info.Fields), Kind: "exported field"}
	}
	if err := checkSelfDeps(key, deps); err != nil {
		return nil, err
	}

	return &Factory{
		key:    key,
		deps:   slices.Clone(deps),
		invoke: info.New,
	}, nil
}

// MustStruct is like NewStruct but panics on error.
func MustStruct(key Key, deps []Key, prototype any) *Factory {
	f, err := NewStruct(key, deps, prototype)
	if err != nil {
		panic(err)
	}
	return f
}

// Key returns the key this factory produces.
func (f *Factory) Key() Key { return f.key }

// Dependencies returns a copy of the ordered dependency-key list.
func (f *Factory) Dependencies() []Key { return slices.Clone(f.deps) }

// String implements fmt.Stringer.
func (f *Factory) String() string {
	return fmt.Sprintf("keydi.Factory(%s, deps=%d)", formatKey(f.key), len(f.deps))
}

// dependsOnSelf reports whether the factory lists its own key as a
// dependency.
func (f *Factory) dependsOnSelf() bool {
	return slices.ContainsFunc(f.deps, func(d Key) bool { return d == f.key })
}

func checkKey(key Key) error {
	if key == nil {
		return InvalidFactoryError{Cause: fmt.Errorf("key cannot be nil")}
	}
	if key == ContainerKey {
		return InvalidFactoryError{Key: key, Cause: ErrReservedKey}
	}
	return nil
}

func checkSelfDeps(key Key, deps []Key) error {
	self := 0
	for _, d := range deps {
		if d == key {
			self++
		}
	}
	if self > 1 {
		return InvalidFactoryError{Key: key, Cause: ErrSelfDepTwice}
	}
	return nil
}

// translateFuncErr maps the internal analyzer's errors onto the package's
// sentinel errors so callers can match with errors.Is.
func translateFuncErr(err error) error {
	switch {
	case errors.Is(err, reflection.ErrNilConstructor):
		return ErrFactoryNil
	case errors.Is(err, reflection.ErrVariadic):
		return ErrVariadic
	case errors.Is(err, reflection.ErrNoReturn),
		errors.Is(err, reflection.ErrTooManyReturns),
		errors.Is(err, reflection.ErrSecondNotError):
		return fmt.Errorf("%w: %v", ErrBadConstructor, err)
	default:
		return fmt.Errorf("%w: %v", ErrNotAFunction, err)
	}
}
