package keydi

import (
	"fmt"
	"reflect"
)

// Append returns a new container where the slice-typed service under f's key
// grows by one element: f's value. The derived registration depends on its
// own key first, so resolving it forces the previous value - including every
// earlier append, recursively, through the override snapshot chain - then
// appends f's result, preserving insertion order. The initial service under
// the key must already hold a slice; anything else fails with NotSliceError
// at resolution time.
func (c *Container) Append(f *Factory) (*Container, error) {
	derived, err := newAppendFactory(f)
	if err != nil {
		return nil, err
	}
	return c.Provide(derived)
}

// AppendValue appends a literal value to the slice-typed service under key.
func (c *Container) AppendValue(key Key, value any) (*Container, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return c.Append(NewValue(key, value))
}

// AppendStruct appends a struct-factory instance to the slice-typed service
// under key; see NewStruct.
func (c *Container) AppendStruct(key Key, deps []Key, prototype any) (*Container, error) {
	f, err := NewStruct(key, deps, prototype)
	if err != nil {
		return nil, err
	}
	return c.Append(f)
}

// newAppendFactory derives the appending factory: same key as f, dependency
// list [f.key, f.deps...]. The first argument is the previous slice; the
// remaining arguments feed f, whose result becomes the appended element.
func newAppendFactory(f *Factory) (*Factory, error) {
	if f == nil {
		return nil, InvalidFactoryError{Cause: ErrFactoryNil}
	}
	if f.dependsOnSelf() {
		// The derived factory's own-key slot is the accumulator; a second
		// self reference has nothing left to resolve against.
		return nil, InvalidFactoryError{Key: f.key, Cause: ErrSelfDepTwice}
	}

	deps := make([]Key, 0, len(f.deps)+1)
	deps = append(deps, f.key)
	deps = append(deps, f.deps...)

	return &Factory{
		key:  f.key,
		deps: deps,
		invoke: func(args []any) (any, error) {
			prev := args[0]
			if prev == nil {
				return nil, NotSliceError{Key: f.key}
			}
			pv := reflect.ValueOf(prev)
			if pv.Kind() != reflect.Slice {
				return nil, NotSliceError{Key: f.key, Actual: pv.Type()}
			}

			elem, err := f.invoke(args[1:])
			if err != nil {
				return nil, err
			}

			var ev reflect.Value
			if elem == nil {
				ev = reflect.Zero(pv.Type().Elem())
			} else {
				ev = reflect.ValueOf(elem)
				if !ev.Type().AssignableTo(pv.Type().Elem()) {
					return nil, FactoryInvocationError{
						Key:   f.key,
						Cause: fmt.Errorf("cannot append %s to %s", ev.Type(), pv.Type()),
					}
				}
			}

			return reflect.Append(pv, ev).Interface(), nil
		},
	}, nil
}
