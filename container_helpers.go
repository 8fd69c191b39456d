package keydi

import "fmt"

// Resolve is a generic helper that resolves the service under key as type T.
func Resolve[T any](c *Container, key Key) (T, error) {
	var zero T

	instance, err := c.Get(key)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("type assertion failed for key %s: expected %T, got %T",
			formatKey(key), zero, instance)
	}

	return result, nil
}

// MustResolve resolves the service under key as type T and panics on error.
func MustResolve[T any](c *Container, key Key) T {
	result, err := Resolve[T](c, key)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", formatKey(key), err))
	}
	return result
}

// ResolveSlice resolves the service under key as a slice with element type T.
// It accepts both a []T service and a []any service whose elements are all T,
// the latter being the shape append registrations produce when the collection
// was seeded as []any.
func ResolveSlice[T any](c *Container, key Key) ([]T, error) {
	instance, err := c.Get(key)
	if err != nil {
		return nil, err
	}

	if typed, ok := instance.([]T); ok {
		return typed, nil
	}

	raw, ok := instance.([]any)
	if !ok {
		return nil, fmt.Errorf("type assertion failed for key %s: expected []%T or []any, got %T",
			formatKey(key), *new(T), instance)
	}

	results := make([]T, 0, len(raw))
	for i, item := range raw {
		result, ok := item.(T)
		if !ok {
			return nil, fmt.Errorf("type assertion failed for item %d of key %s: expected %T, got %T",
				i, formatKey(key), *new(T), item)
		}
		results = append(results, result)
	}
	return results, nil
}
