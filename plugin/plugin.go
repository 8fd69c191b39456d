// Package plugin provides a small observer-pattern registry for plugin
// notification. It carries no dependency resolution: items are registered,
// observers are notified, and the list can be read back in registration
// order. It is independent of the container core and is typically used to
// let lazily-wired components announce themselves to interested parties.
package plugin

import "sync"

// Registry collects registered items and notifies observers. The zero value
// is not usable; create one with New. Registry is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	items     []any
	observers []func(any)
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register appends item and synchronously notifies every current observer.
// Registration order is preserved.
func (r *Registry) Register(item any) {
	r.mu.Lock()
	r.items = append(r.items, item)
	observers := make([]func(any), len(r.observers))
	copy(observers, r.observers)
	r.mu.Unlock()

	for _, observe := range observers {
		observe(item)
	}
}

// Observe adds an observer and immediately replays every previously
// registered item to it, so a late observer misses nothing. Observers are
// called synchronously, outside the registry lock.
func (r *Registry) Observe(fn func(any)) {
	r.mu.Lock()
	r.observers = append(r.observers, fn)
	items := make([]any, len(r.items))
	copy(items, r.items)
	r.mu.Unlock()

	for _, item := range items {
		fn(item)
	}
}

// List returns a snapshot of the registered items in registration order.
func (r *Registry) List() []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]any, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of registered items.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
