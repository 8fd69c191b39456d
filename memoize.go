package keydi

import (
	"sync"
	"sync/atomic"
)

// MemoizedFactory wraps a Factory with a single-slot result cache and a
// swappable owner reference. The cache transitions from empty to occupied at
// most once per wrapper; dependency resolution always runs against the
// current owner, which every container-producing operation re-points at the
// newest container. Rebinding the owner never re-creates the wrapper or
// discards an occupied cache.
type MemoizedFactory struct {
	factory *Factory

	// owner is the container dependency lookups resolve against.
	owner atomic.Pointer[Container]

	// snapshot, when set, resolves the factory's dependency on its own key:
	// the registry state frozen immediately before this factory's
	// registration (or the bind parent, for partial-container bindings).
	snapshot *Container

	// siblings, for factories bound out of the same PartialContainer,
	// resolves dependency keys defined within that group.
	siblings map[Key]*MemoizedFactory

	mu    sync.Mutex
	done  atomic.Bool
	value any
}

func newMemoized(f *Factory) *MemoizedFactory {
	return &MemoizedFactory{factory: f}
}

// Factory returns the original, unmemoized factory.
func (m *MemoizedFactory) Factory() *Factory { return m.factory }

// Owner returns the container this wrapper currently resolves its
// dependencies against.
func (m *MemoizedFactory) Owner() *Container { return m.owner.Load() }

// Resolved reports whether the cache slot is occupied.
func (m *MemoizedFactory) Resolved() bool { return m.done.Load() }

// Resolve returns the memoized service, invoking the factory on first call.
func (m *MemoizedFactory) Resolve() (any, error) {
	return m.resolve(nil)
}

// resolve computes the service, resolving each dependency key in order: the
// factory's own key against the snapshot, keys defined by a sibling binding
// against that sibling, everything else against the owner.
//
// path is the chain of wrappers currently being resolved. Revisiting one is
// a genuine cycle and fails instead of recursing until the stack is
// exhausted. The chain tracks wrapper identity rather than keys: an override
// chain for one key legitimately walks several wrappers that share that key.
func (m *MemoizedFactory) resolve(path []*MemoizedFactory) (any, error) {
	if m.done.Load() {
		return m.value, nil
	}

	// The cycle check must run before taking the lock: re-entering a
	// wrapper already on this resolution path would otherwise self-deadlock
	// rather than report the cycle.
	for _, p := range path {
		if p == m {
			return nil, CircularDependencyError{Key: m.factory.key, Path: pathKeys(path)}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done.Load() {
		return m.value, nil
	}

	path = append(path, m)

	args := make([]any, len(m.factory.deps))
	for i, dep := range m.factory.deps {
		v, err := m.resolveDep(dep, path)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	v, err := m.factory.invoke(args)
	if err != nil {
		if _, ok := err.(FactoryInvocationError); !ok {
			err = FactoryInvocationError{Key: m.factory.key, Cause: err}
		}
		return nil, err
	}

	m.value = v
	m.done.Store(true)
	return v, nil
}

func (m *MemoizedFactory) resolveDep(dep Key, path []*MemoizedFactory) (any, error) {
	if dep == m.factory.key && m.snapshot != nil {
		return m.snapshot.get(dep, path)
	}
	if sibling, ok := m.siblings[dep]; ok && dep != m.factory.key {
		return sibling.resolve(path)
	}

	owner := m.owner.Load()
	if owner == nil {
		return nil, KeyNotFoundError{Key: dep}
	}
	return owner.get(dep, path)
}

// rewrap returns a fresh, empty-cached wrapper around the same factory,
// preserving the snapshot and sibling wiring. Used by Container.Copy for
// scoped keys.
func (m *MemoizedFactory) rewrap() *MemoizedFactory {
	return &MemoizedFactory{
		factory:  m.factory,
		snapshot: m.snapshot,
		siblings: m.siblings,
	}
}

func pathKeys(path []*MemoizedFactory) []Key {
	keys := make([]Key, len(path))
	for i, p := range path {
		keys[i] = p.factory.key
	}
	return keys
}
