package keydi

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
	"github.com/ksotala/keydi/internal/graph"
)

// Container is an immutable registry mapping keys to memoized factories.
// Every mutating operation returns a new Container; the only mutable state
// behind one is each wrapper's single-assignment cache slot and its owner
// pointer, which container-producing operations re-point at the newest
// container so that already-registered factories see later overrides.
//
// A Container is safe for concurrent Get calls: each factory still runs
// exactly once. Registration (the Provide family) is meant to happen during
// startup wiring, before the container is shared.
type Container struct {
	id        string
	factories map[Key]*MemoizedFactory
}

// New creates an empty container.
func New() *Container {
	return newContainer(make(map[Key]*MemoizedFactory))
}

// FromMap creates a container where every entry becomes a zero-dependency
// factory returning its literal value. It panics if an entry's key is nil or
// the reserved ContainerKey, which the sentinel path would otherwise shadow
// silently.
func FromMap(entries map[Key]any) *Container {
	factories := make(map[Key]*MemoizedFactory, len(entries))
	for k, v := range entries {
		factories[k] = newMemoized(NewValue(k, v))
	}
	return newContainer(factories)
}

// newContainer is the single construction path: plain wrappers keep their
// caches, and every wrapper's owner is re-pointed at the new container.
// Callers must hand over ownership of factories; it is not copied.
func newContainer(factories map[Key]*MemoizedFactory) *Container {
	c := &Container{
		id:        uuid.NewString(),
		factories: factories,
	}
	for _, m := range factories {
		m.owner.Store(c)
	}
	return c
}

// clone returns a copy of the receiver's factory map for building a
// successor container.
func (c *Container) clone() map[Key]*MemoizedFactory {
	out := make(map[Key]*MemoizedFactory, len(c.factories)+1)
	maps.Copy(out, c.factories)
	return out
}

// Provide returns a new container with f registered under its key, replacing
// any previous registration. If f depends on its own key, that dependency is
// captured as a frozen snapshot of the receiver, so the new service wraps its
// predecessor's value without recursing into itself.
func (c *Container) Provide(f *Factory) (*Container, error) {
	if f == nil {
		return nil, InvalidFactoryError{Cause: ErrFactoryNil}
	}

	m := newMemoized(f)
	if f.dependsOnSelf() {
		m.snapshot = c
	}

	factories := c.clone()
	factories[f.key] = m
	return newContainer(factories), nil
}

// MustProvide is like Provide but panics on error.
func (c *Container) MustProvide(f *Factory) *Container {
	next, err := c.Provide(f)
	if err != nil {
		panic(err)
	}
	return next
}

// ProvideValue registers value as a zero-dependency service under key.
func (c *Container) ProvideValue(key Key, value any) (*Container, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return c.Provide(NewValue(key, value))
}

// ProvideStruct registers a struct factory under key; see NewStruct.
func (c *Container) ProvideStruct(key Key, deps []Key, prototype any) (*Container, error) {
	f, err := NewStruct(key, deps, prototype)
	if err != nil {
		return nil, err
	}
	return c.Provide(f)
}

// ProvideContainer merges other into the receiver, the incoming binding
// winning on key collisions. Wrappers from other are shared by reference:
// a service already resolved in other stays resolved here, and resolving it
// through either container yields the same instance.
func (c *Container) ProvideContainer(other *Container) (*Container, error) {
	if other == nil {
		return nil, ErrContainerNil
	}

	factories := c.clone()
	maps.Copy(factories, other.factories)
	return newContainer(factories), nil
}

// ProvidePartial binds p against the receiver and merges the resulting
// factories, the incoming binding winning on key collisions. Each binding is
// memoized freshly for this destination; nothing is shared with other
// containers the same partial was bound into. A partial factory that depends
// on its own key receives the receiver's prior value for that key.
func (c *Container) ProvidePartial(p *PartialContainer) (*Container, error) {
	if p == nil {
		return nil, ErrPartialNil
	}

	bound, err := p.Bind(c)
	if err != nil {
		return nil, err
	}

	factories := c.clone()
	maps.Copy(factories, bound)
	return newContainer(factories), nil
}

// Get returns the singleton service registered under key, invoking its
// factory on first resolution. The reserved ContainerKey resolves to the
// receiver itself. An absent key fails with KeyNotFoundError: requesting an
// unregistered key is a configuration bug, never a recoverable condition.
func (c *Container) Get(key Key) (any, error) {
	return c.get(key, nil)
}

// MustGet is like Get but panics on error.
func (c *Container) MustGet(key Key) any {
	v, err := c.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Container) get(key Key, path []*MemoizedFactory) (any, error) {
	if key == ContainerKey {
		return c, nil
	}

	m, ok := c.factories[key]
	if !ok {
		return nil, KeyNotFoundError{Key: key, Container: c.String()}
	}
	return m.resolve(path)
}

// Copy returns a new container sharing every wrapper by reference except
// those registered under the listed keys, which are re-wrapped with fresh,
// empty caches. Resolving a scoped key in the copy re-invokes its factory
// and yields an instance independent of the source's; every other key keeps
// returning the source's cached instance. Scoped keys absent from the
// receiver are ignored.
func (c *Container) Copy(scopedKeys ...Key) *Container {
	scoped := make(map[Key]struct{}, len(scopedKeys))
	for _, k := range scopedKeys {
		scoped[k] = struct{}{}
	}

	factories := make(map[Key]*MemoizedFactory, len(c.factories))
	for k, m := range c.factories {
		if _, ok := scoped[k]; ok {
			factories[k] = m.rewrap()
		} else {
			factories[k] = m
		}
	}
	return newContainer(factories)
}

// Run eagerly resolves f and its dependency closure against the receiver,
// without registering f's key. Used to order side-effecting initialization.
// Returns the receiver for chaining.
func (c *Container) Run(f *Factory) (*Container, error) {
	if f == nil {
		return nil, InvalidFactoryError{Cause: ErrFactoryNil}
	}

	m := newMemoized(f)
	m.owner.Store(c)
	if f.dependsOnSelf() {
		m.snapshot = c
	}

	if _, err := m.resolve(nil); err != nil {
		return nil, err
	}
	return c, nil
}

// RunPartial binds p against the receiver and eagerly resolves every key it
// defines, in registration order, without registering any of them. Returns
// the receiver for chaining.
func (c *Container) RunPartial(p *PartialContainer) (*Container, error) {
	if p == nil {
		return nil, ErrPartialNil
	}

	bound, err := p.Bind(c)
	if err != nil {
		return nil, err
	}

	for _, key := range p.Keys() {
		if _, err := bound[key].resolve(nil); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Contains reports whether a factory is registered under key.
func (c *Container) Contains(key Key) bool {
	if key == ContainerKey {
		return true
	}
	_, ok := c.factories[key]
	return ok
}

// Keys returns the registered keys, in unspecified order.
func (c *Container) Keys() []Key {
	keys := make([]Key, 0, len(c.factories))
	for k := range c.factories {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of registered keys.
func (c *Container) Len() int { return len(c.factories) }

// String implements fmt.Stringer.
func (c *Container) String() string {
	return fmt.Sprintf("keydi.Container(%s, %d keys)", c.id, len(c.factories))
}

// Validate eagerly checks the whole registry: every declared dependency key
// must be registered (or be the factory's own key, or ContainerKey), and the
// dependency graph must be acyclic. Self-override dependencies resolve
// against frozen snapshots, never a live back-edge, so they are excluded
// from cycle detection. Lazy resolution performs the same checks on the
// paths it actually walks; Validate covers the registry up front.
func (c *Container) Validate() error {
	g := graph.New()

	for k, m := range c.factories {
		g.AddNode(k)
		for _, dep := range m.factory.deps {
			if dep == k || dep == ContainerKey {
				continue
			}
			if _, ok := c.factories[dep]; !ok {
				return KeyNotFoundError{Key: dep, Container: c.String()}
			}
			g.AddEdge(k, dep)
		}
	}

	if cycle, ok := g.Cycle(); ok {
		return CircularDependencyError{Key: cycle[len(cycle)-1], Path: cycle[:len(cycle)-1]}
	}
	return nil
}
