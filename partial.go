package keydi

import (
	"maps"
	"slices"
)

// PartialContainer is a registry of unmemoized factories whose dependencies
// need not be satisfied internally. It lets a coherent group of services be
// defined once, independent of where their dependencies ultimately come
// from, then bound to any sufficiently-equipped Container later. A
// PartialContainer cannot resolve anything by itself; it is a building
// block, consumed by Container.ProvidePartial or Container.RunPartial.
//
// Alongside its factories it tracks the set of externally required keys:
// every declared dependency key not defined by the partial itself. A
// factory's dependency on its own key is always counted as external - it
// refers to the prior definition in whichever container the partial is
// eventually bound to.
//
// PartialContainer is immutable; Provide-family operations return a new one.
type PartialContainer struct {
	factories map[Key]*Factory
	order     []Key
	required  map[Key]struct{}
}

// NewPartial creates an empty partial container.
func NewPartial() *PartialContainer {
	return &PartialContainer{
		factories: make(map[Key]*Factory),
		required:  make(map[Key]struct{}),
	}
}

// Provide returns a new partial container with f added, replacing any
// previous factory under the same key. The required-key set becomes the
// prior set minus f's key, plus f's dependency keys that the partial does
// not define internally (f's own key, if listed, always stays required).
func (p *PartialContainer) Provide(f *Factory) (*PartialContainer, error) {
	if f == nil {
		return nil, InvalidFactoryError{Cause: ErrFactoryNil}
	}

	factories := make(map[Key]*Factory, len(p.factories)+1)
	maps.Copy(factories, p.factories)
	_, existed := factories[f.key]
	factories[f.key] = f

	order := slices.Clone(p.order)
	if !existed {
		order = append(order, f.key)
	}

	required := make(map[Key]struct{}, len(p.required)+len(f.deps))
	maps.Copy(required, p.required)
	delete(required, f.key)
	for _, dep := range f.deps {
		if dep == ContainerKey {
			continue
		}
		if dep == f.key {
			required[dep] = struct{}{}
			continue
		}
		if _, defined := factories[dep]; !defined {
			required[dep] = struct{}{}
		}
	}

	return &PartialContainer{factories: factories, order: order, required: required}, nil
}

// MustProvide is like Provide but panics on error.
func (p *PartialContainer) MustProvide(f *Factory) *PartialContainer {
	next, err := p.Provide(f)
	if err != nil {
		panic(err)
	}
	return next
}

// ProvideValue adds value as a zero-dependency service under key.
func (p *PartialContainer) ProvideValue(key Key, value any) (*PartialContainer, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	return p.Provide(NewValue(key, value))
}

// ProvideStruct adds a struct factory under key; see NewStruct.
func (p *PartialContainer) ProvideStruct(key Key, deps []Key, prototype any) (*PartialContainer, error) {
	f, err := NewStruct(key, deps, prototype)
	if err != nil {
		return nil, err
	}
	return p.Provide(f)
}

// Bind produces a freshly memoized wrapper for every factory the partial
// defines, wired against parent. Each call memoizes anew, so binding the
// same partial into two containers never shares instances between them.
//
// A wrapper resolves each dependency key in order: the factory's own key
// against parent (frozen, so the partial's definition can wrap the parent's
// prior one); a key defined by this same partial against the sibling wrapper
// from this Bind call; anything else against the wrapper's current owner -
// parent at bind time, the destination container once merged, so externals
// see overrides added after the merge.
func (p *PartialContainer) Bind(parent *Container) (map[Key]*MemoizedFactory, error) {
	if parent == nil {
		return nil, ErrContainerNil
	}

	bound := make(map[Key]*MemoizedFactory, len(p.factories))
	for k, f := range p.factories {
		m := newMemoized(f)
		m.owner.Store(parent)
		if f.dependsOnSelf() {
			m.snapshot = parent
		}
		bound[k] = m
	}
	for _, m := range bound {
		m.siblings = bound
	}
	return bound, nil
}

// Keys returns the keys this partial defines, in registration order.
func (p *PartialContainer) Keys() []Key {
	return slices.Clone(p.order)
}

// Required returns the externally required keys: every dependency key the
// partial does not satisfy internally. Order is unspecified.
func (p *PartialContainer) Required() []Key {
	keys := make([]Key, 0, len(p.required))
	for k := range p.required {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of keys the partial defines.
func (p *PartialContainer) Len() int { return len(p.factories) }
