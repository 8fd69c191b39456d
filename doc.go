// Package keydi provides a key-addressed service registry for Go
// applications: an immutable container of lazily-constructed, singleton
// services identified by opaque comparable keys, with each service's
// dependencies declared as an ordered key list and resolved before its
// constructor runs.
//
// # Overview
//
// keydi wires applications together from tagged factories. The library
// provides:
//   - Lazy, memoized construction: every factory runs at most once per container
//   - Explicit ordered dependency-key lists, arity-checked at factory construction
//   - Override chaining: redefine a key while wrapping its previous definition
//   - Partial containers: define a service group now, satisfy its dependencies later
//   - Scoped copies that re-instantiate selected keys and share the rest
//   - Append registrations that grow an ordered collection under one key
//
// # Basic Usage
//
// Build a container by providing factories, then resolve by key:
//
//	c := keydi.New()
//	c, _ = c.ProvideValue("dsn", "postgres://localhost/app")
//	c = c.MustProvide(keydi.MustFactory("db", []keydi.Key{"dsn"}, NewDatabase))
//	c = c.MustProvide(keydi.MustFactory("users", []keydi.Key{"db"}, NewUserService))
//
//	users, err := keydi.Resolve[*UserService](c, "users")
//
// Each Provide call returns a new container, so wiring stays explicit and
// containers stay immutable.
//
// # Memoization
//
// A service is constructed on first Get and cached on its container. The
// cache slot is written under a lock with a double-check, so concurrent Get
// calls still run the factory exactly once.
//
// # Overrides
//
// Registering a key again replaces the previous factory. A replacement that
// lists its own key among its dependencies receives the previous
// definition's value, resolved against a frozen snapshot of the registry as
// it stood before the replacement - wrapping without recursion:
//
//	c = c.MustProvide(keydi.MustFactory("logger", []keydi.Key{"logger"},
//	    func(prev Logger) Logger { return WithPrefix(prev, "app: ") }))
//
// # Partial Containers
//
// A PartialContainer groups factories whose dependencies are satisfied only
// by whichever container it is later merged into:
//
//	p := keydi.NewPartial()
//	p = p.MustProvide(keydi.MustFactory("repo", []keydi.Key{"db"}, NewRepo))
//	p = p.MustProvide(keydi.MustFactory("svc", []keydi.Key{"repo"}, NewSvc))
//
//	c, err := base.ProvidePartial(p) // base must be able to supply "db"
//
// # Collections
//
// Append registrations accumulate an ordered slice under a single key:
//
//	c, _ = c.ProvideValue("handlers", []Handler{})
//	c, _ = c.Append(keydi.MustFactory("handlers", nil, NewHealthHandler))
//	c, _ = c.Append(keydi.MustFactory("handlers", nil, NewUsersHandler))
//
// # The Container Key
//
// The reserved keydi.ContainerKey resolves to the container itself, letting
// a service receive the whole registry as an ordinary dependency.
//
// # Cycles
//
// A genuine dependency cycle among keys is a fatal configuration error.
// Resolution detects it on the path it walks and fails with
// CircularDependencyError; Container.Validate checks the whole registry
// eagerly. Concurrent first resolutions of an undetected cyclic graph from
// different goroutines can deadlock instead - run Validate during startup
// wiring if registrations are not under your control.
//
// # Errors
//
// All failures are synchronous, unrecoverable registration bugs:
// KeyNotFoundError for absent keys, ArityMismatchError at factory
// construction, CircularDependencyError for cycles. Fix the wiring; there is
// no retry path.
package keydi
