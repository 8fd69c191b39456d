package keydi

import "fmt"

// Key identifies a service within a Container. Any comparable value works as
// a key (strings, integers, custom struct types); equality is by value.
// Using a non-comparable value as a key causes a runtime panic, the same as
// using it as a map key.
type Key = any

// containerSentinel is the type behind ContainerKey. A dedicated struct type
// keeps the sentinel in its own namespace so it can never collide with a
// user-chosen string or integer key.
type containerSentinel struct{}

func (containerSentinel) String() string { return "keydi.ContainerKey" }

// ContainerKey is a reserved key that resolves to the Container itself.
// A factory that declares ContainerKey as a dependency receives the newest
// container it is registered in, through the same lookup path as any other
// key:
//
//	f, _ := keydi.NewFactory("server", []keydi.Key{keydi.ContainerKey},
//	    func(c *keydi.Container) *Server {
//	        return &Server{container: c}
//	    })
var ContainerKey Key = containerSentinel{}

// formatKey renders a key for error messages. String keys are quoted so that
// "db" and a hypothetical db type stay distinguishable.
func formatKey(key Key) string {
	if s, ok := key.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", key)
}
