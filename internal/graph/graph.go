// Package graph implements a small directed dependency graph over opaque
// comparable keys, with deterministic depth-first cycle detection. It backs
// the container's eager validation; lazy resolution carries its own
// path-based check.
package graph

// Graph is a directed graph of comparable node keys. Not safe for concurrent
// mutation.
type Graph struct {
	nodes map[any]struct{}
	edges map[any][]any
	order []any
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[any]struct{}),
		edges: make(map[any][]any),
	}
}

// AddNode adds a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(node any) {
	if _, ok := g.nodes[node]; ok {
		return
	}
	g.nodes[node] = struct{}{}
	g.order = append(g.order, node)
}

// AddEdge adds a directed edge from one node to another, adding either node
// as needed.
func (g *Graph) AddEdge(from, to any) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []any {
	out := make([]any, len(g.order))
	copy(out, g.order)
	return out
}

const (
	unvisited = iota
	visiting
	visited
)

// Cycle returns a dependency cycle as the path leading into it plus the
// repeated node, or false if the graph is acyclic. Traversal follows
// insertion order, so the reported cycle is deterministic.
func (g *Graph) Cycle() ([]any, bool) {
	state := make(map[any]int, len(g.nodes))

	var path []any
	var found []any

	var visit func(node any) bool
	visit = func(node any) bool {
		switch state[node] {
		case visited:
			return false
		case visiting:
			// Trim the path to the segment that forms the cycle.
			for i, p := range path {
				if p == node {
					found = append(append([]any{}, path[i:]...), node)
					return true
				}
			}
			found = []any{node, node}
			return true
		}

		state[node] = visiting
		path = append(path, node)
		for _, next := range g.edges[node] {
			if visit(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		state[node] = visited
		return false
	}

	for _, node := range g.order {
		if state[node] == unvisited && visit(node) {
			return found, true
		}
	}
	return nil, false
}
