package sim

import "sort"

// NodeID identifies a node in the working graph. IDs are opaque handles:
// the kernel never assumes contiguity, only comparability and total order.
type NodeID int64

// Edge is an undirected edge, normalized so U <= V. Two Edge values compare
// equal exactly when they join the same pair of nodes.
type Edge struct {
	U, V NodeID
}

// NewEdge returns the normalized edge joining u and v.
func NewEdge(u, v NodeID) Edge {
	if v < u {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// Other returns the endpoint of e that is not n.
func (e Edge) Other(n NodeID) NodeID {
	if e.U == n {
		return e.V
	}
	return e.U
}

// edgeLess orders edges lexicographically by (U, V).
func edgeLess(a, b Edge) bool {
	if a.U != b.U {
		return a.U < b.U
	}
	return a.V < b.V
}

// Graph is the working graph of a single run: an undirected simple graph
// with per-node string state (typically a compartment label) and free-form
// attributes.
//
// Graph is dumb storage. Events must never mutate it directly; all structural
// changes go through the owning Process's mutation interface, which keeps the
// loci consistent. Each run owns its own Graph, so no locking is needed.
type Graph struct {
	adj    map[NodeID]map[NodeID]struct{}
	state  map[NodeID]string
	attrs  map[NodeID]map[string]any
	nedges int
}

// NewGraph returns an empty working graph.
func NewGraph() *Graph {
	return &Graph{
		adj:   make(map[NodeID]map[NodeID]struct{}),
		state: make(map[NodeID]string),
		attrs: make(map[NodeID]map[string]any),
	}
}

// HasNode reports whether n is in the graph.
func (g *Graph) HasNode(n NodeID) bool {
	_, ok := g.adj[n]
	return ok
}

// HasEdge reports whether the edge joining the endpoints of e is present.
func (g *Graph) HasEdge(e Edge) bool {
	if nbrs, ok := g.adj[e.U]; ok {
		_, ok := nbrs[e.V]
		return ok
	}
	return false
}

// AddNode inserts n with empty state. Adding a node twice is a no-op.
func (g *Graph) AddNode(n NodeID) {
	if g.HasNode(n) {
		return
	}
	g.adj[n] = make(map[NodeID]struct{})
}

// RemoveNode deletes n and all bookkeeping attached to it. The caller is
// responsible for detaching incident edges first; see Process.RemoveNode.
func (g *Graph) RemoveNode(n NodeID) {
	delete(g.adj, n)
	delete(g.state, n)
	delete(g.attrs, n)
}

// AddEdge inserts the edge e. Both endpoints must already exist; the kernel
// never creates nodes implicitly because there is no safe default state for
// them. Panics with ErrUnknownEndpoint otherwise. Self-loops and duplicate
// edges are no-ops.
func (g *Graph) AddEdge(e Edge) {
	if !g.HasNode(e.U) || !g.HasNode(e.V) {
		panic(ErrUnknownEndpoint)
	}
	if e.U == e.V || g.HasEdge(e) {
		return
	}
	g.adj[e.U][e.V] = struct{}{}
	g.adj[e.V][e.U] = struct{}{}
	g.nedges++
}

// RemoveEdge deletes the edge e if present.
func (g *Graph) RemoveEdge(e Edge) {
	if !g.HasEdge(e) {
		return
	}
	delete(g.adj[e.U], e.V)
	delete(g.adj[e.V], e.U)
	g.nedges--
}

// NumNodes returns the current node count.
func (g *Graph) NumNodes() int { return len(g.adj) }

// NumEdges returns the current edge count.
func (g *Graph) NumEdges() int { return g.nedges }

// Degree returns the number of neighbours of n, 0 if n is absent.
func (g *Graph) Degree(n NodeID) int { return len(g.adj[n]) }

// Nodes returns all nodes in ascending order. Sorting makes iteration
// deterministic for a fixed seed, which map ranging would not be.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, 0, len(g.adj))
	for n := range g.adj {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Neighbours returns the neighbours of n in ascending order.
func (g *Graph) Neighbours(n NodeID) []NodeID {
	out := make([]NodeID, 0, len(g.adj[n]))
	for m := range g.adj[n] {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edges returns all edges in ascending (U, V) order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.nedges)
	for n, nbrs := range g.adj {
		for m := range nbrs {
			if n < m {
				out = append(out, Edge{U: n, V: m})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return edgeLess(out[i], out[j]) })
	return out
}

// IncidentEdges returns the edges touching n in ascending neighbour order.
func (g *Graph) IncidentEdges(n NodeID) []Edge {
	nbrs := g.Neighbours(n)
	out := make([]Edge, 0, len(nbrs))
	for _, m := range nbrs {
		out = append(out, NewEdge(n, m))
	}
	return out
}

// State returns the state label of n, "" if unset or n is absent.
func (g *Graph) State(n NodeID) string { return g.state[n] }

// SetState sets the state label of n. Callers inside a run must go through
// Process.SetNodeState instead so that loci stay consistent.
func (g *Graph) SetState(n NodeID, s string) { g.state[n] = s }

// Attr returns the named free-form attribute of n.
func (g *Graph) Attr(n NodeID, key string) (any, bool) {
	v, ok := g.attrs[n][key]
	return v, ok
}

// SetAttr sets a free-form attribute on n. Attributes are invisible to loci.
func (g *Graph) SetAttr(n NodeID, key string, v any) {
	m, ok := g.attrs[n]
	if !ok {
		m = make(map[string]any)
		g.attrs[n] = m
	}
	m[key] = v
}

// Copy returns a deep copy of g. Dynamics copies a prototype graph at setUp
// so that repeated runs never share mutable state.
func (g *Graph) Copy() *Graph {
	c := NewGraph()
	for n, nbrs := range g.adj {
		c.adj[n] = make(map[NodeID]struct{}, len(nbrs))
		for m := range nbrs {
			c.adj[n][m] = struct{}{}
		}
	}
	for n, s := range g.state {
		c.state[n] = s
	}
	for n, m := range g.attrs {
		cm := make(map[string]any, len(m))
		for k, v := range m {
			cm[k] = v
		}
		c.attrs[n] = cm
	}
	c.nedges = g.nedges
	return c
}
