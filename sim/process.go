package sim

import (
	"fmt"
	"math/rand"
)

// Env is the run context shared by every process in a simulation: the
// working graph, the single random stream, the read-only clock, and the
// posted-event queue. It also holds the registry of tracked loci so that a
// mutation made through any process keeps every process's loci consistent.
//
// An Env lives for exactly one run. Dynamics creates it at setUp and drops
// it at tearDown; repeated runs never share one.
type Env struct {
	Graph  *Graph
	Rand   *rand.Rand
	Clock  func() float64
	Posted *PostedEventQueue

	nodeTrackers []*nodeTracker
	edgeTrackers []*edgeTracker
	lociByName   map[string]EventLocus
	lociOrder    []EventLocus
}

type nodeTracker struct {
	locus *Locus[NodeID]
	pred  func(g *Graph, n NodeID) bool
}

type edgeTracker struct {
	locus *Locus[Edge]
	pred  func(g *Graph, e Edge) bool
}

// NewEnv creates the run context for one simulation run.
func NewEnv(g *Graph, rng *rand.Rand, clock func() float64, posted *PostedEventQueue) *Env {
	return &Env{
		Graph:      g,
		Rand:       rng,
		Clock:      clock,
		Posted:     posted,
		lociByName: make(map[string]EventLocus),
	}
}

// registerLocusName claims a locus name, unique across the whole simulation.
func (env *Env) registerLocusName(name string, l EventLocus) {
	if _, ok := env.lociByName[name]; ok {
		panic(fmt.Errorf("%w: %s", ErrDuplicateLocus, name))
	}
	env.lociByName[name] = l
	env.lociOrder = append(env.lociOrder, l)
}

// Locus returns the locus registered under name, nil if absent.
func (env *Env) Locus(name string) EventLocus { return env.lociByName[name] }

// Loci returns every registered locus in registration order.
func (env *Env) Loci() []EventLocus { return env.lociOrder }

// nodeChanged re-evaluates every node locus predicate for n.
func (env *Env) nodeChanged(n NodeID) {
	present := env.Graph.HasNode(n)
	for _, tr := range env.nodeTrackers {
		if present && tr.pred(env.Graph, n) {
			tr.locus.Add(n)
		} else {
			tr.locus.Remove(n)
		}
	}
}

// edgeChanged re-evaluates every edge locus predicate for e.
func (env *Env) edgeChanged(e Edge) {
	present := env.Graph.HasEdge(e)
	for _, tr := range env.edgeTrackers {
		if present && tr.pred(env.Graph, e) {
			tr.locus.Add(e)
		} else {
			tr.locus.Remove(e)
		}
	}
}

// AddNode inserts a node with the given state and updates the loci.
func (env *Env) AddNode(n NodeID, state string) {
	env.Graph.AddNode(n)
	env.Graph.SetState(n, state)
	env.nodeChanged(n)
}

// RemoveNode detaches all incident edges (and their locus memberships),
// then removes the node itself.
func (env *Env) RemoveNode(n NodeID) {
	for _, e := range env.Graph.IncidentEdges(n) {
		env.RemoveEdge(e.U, e.V)
	}
	env.Graph.RemoveNode(n)
	env.nodeChanged(n)
}

// AddEdge inserts the edge joining u and v. Both endpoints must already be
// in the graph; panics with ErrUnknownEndpoint otherwise.
func (env *Env) AddEdge(u, v NodeID) {
	e := NewEdge(u, v)
	env.Graph.AddEdge(e)
	env.edgeChanged(e)
	env.nodeChanged(u)
	env.nodeChanged(v)
}

// RemoveEdge deletes the edge joining u and v, if present.
func (env *Env) RemoveEdge(u, v NodeID) {
	e := NewEdge(u, v)
	env.Graph.RemoveEdge(e)
	env.edgeChanged(e)
	env.nodeChanged(u)
	env.nodeChanged(v)
}

// SetNodeState changes the state label of n and re-evaluates n and its
// incident edges against every locus predicate.
func (env *Env) SetNodeState(n NodeID, state string) {
	env.Graph.SetState(n, state)
	env.nodeChanged(n)
	for _, e := range env.Graph.IncidentEdges(n) {
		env.edgeChanged(e)
	}
}

// Process is the unit of behaviour in a simulation: it owns loci and event
// descriptors, namespaces its parameters and results by instance name, and
// is the only sanctioned route for events to mutate the working graph.
//
// Lifecycle, driven by Dynamics once per run:
//
//	Reset -> Build -> SetUp -> (run loop) -> Results -> TearDown
//
// Build declares loci and events after the working graph exists but before
// any event fires; SetUp performs initialization that needs the built loci;
// Reset returns the process to its pre-build state so the same process value
// can drive repeated runs.
type Process interface {
	InstanceName() string
	SetInstanceName(name string)
	SetContainer(c *ProcessSequence)
	Attach(env *Env)
	Build(params Parameters) error
	SetUp(params Parameters) error
	TearDown() error
	Reset()
	Results(res Parameters)
	AtEquilibrium(t float64) bool
	PerElementEvents() []EventRate
	FixedRateEvents() []EventRate
}

// BaseProcess supplies the bookkeeping shared by all processes: instance
// naming, locus tracking, event registration, parameter namespacing, and the
// graph mutation interface. Concrete processes embed it and override Build
// (and usually SetUp and Results).
type BaseProcess struct {
	instance  string
	env       *Env
	container *ProcessSequence

	perElement []*EventDescriptor
	fixedRate  []*EventDescriptor
	lociNames  []string
}

// InstanceName returns the instance name, "" for anonymous processes.
func (p *BaseProcess) InstanceName() string { return p.instance }

// SetInstanceName names this instance, deriving its parameter, result, and
// locus namespace.
func (p *BaseProcess) SetInstanceName(name string) { p.instance = name }

// SetContainer records the sequence this process runs inside, if any.
func (p *BaseProcess) SetContainer(c *ProcessSequence) { p.container = c }

// Container returns the enclosing sequence, nil when running standalone.
// Named siblings are reachable through it.
func (p *BaseProcess) Container() *ProcessSequence { return p.container }

// Attach binds the process to a run context. Called by Dynamics (or the
// enclosing sequence) before Build.
func (p *BaseProcess) Attach(env *Env) { p.env = env }

// Env returns the run context.
func (p *BaseProcess) Env() *Env { return p.env }

// Graph returns the working graph of the current run.
func (p *BaseProcess) Graph() *Graph { return p.env.Graph }

// Rand returns the run's shared random stream.
func (p *BaseProcess) Rand() *rand.Rand { return p.env.Rand }

// Now returns the current simulation time, read-only.
func (p *BaseProcess) Now() float64 { return p.env.Clock() }

// Build declares loci and events. The default declares nothing.
func (p *BaseProcess) Build(params Parameters) error { return nil }

// SetUp performs post-build initialization. The default does nothing.
func (p *BaseProcess) SetUp(params Parameters) error { return nil }

// TearDown releases per-run state. The default does nothing.
func (p *BaseProcess) TearDown() error { return nil }

// Reset returns the process to its pre-build state. Processes overriding
// Reset must call this as well.
func (p *BaseProcess) Reset() {
	p.env = nil
	p.perElement = nil
	p.fixedRate = nil
	p.lociNames = nil
}

// Results reports per-run results into res. The default reports nothing.
func (p *BaseProcess) Results(res Parameters) {}

// AtEquilibrium reports whether no further events are possible. The default
// is true when every locus feeding a registered event is empty; processes
// with other termination conditions override it.
func (p *BaseProcess) AtEquilibrium(t float64) bool {
	for _, d := range p.perElement {
		if d.Locus.Len() > 0 {
			return false
		}
	}
	for _, d := range p.fixedRate {
		if d.Locus.Len() > 0 {
			return false
		}
	}
	return true
}

// === locus tracking ===

// TrackNodes declares a locus holding exactly the nodes for which pred
// holds, keeps it consistent across every graph mutation, and primes it from
// the current graph. The name is decorated with the instance name, so named
// instances of one process type own distinct loci.
func (p *BaseProcess) TrackNodes(name string, pred func(g *Graph, n NodeID) bool) *Locus[NodeID] {
	full := Decorate(name, p.instance)
	l := NewNodeLocus(full, p.env.Rand)
	p.env.registerLocusName(full, l)
	p.env.nodeTrackers = append(p.env.nodeTrackers, &nodeTracker{locus: l, pred: pred})
	p.lociNames = append(p.lociNames, full)
	for _, n := range p.env.Graph.Nodes() {
		if pred(p.env.Graph, n) {
			l.Add(n)
		}
	}
	return l
}

// TrackEdges declares a locus holding exactly the edges for which pred
// holds, with the same consistency guarantee as TrackNodes.
func (p *BaseProcess) TrackEdges(name string, pred func(g *Graph, e Edge) bool) *Locus[Edge] {
	full := Decorate(name, p.instance)
	l := NewEdgeLocus(full, p.env.Rand)
	p.env.registerLocusName(full, l)
	p.env.edgeTrackers = append(p.env.edgeTrackers, &edgeTracker{locus: l, pred: pred})
	p.lociNames = append(p.lociNames, full)
	for _, e := range p.env.Graph.Edges() {
		if pred(p.env.Graph, e) {
			l.Add(e)
		}
	}
	return l
}

// LociNames returns the (decorated) names of the loci this process declared,
// in declaration order.
func (p *BaseProcess) LociNames() []string { return p.lociNames }

// === event registration ===

// PerElementEvent registers an event whose effective rate scales with the
// locus size: prob per element per unit time.
func (p *BaseProcess) PerElementEvent(name string, l EventLocus, prob float64, h EventHandler) {
	p.perElement = append(p.perElement, &EventDescriptor{
		Name: name, Locus: l, Prob: prob, Handler: h, Kind: PerElement,
	})
}

// FixedRateEvent registers an event firing at rate prob while its locus is
// non-empty, independent of the locus size.
func (p *BaseProcess) FixedRateEvent(name string, l EventLocus, prob float64, h EventHandler) {
	p.fixedRate = append(p.fixedRate, &EventDescriptor{
		Name: name, Locus: l, Prob: prob, Handler: h, Kind: FixedRate,
	})
}

// PerElementEvents returns the live per-element event distribution. The
// snapshot is valid only until the next graph mutation.
func (p *BaseProcess) PerElementEvents() []EventRate { return snapshot(p.perElement) }

// FixedRateEvents returns the live fixed-rate event distribution, with the
// same snapshot caveat.
func (p *BaseProcess) FixedRateEvents() []EventRate { return snapshot(p.fixedRate) }

// === graph mutation interface ===

// AddNode inserts a node with the given state, updating every locus.
func (p *BaseProcess) AddNode(n NodeID, state string) { p.env.AddNode(n, state) }

// RemoveNode removes a node, detaching incident edges first.
func (p *BaseProcess) RemoveNode(n NodeID) { p.env.RemoveNode(n) }

// AddEdge joins two existing nodes.
func (p *BaseProcess) AddEdge(u, v NodeID) { p.env.AddEdge(u, v) }

// RemoveEdge removes the edge joining u and v.
func (p *BaseProcess) RemoveEdge(u, v NodeID) { p.env.RemoveEdge(u, v) }

// SetNodeState changes a node's state label, updating every locus whose
// predicate may be affected.
func (p *BaseProcess) SetNodeState(n NodeID, state string) { p.env.SetNodeState(n, state) }

// === posted events ===

// PostEvent schedules handler at absolute simulation time t.
func (p *BaseProcess) PostEvent(t float64, h PostedHandler) int64 {
	return p.env.Posted.Post(t, h)
}

// PostRepeatingEvent schedules handler at t and every interval after.
func (p *BaseProcess) PostRepeatingEvent(t, interval float64, h PostedHandler) int64 {
	return p.env.Posted.PostRepeating(t, interval, h)
}

// UnpostEvent cancels a posted event; a no-op if it already fired.
func (p *BaseProcess) UnpostEvent(id int64) { p.env.Posted.Unpost(id) }

// === namespaced parameter access ===

// Float resolves a required float parameter in this instance's namespace.
func (p *BaseProcess) Float(params Parameters, key string) (float64, error) {
	return params.Float(key, p.instance)
}

// Int resolves a required integer parameter in this instance's namespace.
func (p *BaseProcess) Int(params Parameters, key string) (int, error) {
	return params.Int(key, p.instance)
}

// String resolves a required string parameter in this instance's namespace.
func (p *BaseProcess) String(params Parameters, key string) (string, error) {
	return params.String(key, p.instance)
}

// SetResult records a result under this instance's namespace.
func (p *BaseProcess) SetResult(res Parameters, key string, v any) {
	res[Decorate(key, p.instance)] = v
}
