// Package epidemic builds compartmented epidemic processes on the sim
// kernel. A compartmented process assigns every node to a compartment
// (susceptible, infected, and so on), tracks loci of nodes in a compartment
// and edges joining two compartments, and moves nodes between compartments
// as events fire. SIR, SIS, and SEIR are provided; new models embed
// CompartmentedProcess and declare their own compartments, loci, and events.
package epidemic

import (
	"fmt"
	"math"

	"github.com/graphproc/graphproc/sim"
)

// CompartmentedProcess is the base for compartment models. It owns the
// compartment set with initial occupancy probabilities, seeds every node's
// initial compartment at SetUp, and reports final compartment sizes as
// results.
type CompartmentedProcess struct {
	sim.BaseProcess

	compartments []string
	initial      map[string]float64
}

// AddCompartment declares a compartment with its initial occupancy
// probability. Declaration order is the seeding order, so it must be
// deterministic across runs.
func (c *CompartmentedProcess) AddCompartment(name string, occupancy float64) {
	if c.initial == nil {
		c.initial = make(map[string]float64)
	}
	if _, ok := c.initial[name]; !ok {
		c.compartments = append(c.compartments, name)
	}
	c.initial[name] = occupancy
}

// Compartments returns the declared compartments in declaration order.
func (c *CompartmentedProcess) Compartments() []string { return c.compartments }

// SetUp assigns every node an initial compartment drawn from the declared
// occupancy distribution. The occupancies must be non-negative and sum to 1;
// anything else is a configuration error surfaced here, before any event
// fires.
func (c *CompartmentedProcess) SetUp(params sim.Parameters) error {
	var total float64
	for _, comp := range c.compartments {
		p := c.initial[comp]
		if p < 0 {
			return fmt.Errorf("compartment %s: negative initial occupancy %g", comp, p)
		}
		total += p
	}
	if math.Abs(total-1) > 1e-9 {
		return fmt.Errorf("initial compartment occupancies sum to %g, want 1", total)
	}

	rng := c.Rand()
	for _, n := range c.Graph().Nodes() {
		u := rng.Float64()
		for _, comp := range c.compartments {
			u -= c.initial[comp]
			if u < 0 {
				c.ChangeInitialCompartment(n, comp)
				break
			}
		}
	}
	return nil
}

// Reset clears the compartment declarations along with the base state.
func (c *CompartmentedProcess) Reset() {
	c.compartments = nil
	c.initial = nil
	c.BaseProcess.Reset()
}

// CompartmentOf returns the compartment of n.
func (c *CompartmentedProcess) CompartmentOf(n sim.NodeID) string {
	return c.Graph().State(n)
}

// ChangeCompartment moves n into comp, updating every locus incrementally.
func (c *CompartmentedProcess) ChangeCompartment(n sim.NodeID, comp string) {
	c.SetNodeState(n, comp)
}

// ChangeInitialCompartment sets the compartment of n during seeding. It is
// the entry point for sibling processes (population churn, for example) that
// add nodes mid-run and need them to start in a compartment.
func (c *CompartmentedProcess) ChangeInitialCompartment(n sim.NodeID, comp string) {
	c.SetNodeState(n, comp)
}

// TrackNodesIn declares a locus of the nodes currently in comp.
func (c *CompartmentedProcess) TrackNodesIn(name, comp string) *sim.Locus[sim.NodeID] {
	return c.TrackNodes(name, func(g *sim.Graph, n sim.NodeID) bool {
		return g.State(n) == comp
	})
}

// TrackEdgesBetween declares a locus of the edges joining a node in compA to
// a node in compB, in either orientation.
func (c *CompartmentedProcess) TrackEdgesBetween(name, compA, compB string) *sim.Locus[sim.Edge] {
	return c.TrackEdges(name, func(g *sim.Graph, e sim.Edge) bool {
		su, sv := g.State(e.U), g.State(e.V)
		return (su == compA && sv == compB) || (su == compB && sv == compA)
	})
}

// Results reports the final size of every compartment under the keys
// "compartment.<name>".
func (c *CompartmentedProcess) Results(res sim.Parameters) {
	sizes := make(map[string]int, len(c.compartments))
	for _, comp := range c.compartments {
		sizes[comp] = 0
	}
	g := c.Graph()
	for _, n := range g.Nodes() {
		sizes[g.State(n)]++
	}
	for _, comp := range c.compartments {
		c.SetResult(res, "compartment."+comp, sizes[comp])
	}
}
