// Package sim provides the core engine for simulating stochastic processes
// over graphs: nodes and edges changing state over time, under either a
// continuous-time (event-by-event) or a discrete-time (tranche-by-tranche)
// scheduler.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - locus.go: Locus, the mutation-consistent element sets events fire on
//   - process.go: Process lifecycle, event registration, and the graph
//     mutation interface that keeps loci consistent
//   - stochastic.go / synchronous.go: the two schedulers
//
// # Architecture
//
// A run wires three layers together:
//   - A Process declares loci (sets of nodes or edges defined by predicates
//     over graph state) and events (per-element or fixed-rate) on them, and
//     mutates the graph only through its mutation interface, which keeps
//     every locus consistent incrementally. ProcessSequence composes
//     processes, optionally under instance names with namespaced parameters.
//   - A Dynamics owns the clock and the posted-event queue, pulls the live
//     event distribution from the root process, and selects and fires events
//     in time order. StochasticDynamics reproduces the continuous-time
//     Markov jump process exactly; SynchronousDynamics advances in unit
//     timesteps and is documented as statistically inexact.
//   - A Tap observes every firing; sim/trace provides a recording tap.
//
// A single run is strictly single-threaded: the schedulers and processes
// alternate turns synchronously and every handler runs to completion. All
// randomness flows through one shared *rand.Rand per run, so independent
// runs are embarrassingly parallel with zero shared state.
//
// Domain models live in sub-packages; sim/epidemic builds compartmented
// epidemic processes (SIR, SIS, SEIR) on the kernel.
package sim
