package sim

import "github.com/sirupsen/logrus"

// TrancheEntry is one event proposed to fire within a discrete timestep.
type TrancheEntry struct {
	Desc *EventDescriptor
	Elem Element
}

// SynchronousDynamics is the discrete-time scheduler. Each timestep fires
// the posted events now due, proposes a tranche of stochastic events from
// the state at the start of the step, fires the tranche, and advances the
// clock by exactly 1.
//
// This scheduler is statistically inexact: the tranche is proposed from
// state at the step's start, but whether each proposed event actually fires
// depends on events fired earlier in the same tranche, so results are
// sensitive to the firing order. That sensitivity is inherent to any
// synchronous scheme, not a defect of this one; use StochasticDynamics when
// exactness matters.
type SynchronousDynamics struct {
	dynamicsCore

	// OrderTranche, when non-nil, reorders each tranche before firing. The
	// default order is per-element events in declaration order followed by
	// fixed-rate events in declaration order, elements in ascending order
	// within an event.
	OrderTranche func(tranche []TrancheEntry)
}

// NewSynchronousDynamics creates a discrete-time scheduler for the given
// root process, with the working graph supplied by provider.
func NewSynchronousDynamics(p Process, provider GraphProvider) *SynchronousDynamics {
	return &SynchronousDynamics{dynamicsCore: newDynamicsCore(p, provider)}
}

// Run implements Dynamics.
func (d *SynchronousDynamics) Run(params Parameters) (Parameters, error) {
	d.tap.Initialize()
	if err := d.setUp(params); err != nil {
		return nil, err
	}
	d.loop(d.maxTime(params))
	d.tap.SimulationEnded(d.clock)
	res := d.results()
	if err := d.tearDown(); err != nil {
		return nil, err
	}
	return res, nil
}

func (d *SynchronousDynamics) loop(maxTime float64) {
	d.tap.SimulationStarted(d.graph, d.clock)
	for d.clock < maxTime {
		d.runPostedDue(d.clock)
		if d.process.AtEquilibrium(d.clock) {
			break
		}

		tranche := d.buildTranche()
		if d.OrderTranche != nil {
			d.OrderTranche(tranche)
		}
		for _, entry := range tranche {
			// An earlier firing in this tranche may have made this entry
			// ineligible; skip it silently rather than firing on a stale
			// element.
			if !entry.Desc.Locus.ContainsAny(entry.Elem) {
				continue
			}
			d.fire(entry.Desc, d.clock, entry.Elem)
		}

		d.clock++
	}
	logrus.Debugf("[t %10.4f] run ended after %d events", d.clock, d.eventCount)
}

// buildTranche proposes the events for one timestep: a Bernoulli trial per
// element for each per-element event, and for each fixed-rate event on a
// non-empty locus one drawn element included with the event's probability.
func (d *SynchronousDynamics) buildTranche() []TrancheEntry {
	var tranche []TrancheEntry
	for _, er := range d.process.PerElementEvents() {
		if er.Rate == 0 {
			continue
		}
		for _, elem := range er.Desc.Locus.ElementsAny() {
			if d.rng.Float64() < er.Desc.Prob {
				tranche = append(tranche, TrancheEntry{Desc: er.Desc, Elem: elem})
			}
		}
	}
	for _, er := range d.process.FixedRateEvents() {
		if er.Desc.Locus.Len() == 0 {
			continue
		}
		elem := er.Desc.Locus.DrawAny(d.rng)
		if d.rng.Float64() < er.Desc.Prob {
			tranche = append(tranche, TrancheEntry{Desc: er.Desc, Elem: elem})
		}
	}
	return tranche
}
