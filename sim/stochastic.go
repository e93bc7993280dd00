package sim

import "github.com/sirupsen/logrus"

// StochasticDynamics is the continuous-time (Gillespie) scheduler. Each
// iteration draws an exponentially distributed waiting time with rate equal
// to the total event rate R, advances the clock, fires any posted events now
// due, and then fires one event chosen with probability proportional to its
// rate. The time to the next event is exponential with rate R and the event
// identity is multinomial over the individual rates, so the simulated
// sequence reproduces the continuous-time Markov jump process exactly, and
// quiescent periods are stepped over rather than polled.
type StochasticDynamics struct {
	dynamicsCore
}

// NewStochasticDynamics creates a continuous-time scheduler for the given
// root process, with the working graph supplied by provider.
func NewStochasticDynamics(p Process, provider GraphProvider) *StochasticDynamics {
	return &StochasticDynamics{dynamicsCore: newDynamicsCore(p, provider)}
}

// Run implements Dynamics.
func (d *StochasticDynamics) Run(params Parameters) (Parameters, error) {
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

func (d *StochasticDynamics) loop(maxTime float64) {
	d.tap.SimulationStarted(d.graph, d.clock)
	for d.clock < maxTime {
		perElement := d.process.PerElementEvents()
		fixedRate := d.process.FixedRateEvents()
		r := totalRate(perElement, fixedRate)

		if r == 0 {
			// Nothing can fire stochastically. Jump to the next posted
			// event, or terminate if none remain.
			next, ok := d.posted.NextTime()
			if !ok || next > maxTime {
				break
			}
			d.clock = next
			d.runPostedDue(next)
			continue
		}

		if d.process.AtEquilibrium(d.clock) {
			break
		}

		// Exponential waiting time with rate r, drawn from the shared stream.
		dt := d.rng.ExpFloat64() / r
		t := d.clock + dt
		if t > maxTime {
			d.clock = maxTime
			d.runPostedDue(maxTime)
			break
		}
		d.clock = t
		d.runPostedDue(t)

		// Select one (locus, event) pair with probability proportional to
		// its rate, then a uniform element of that locus. The selection uses
		// the snapshot taken before the posted firings; if a posted handler
		// emptied the chosen locus in between, the firing is skipped and the
		// next iteration re-snapshots.
		desc := chooseEvent(d.rng.Float64()*r, perElement, fixedRate)
		if desc == nil || desc.Locus.Len() == 0 {
			continue
		}
		elem := desc.Locus.DrawAny(d.rng)
		d.fire(desc, t, elem)
	}
	logrus.Debugf("[t %10.4f] run ended after %d events", d.clock, d.eventCount)
}

// chooseEvent walks the concatenated distributions with a pre-scaled uniform
// variate and returns the descriptor it lands on.
func chooseEvent(x float64, dists ...[]EventRate) *EventDescriptor {
	var last *EventDescriptor
	for _, dist := range dists {
		for _, er := range dist {
			if er.Rate == 0 {
				continue
			}
			last = er.Desc
			x -= er.Rate
			if x < 0 {
				return er.Desc
			}
		}
	}
	// Rounding can push x a hair past the final cumulative rate.
	return last
}
