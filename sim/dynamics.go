package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Well-known parameter and result keys.
const (
	// ParamMaxTime caps the simulation clock. A process that never reaches
	// equilibrium runs until this cutoff; the cutoff is the kernel's only
	// mitigation for non-terminating models.
	ParamMaxTime = "maxTime"

	// ResultFinalTime is the simulation time at which the run ended.
	ResultFinalTime = "finalTime"

	// ResultEventCount is the cumulative number of fired events, stochastic
	// and posted.
	ResultEventCount = "eventCount"
)

// DefaultMaxTime is the clock cap used when ParamMaxTime is absent.
const DefaultMaxTime = 20000.0

// GraphProvider supplies the working graph for a run. Dynamics delegates
// graph creation to the caller and only ever manipulates graph contents
// through the Process mutation interface.
type GraphProvider interface {
	WorkingGraph(rng *rand.Rand) (*Graph, error)
}

// Prototype is a GraphProvider that hands out deep copies of a fixed graph,
// so repeated runs never share mutable state.
type Prototype struct {
	G *Graph
}

// WorkingGraph implements GraphProvider.
func (p Prototype) WorkingGraph(*rand.Rand) (*Graph, error) { return p.G.Copy(), nil }

// GeneratorFunc adapts a plain function into a GraphProvider.
type GeneratorFunc func(rng *rand.Rand) (*Graph, error)

// WorkingGraph implements GraphProvider.
func (f GeneratorFunc) WorkingGraph(rng *rand.Rand) (*Graph, error) { return f(rng) }

// Dynamics is a scheduler: it owns the clock and the posted-event queue,
// drives the root process through its lifecycle, and selects and fires
// events in time order until equilibrium or the maximum time.
type Dynamics interface {
	// Run performs one complete run with the given experimental parameters
	// and returns the merged results.
	Run(params Parameters) (Parameters, error)

	// Now returns the current simulation time.
	Now() float64

	// EventCount returns the number of events fired so far in this run.
	EventCount() int
}

// dynamicsCore carries the state and lifecycle shared by both schedulers:
// clock, posted-event queue, run context, tap, and the single random stream.
type dynamicsCore struct {
	process  Process
	provider GraphProvider
	rng      *rand.Rand
	tap      Tap

	clock      float64
	posted     *PostedEventQueue
	graph      *Graph
	env        *Env
	eventCount int
	running    bool
}

func newDynamicsCore(p Process, provider GraphProvider) dynamicsCore {
	return dynamicsCore{
		process:  p,
		provider: provider,
		rng:      NewRand(DefaultRunKey()),
		tap:      NoopTap{},
	}
}

// SetRand replaces the run's random stream, for reproducible runs. Must be
// called before Run.
func (d *dynamicsCore) SetRand(rng *rand.Rand) { d.rng = rng }

// SetTap installs an event tap. Must be called before Run.
func (d *dynamicsCore) SetTap(t Tap) { d.tap = t }

// Now returns the current simulation time. The clock is monotonically
// non-decreasing within a run and visible read-only to processes.
func (d *dynamicsCore) Now() float64 { return d.clock }

// EventCount returns the cumulative number of fired events.
func (d *dynamicsCore) EventCount() int { return d.eventCount }

// Graph returns the current working graph, nil outside a run.
func (d *dynamicsCore) Graph() *Graph { return d.graph }

// setUp obtains the working graph, builds the run context, and drives the
// root process through Reset, Build, and SetUp.
func (d *dynamicsCore) setUp(params Parameters) error {
	if d.running {
		panic("sim: Run called on a dynamics that is already running")
	}
	d.process.Reset()
	g, err := d.provider.WorkingGraph(d.rng)
	if err != nil {
		return err
	}
	d.graph = g
	d.clock = 0
	d.eventCount = 0
	d.posted = NewPostedEventQueue(d.Now)
	d.env = NewEnv(g, d.rng, d.Now, d.posted)
	d.process.Attach(d.env)
	if err := d.process.Build(params); err != nil {
		return err
	}
	if err := d.process.SetUp(params); err != nil {
		return err
	}
	d.running = true
	logrus.Debugf("run set up: %d nodes, %d edges", g.NumNodes(), g.NumEdges())
	return nil
}

// tearDown discards the working graph and run context.
func (d *dynamicsCore) tearDown() error {
	err := d.process.TearDown()
	d.graph = nil
	d.env = nil
	d.posted = nil
	d.running = false
	return err
}

// results assembles the run's result document.
func (d *dynamicsCore) results() Parameters {
	res := Parameters{}
	d.process.Results(res)
	res[ResultFinalTime] = d.clock
	res[ResultEventCount] = d.eventCount
	return res
}

// fire invokes a stochastic event's handler and reports it to the tap.
func (d *dynamicsCore) fire(desc *EventDescriptor, t float64, elem Element) {
	logrus.Debugf("[t %10.4f] firing %s on %v", t, desc.Name, elem)
	desc.Handler(t, elem)
	d.eventCount++
	d.tap.EventFired(t, desc.Name, elem)
}

// runPostedDue fires every posted event due at or before upto, draining
// events that due handlers post for times still at or before upto.
func (d *dynamicsCore) runPostedDue(upto float64) {
	for {
		due := d.posted.PopDue(upto)
		if len(due) == 0 {
			return
		}
		for _, f := range due {
			logrus.Debugf("[t %10.4f] firing posted event", f.Time)
			f.Handler(f.Time)
			d.eventCount++
			d.tap.EventFired(f.Time, "", nil)
		}
	}
}

// maxTime resolves the clock cap from the parameters.
func (d *dynamicsCore) maxTime(params Parameters) float64 {
	return params.FloatOr(ParamMaxTime, "", DefaultMaxTime)
}
