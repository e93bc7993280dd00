package sim

// Tap observes a run. It is the only supported extension point that sees
// every event regardless of kind, stochastic or posted. All hooks run on the
// simulation goroutine; a slow tap slows the run.
type Tap interface {
	// Initialize is called once, before the run is set up.
	Initialize()

	// SimulationStarted is called after setUp, before the first event, with
	// the working graph.
	SimulationStarted(g *Graph, t float64)

	// EventFired is called after every handler invocation with the firing
	// time, the event's optional name, and the element it fired on (nil for
	// posted events, which carry no element).
	EventFired(t float64, name string, elem Element)

	// SimulationEnded is called after the last event, before tearDown.
	SimulationEnded(t float64)
}

// NoopTap is the default Tap; every hook does nothing.
type NoopTap struct{}

func (NoopTap) Initialize()                         {}
func (NoopTap) SimulationStarted(*Graph, float64)   {}
func (NoopTap) EventFired(float64, string, Element) {}
func (NoopTap) SimulationEnded(float64)             {}
