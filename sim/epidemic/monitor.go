package epidemic

import "github.com/graphproc/graphproc/sim"

// ParamMonitorDelta is the sampling interval of a Monitor.
const ParamMonitorDelta = "monitor.delta"

// DefaultMonitorDelta is the sampling interval used when the parameter is
// absent.
const DefaultMonitorDelta = 1.0

// Monitor samples the size of every locus in the simulation at a fixed
// interval, via a repeating posted event, and reports the time series as
// results. Compose it after the model of interest in a ProcessSequence:
//
//	seq := sim.NewProcessSequence(epidemic.NewSIR(), epidemic.NewMonitor())
//
// Monitor declares no loci or events of its own, so it never delays
// equilibrium.
type Monitor struct {
	sim.BaseProcess

	times  []float64
	series map[string][]int
}

// NewMonitor creates a Monitor.
func NewMonitor() *Monitor { return &Monitor{} }

// SetUp posts the repeating observation event, starting at time 0.
func (m *Monitor) SetUp(params sim.Parameters) error {
	delta := params.FloatOr(ParamMonitorDelta, m.InstanceName(), DefaultMonitorDelta)
	m.times = nil
	m.series = make(map[string][]int)
	m.PostRepeatingEvent(0, delta, m.observe)
	return nil
}

// observe records the current size of every registered locus.
func (m *Monitor) observe(t float64) {
	m.times = append(m.times, t)
	for _, l := range m.Env().Loci() {
		m.series[l.Name()] = append(m.series[l.Name()], l.Len())
	}
}

// Reset drops the collected series along with the base state.
func (m *Monitor) Reset() {
	m.times = nil
	m.series = nil
	m.BaseProcess.Reset()
}

// Times returns the observation times so far.
func (m *Monitor) Times() []float64 { return m.times }

// Series returns the observed size series for the named locus.
func (m *Monitor) Series(locus string) []int { return m.series[locus] }

// Results reports the observation times under "monitor.times" and each locus
// series under "monitor.series.<locus>".
func (m *Monitor) Results(res sim.Parameters) {
	m.SetResult(res, "monitor.times", m.times)
	for name, s := range m.series {
		m.SetResult(res, "monitor.series."+name, s)
	}
}
