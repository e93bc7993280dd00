package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphproc/graphproc/sim"
)

func sampleTrace() *RunTrace {
	rt := NewRunTrace()
	rt.Initialize()
	g := sim.NewGraph()
	g.AddNode(1)
	g.AddNode(2)
	g.AddEdge(sim.NewEdge(1, 2))
	rt.SimulationStarted(g, 0)
	rt.EventFired(0.5, "infect", sim.NewEdge(1, 2))
	rt.EventFired(1.2, "remove", sim.NodeID(2))
	rt.EventFired(2.0, "", nil) // posted event
	rt.SimulationEnded(2.0)
	return rt
}

func TestRunTrace_Recording(t *testing.T) {
	rt := sampleTrace()

	assert.Equal(t, 2, rt.InitialNodes)
	assert.Equal(t, 1, rt.InitialEdges)
	assert.Equal(t, 2.0, rt.FinalTime)
	require.Len(t, rt.Firings, 3)
	assert.Equal(t, "infect", rt.Firings[0].Name)
	assert.Equal(t, sim.NodeID(2), rt.Firings[1].Element)
}

func TestRunTrace_InitializeClearsPriorRun(t *testing.T) {
	rt := sampleTrace()
	rt.Initialize()
	assert.Empty(t, rt.Firings)
	assert.Equal(t, 0.0, rt.FinalTime)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTrace())

	assert.Equal(t, 3, s.TotalFirings)
	assert.Equal(t, 1, s.PostedCount)
	assert.Equal(t, 2.0, s.FinalTime)
	assert.Equal(t, map[string]int{"infect": 1, "remove": 1}, s.ByEvent)
}

func TestSummarize_NilTrace(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.TotalFirings)
	assert.NotNil(t, s.ByEvent)
}

func TestRunTrace_WriteCSV(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, sampleTrace().WriteCSV(&sb))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "time,event,element", lines[0])
	assert.Equal(t, "0.5,infect,{1 2}", lines[1])
	assert.Equal(t, "1.2,remove,2", lines[2])
	assert.Equal(t, "2,,", lines[3])
}

func TestRunTrace_AsTapInARealRun(t *testing.T) {
	// RunTrace plugs into the scheduler as its Tap and sees every firing.
	rt := NewRunTrace()
	p := &drainProcess{}
	g := sim.NewGraph()
	for i := 0; i < 5; i++ {
		g.AddNode(sim.NodeID(i))
		g.SetState(sim.NodeID(i), "X")
	}
	d := sim.NewStochasticDynamics(p, sim.Prototype{G: g})
	d.SetRand(sim.NewRand(sim.NewRunKey(1)))
	d.SetTap(rt)

	res, err := d.Run(sim.Parameters{})
	require.NoError(t, err)

	assert.Equal(t, 5, rt.InitialNodes)
	assert.Len(t, rt.Firings, res[sim.ResultEventCount].(int))
	assert.Equal(t, res[sim.ResultFinalTime].(float64), rt.FinalTime)
}

// drainProcess consumes every "X" node exactly once.
type drainProcess struct {
	sim.BaseProcess
}

func (p *drainProcess) Build(params sim.Parameters) error {
	l := p.TrackNodes("pending", func(g *sim.Graph, n sim.NodeID) bool { return g.State(n) == "X" })
	p.PerElementEvent("drain", l, 1.0, func(t float64, elem sim.Element) {
		p.SetNodeState(elem.(sim.NodeID), "done")
	})
	return nil
}
