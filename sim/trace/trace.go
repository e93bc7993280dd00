// Package trace records fired events during a simulation run for later
// analysis. It implements the sim.Tap hook points and stores pure data
// types; it never reaches back into the kernel.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/graphproc/graphproc/sim"
)

// FiringRecord captures a single event firing.
type FiringRecord struct {
	Time    float64
	Name    string      // event name, "" for posted events
	Element sim.Element // firing element, nil for posted events
}

// RunTrace collects firing records across one run. It implements sim.Tap.
type RunTrace struct {
	InitialNodes int
	InitialEdges int
	FinalTime    float64
	Firings      []FiringRecord
}

// NewRunTrace creates a RunTrace ready for recording.
func NewRunTrace() *RunTrace {
	return &RunTrace{Firings: make([]FiringRecord, 0)}
}

// Initialize implements sim.Tap.
func (rt *RunTrace) Initialize() {
	rt.Firings = rt.Firings[:0]
	rt.FinalTime = 0
}

// SimulationStarted implements sim.Tap.
func (rt *RunTrace) SimulationStarted(g *sim.Graph, t float64) {
	rt.InitialNodes = g.NumNodes()
	rt.InitialEdges = g.NumEdges()
}

// EventFired implements sim.Tap.
func (rt *RunTrace) EventFired(t float64, name string, elem sim.Element) {
	rt.Firings = append(rt.Firings, FiringRecord{Time: t, Name: name, Element: elem})
}

// SimulationEnded implements sim.Tap.
func (rt *RunTrace) SimulationEnded(t float64) {
	rt.FinalTime = t
}

// WriteCSV exports the firing log as (time, event, element) rows.
func (rt *RunTrace) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "event", "element"}); err != nil {
		return err
	}
	for _, f := range rt.Firings {
		elem := ""
		if f.Element != nil {
			elem = fmt.Sprint(f.Element)
		}
		row := []string{fmt.Sprintf("%g", f.Time), f.Name, elem}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
