package epidemic

import "github.com/graphproc/graphproc/sim"

// SEIR adds an exposed compartment between susceptibility and
// infectiousness: a contacted node incubates (exposed, not yet infectious)
// until symptoms appear, then infects and is eventually removed.
type SEIR struct {
	CompartmentedProcess

	pInfect   float64
	pSymptoms float64
	pRemove   float64
}

// NewSEIR creates an SEIR process.
func NewSEIR() *SEIR { return &SEIR{} }

// Build declares the compartments, loci, and events.
func (s *SEIR) Build(params sim.Parameters) error {
	pInfected, err := s.Float(params, ParamPInfected)
	if err != nil {
		return err
	}
	if s.pInfect, err = s.Float(params, ParamPInfect); err != nil {
		return err
	}
	if s.pSymptoms, err = s.Float(params, ParamPSymptoms); err != nil {
		return err
	}
	if s.pRemove, err = s.Float(params, ParamPRemove); err != nil {
		return err
	}

	s.AddCompartment(Susceptible, 1-pInfected)
	s.AddCompartment(Exposed, 0)
	s.AddCompartment(Infected, pInfected)
	s.AddCompartment(Removed, 0)

	si := s.TrackEdgesBetween(LocusSI, Susceptible, Infected)
	exposed := s.TrackNodesIn(LocusExposed, Exposed)
	infected := s.TrackNodesIn(LocusInfected, Infected)

	s.PerElementEvent("expose", si, s.pInfect, s.Expose)
	s.PerElementEvent("symptoms", exposed, s.pSymptoms, s.Symptoms)
	s.PerElementEvent("remove", infected, s.pRemove, s.Remove)
	return nil
}

// Expose fires on an SI edge: the susceptible endpoint starts incubating.
func (s *SEIR) Expose(t float64, elem sim.Element) {
	e := elem.(sim.Edge)
	n := e.U
	if s.CompartmentOf(n) != Susceptible {
		n = e.V
	}
	s.ChangeCompartment(n, Exposed)
}

// Symptoms fires on an exposed node, making it infectious.
func (s *SEIR) Symptoms(t float64, elem sim.Element) {
	s.ChangeCompartment(elem.(sim.NodeID), Infected)
}

// Remove fires on an infected node, removing it from the epidemic.
func (s *SEIR) Remove(t float64, elem sim.Element) {
	s.ChangeCompartment(elem.(sim.NodeID), Removed)
}
