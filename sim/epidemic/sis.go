package epidemic

import "github.com/graphproc/graphproc/sim"

// SIS is the susceptible-infected-susceptible model: recovery returns a node
// to the susceptible compartment, so the epidemic can revisit it. With
// non-zero rates the process has no absorbing all-susceptible state on most
// graphs; runs typically end at the maximum-time cutoff.
type SIS struct {
	CompartmentedProcess

	pInfect  float64
	pRecover float64
}

// NewSIS creates an SIS process.
func NewSIS() *SIS { return &SIS{} }

// Build declares the compartments, loci, and events.
func (s *SIS) Build(params sim.Parameters) error {
	pInfected, err := s.Float(params, ParamPInfected)
	if err != nil {
		return err
	}
	if s.pInfect, err = s.Float(params, ParamPInfect); err != nil {
		return err
	}
	if s.pRecover, err = s.Float(params, ParamPRecover); err != nil {
		return err
	}

	s.AddCompartment(Susceptible, 1-pInfected)
	s.AddCompartment(Infected, pInfected)

	si := s.TrackEdgesBetween(LocusSI, Susceptible, Infected)
	infected := s.TrackNodesIn(LocusInfected, Infected)

	s.PerElementEvent("infect", si, s.pInfect, s.Infect)
	s.PerElementEvent("recover", infected, s.pRecover, s.Recover)
	return nil
}

// Infect fires on an SI edge: the susceptible endpoint becomes infected.
func (s *SIS) Infect(t float64, elem sim.Element) {
	e := elem.(sim.Edge)
	n := e.U
	if s.CompartmentOf(n) != Susceptible {
		n = e.V
	}
	s.ChangeCompartment(n, Infected)
}

// Recover fires on an infected node, returning it to susceptibility.
func (s *SIS) Recover(t float64, elem sim.Element) {
	s.ChangeCompartment(elem.(sim.NodeID), Susceptible)
}
