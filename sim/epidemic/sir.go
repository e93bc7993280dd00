package epidemic

import "github.com/graphproc/graphproc/sim"

// Compartment labels shared by the bundled models.
const (
	Susceptible = "S"
	Exposed     = "E"
	Infected    = "I"
	Removed     = "R"
)

// Parameter keys for the bundled models. Named instances decorate these
// ("pInfect@disease1") to hold per-instance values.
const (
	ParamPInfected = "pInfected" // initial fraction of infected nodes
	ParamPInfect   = "pInfect"   // infection probability per SI edge
	ParamPRemove   = "pRemove"   // removal probability per infected node
	ParamPRecover  = "pRecover"  // recovery probability per infected node (SIS)
	ParamPSymptoms = "pSymptoms" // symptom-onset probability per exposed node (SEIR)
)

// Locus names for the bundled models.
const (
	LocusInfected = "I"
	LocusExposed  = "E"
	LocusSI       = "SI"
)

// SIR is the susceptible-infected-removed model: infection passes over
// SI edges, infected nodes are removed and play no further part.
type SIR struct {
	CompartmentedProcess

	pInfect float64
	pRemove float64
}

// NewSIR creates an SIR process.
func NewSIR() *SIR { return &SIR{} }

// Build declares the compartments, the SI-edge and infected-node loci, and
// the infection and removal events.
func (s *SIR) Build(params sim.Parameters) error {
	pInfected, err := s.Float(params, ParamPInfected)
	if err != nil {
		return err
	}
	if s.pInfect, err = s.Float(params, ParamPInfect); err != nil {
		return err
	}
	if s.pRemove, err = s.Float(params, ParamPRemove); err != nil {
		return err
	}

	s.AddCompartment(Susceptible, 1-pInfected)
	s.AddCompartment(Infected, pInfected)
	s.AddCompartment(Removed, 0)

	si := s.TrackEdgesBetween(LocusSI, Susceptible, Infected)
	infected := s.TrackNodesIn(LocusInfected, Infected)

	s.PerElementEvent("infect", si, s.pInfect, s.Infect)
	s.PerElementEvent("remove", infected, s.pRemove, s.Remove)
	return nil
}

// Infect fires on an SI edge: the susceptible endpoint becomes infected.
func (s *SIR) Infect(t float64, elem sim.Element) {
	e := elem.(sim.Edge)
	n := e.U
	if s.CompartmentOf(n) != Susceptible {
		n = e.V
	}
	s.ChangeCompartment(n, Infected)
}

// Remove fires on an infected node, removing it from the epidemic.
func (s *SIR) Remove(t float64, elem sim.Element) {
	s.ChangeCompartment(elem.(sim.NodeID), Removed)
}
