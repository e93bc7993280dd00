package sim

// ProcessSequence composes child processes into one Process. Lifecycle calls
// run over the children in registration order; event distributions are the
// concatenation of the children's; equilibrium is the logical AND of the
// children's. A sequence is itself a Process, so sequences nest.
//
// Children may be registered under names. A named child's parameters,
// results, and loci live in that child's namespace, letting two instances of
// the same process type share one simulation; siblings reach each other by
// name through their container, which is the sanctioned way for one child's
// event handler to call into another's mutation interface.
type ProcessSequence struct {
	BaseProcess

	children []seqChild
	byName   map[string]Process
}

type seqChild struct {
	name string
	proc Process
}

// NewProcessSequence composes the given processes, anonymously, in order.
func NewProcessSequence(procs ...Process) *ProcessSequence {
	s := &ProcessSequence{byName: make(map[string]Process)}
	for _, p := range procs {
		s.Add(p)
	}
	return s
}

// Add appends an anonymous child.
func (s *ProcessSequence) Add(p Process) {
	s.children = append(s.children, seqChild{proc: p})
	p.SetContainer(s)
}

// AddNamed appends a child under a name, setting the child's instance name
// (and with it the child's parameter and locus namespace).
func (s *ProcessSequence) AddNamed(name string, p Process) {
	p.SetInstanceName(name)
	s.children = append(s.children, seqChild{name: name, proc: p})
	s.byName[name] = p
	p.SetContainer(s)
}

// Get returns the child registered under name, nil if absent.
func (s *ProcessSequence) Get(name string) Process { return s.byName[name] }

// Processes returns the children in registration order.
func (s *ProcessSequence) Processes() []Process {
	out := make([]Process, len(s.children))
	for i, c := range s.children {
		out[i] = c.proc
	}
	return out
}

// Attach binds every child to the run context.
func (s *ProcessSequence) Attach(env *Env) {
	s.BaseProcess.Attach(env)
	for _, c := range s.children {
		c.proc.Attach(env)
	}
}

// Build builds every child in registration order. Locus name collisions
// between children surface here (via ErrDuplicateLocus) because each child
// registers its loci as it builds.
func (s *ProcessSequence) Build(params Parameters) error {
	for _, c := range s.children {
		if err := c.proc.Build(params); err != nil {
			return err
		}
	}
	return nil
}

// SetUp sets up every child in registration order.
func (s *ProcessSequence) SetUp(params Parameters) error {
	for _, c := range s.children {
		if err := c.proc.SetUp(params); err != nil {
			return err
		}
	}
	return nil
}

// TearDown tears down every child; the first error is reported but every
// child is torn down regardless.
func (s *ProcessSequence) TearDown() error {
	var first error
	for _, c := range s.children {
		if err := c.proc.TearDown(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Reset resets every child and the sequence itself.
func (s *ProcessSequence) Reset() {
	for _, c := range s.children {
		c.proc.Reset()
	}
	s.BaseProcess.Reset()
}

// Results merges every child's results into res. Named children write under
// decorated keys, so their entries never collide; undecorated keys shared by
// anonymous children merge with later children winning.
func (s *ProcessSequence) Results(res Parameters) {
	for _, c := range s.children {
		c.proc.Results(res)
	}
}

// AtEquilibrium holds when every child reports equilibrium.
func (s *ProcessSequence) AtEquilibrium(t float64) bool {
	for _, c := range s.children {
		if !c.proc.AtEquilibrium(t) {
			return false
		}
	}
	return true
}

// PerElementEvents concatenates the children's per-element distributions in
// registration order.
func (s *ProcessSequence) PerElementEvents() []EventRate {
	var out []EventRate
	for _, c := range s.children {
		out = append(out, c.proc.PerElementEvents()...)
	}
	return out
}

// FixedRateEvents concatenates the children's fixed-rate distributions in
// registration order.
func (s *ProcessSequence) FixedRateEvents() []EventRate {
	var out []EventRate
	for _, c := range s.children {
		out = append(out, c.proc.FixedRateEvents()...)
	}
	return out
}
