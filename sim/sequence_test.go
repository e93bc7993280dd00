package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// probeProcess records lifecycle calls and exposes one parameter value.
type probeProcess struct {
	BaseProcess

	log      *[]string
	label    string
	observed float64
	eq       bool
}

func (p *probeProcess) Build(params Parameters) error {
	*p.log = append(*p.log, "build:"+p.label)
	return nil
}

func (p *probeProcess) SetUp(params Parameters) error {
	*p.log = append(*p.log, "setUp:"+p.label)
	v, err := p.Float(params, "p")
	if err != nil {
		return err
	}
	p.observed = v
	return nil
}

func (p *probeProcess) TearDown() error {
	*p.log = append(*p.log, "tearDown:"+p.label)
	return nil
}

func (p *probeProcess) Results(res Parameters) {
	p.SetResult(res, "observed", p.observed)
}

func (p *probeProcess) AtEquilibrium(t float64) bool { return p.eq }

func setUpSequence(t *testing.T, params Parameters, a, b *probeProcess, names ...string) *ProcessSequence {
	t.Helper()
	seq := NewProcessSequence()
	if len(names) == 2 {
		seq.AddNamed(names[0], a)
		seq.AddNamed(names[1], b)
	} else {
		seq.Add(a)
		seq.Add(b)
	}
	seq.Attach(newTestEnv(NewGraph(), 1))
	require.NoError(t, seq.Build(params))
	require.NoError(t, seq.SetUp(params))
	return seq
}

func TestProcessSequence_LifecycleOrder(t *testing.T) {
	var log []string
	a := &probeProcess{log: &log, label: "a"}
	b := &probeProcess{log: &log, label: "b"}
	seq := setUpSequence(t, Parameters{"p": 1.0}, a, b)
	require.NoError(t, seq.TearDown())

	assert.Equal(t, []string{
		"build:a", "build:b",
		"setUp:a", "setUp:b",
		"tearDown:a", "tearDown:b",
	}, log)
}

func TestProcessSequence_UndecoratedParameterIsShared(t *testing.T) {
	var log []string
	a := &probeProcess{log: &log, label: "a"}
	b := &probeProcess{log: &log, label: "b"}
	setUpSequence(t, Parameters{"p": 0.7}, a, b, "first", "second")

	assert.Equal(t, 0.7, a.observed)
	assert.Equal(t, 0.7, b.observed)
}

func TestProcessSequence_DecoratedParameterIsPerInstance(t *testing.T) {
	var log []string
	a := &probeProcess{log: &log, label: "a"}
	b := &probeProcess{log: &log, label: "b"}
	setUpSequence(t, Parameters{
		"p@first":  0.2,
		"p@second": 0.9,
	}, a, b, "first", "second")

	assert.Equal(t, 0.2, a.observed)
	assert.Equal(t, 0.9, b.observed)
}

func TestProcessSequence_ResultsMergeByNamespace(t *testing.T) {
	var log []string
	a := &probeProcess{log: &log, label: "a"}
	b := &probeProcess{log: &log, label: "b"}
	seq := setUpSequence(t, Parameters{"p@first": 0.2, "p@second": 0.9}, a, b, "first", "second")

	res := Parameters{}
	seq.Results(res)
	assert.Equal(t, 0.2, res["observed@first"])
	assert.Equal(t, 0.9, res["observed@second"])
}

func TestProcessSequence_EquilibriumIsAND(t *testing.T) {
	var log []string
	a := &probeProcess{log: &log, label: "a", eq: true}
	b := &probeProcess{log: &log, label: "b", eq: false}
	seq := setUpSequence(t, Parameters{"p": 1.0}, a, b)

	assert.False(t, seq.AtEquilibrium(0))
	b.eq = true
	assert.True(t, seq.AtEquilibrium(0))
}

func TestProcessSequence_SiblingLookup(t *testing.T) {
	var log []string
	a := &probeProcess{log: &log, label: "a"}
	b := &probeProcess{log: &log, label: "b"}
	seq := NewProcessSequence()
	seq.AddNamed("churn", a)
	seq.AddNamed("disease", b)

	// a sibling can reach another child through the shared container
	assert.Same(t, b, a.Container().Get("disease"))
	assert.Same(t, a, b.Container().Get("churn"))
	assert.Nil(t, seq.Get("absent"))
}

func TestProcessSequence_MissingParameterSurfacesFromChild(t *testing.T) {
	var log []string
	a := &probeProcess{log: &log, label: "a"}
	seq := NewProcessSequence()
	seq.AddNamed("only", a)
	seq.Attach(newTestEnv(NewGraph(), 1))
	require.NoError(t, seq.Build(Parameters{}))
	err := seq.SetUp(Parameters{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestProcessSequence_EventDistributionsConcatenate(t *testing.T) {
	env := newTestEnv(NewGraph(), 2)
	a := &BaseProcess{}
	b := &BaseProcess{}
	seq := NewProcessSequence()
	seq.AddNamed("a", a)
	seq.AddNamed("b", b)
	seq.Attach(env)

	la := a.TrackNodes("l", func(*Graph, NodeID) bool { return true })
	lb := b.TrackNodes("l", func(*Graph, NodeID) bool { return true })
	a.PerElementEvent("ea", la, 0.5, func(float64, Element) {})
	b.PerElementEvent("eb", lb, 0.5, func(float64, Element) {})
	b.FixedRateEvent("fb", lb, 1.5, func(float64, Element) {})

	pe := seq.PerElementEvents()
	require.Len(t, pe, 2)
	assert.Equal(t, "ea", pe[0].Desc.Name)
	assert.Equal(t, "eb", pe[1].Desc.Name)
	assert.Len(t, seq.FixedRateEvents(), 1)
}
