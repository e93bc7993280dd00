package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphproc/graphproc/sim"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
graph:
  kind: er
  nodes: 500
  meanDegree: 4
dynamics: stochastic
maxTime: 100
processes:
  - model: sir
  - model: monitor
params:
  pInfected: 0.01
  pInfect: 0.3
  pRemove: 0.05
`)
	sc, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "er", sc.Graph.Kind)
	assert.Equal(t, 500, sc.Graph.Nodes)
	assert.Equal(t, 4.0, sc.Graph.MeanDegree)
	assert.Equal(t, 100.0, sc.MaxTime)
	require.Len(t, sc.Processes, 2)
	assert.Equal(t, "sir", sc.Processes[0].Model)
	assert.Equal(t, 0.3, sc.Params["pInfect"])
}

func TestLoadScenario_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"unknown graph kind",
			"graph: {kind: lattice, nodes: 10}\nprocesses: [{model: sir}]",
			"unknown graph kind",
		},
		{
			"no nodes",
			"graph: {kind: complete}\nprocesses: [{model: sir}]",
			"nodes must be positive",
		},
		{
			"er without degree",
			"graph: {kind: er, nodes: 10}\nprocesses: [{model: sir}]",
			"meanDegree",
		},
		{
			"unknown dynamics",
			"graph: {kind: complete, nodes: 10}\ndynamics: quantum\nprocesses: [{model: sir}]",
			"unknown dynamics",
		},
		{
			"no processes",
			"graph: {kind: complete, nodes: 10}",
			"no processes",
		},
		{
			"unknown model",
			"graph: {kind: complete, nodes: 10}\nprocesses: [{model: zombie}]",
			"unknown model",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestComposeProcesses_SingleAnonymous(t *testing.T) {
	sc := &Scenario{Processes: []ProcessSpec{{Model: "sir"}}}
	p, err := composeProcesses(sc)
	require.NoError(t, err)
	assert.Equal(t, "", p.InstanceName())
}

func TestComposeProcesses_NamedBecomeSequence(t *testing.T) {
	sc := &Scenario{Processes: []ProcessSpec{
		{Model: "sir", Name: "d1"},
		{Model: "monitor"},
	}}
	p, err := composeProcesses(sc)
	require.NoError(t, err)
	seq, ok := p.(*sim.ProcessSequence)
	require.True(t, ok)
	assert.NotNil(t, seq.Get("d1"))
	assert.Len(t, seq.Processes(), 2)
}

func TestGraphProvider_Complete(t *testing.T) {
	provider := graphProvider(GraphSpec{Kind: "complete", Nodes: 6})
	g, err := provider.WorkingGraph(nil)
	require.NoError(t, err)
	assert.Equal(t, 6, g.NumNodes())
	assert.Equal(t, 15, g.NumEdges())
}
