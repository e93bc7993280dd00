package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestLocus_AddRemoveContains(t *testing.T) {
	l := NewNodeLocus("test", rand.New(rand.NewSource(1)))

	assert.Equal(t, 0, l.Len())
	l.Add(3)
	l.Add(1)
	l.Add(2)
	assert.Equal(t, 3, l.Len())
	assert.True(t, l.Contains(1))
	assert.False(t, l.Contains(4))

	// duplicate add is a no-op
	l.Add(2)
	assert.Equal(t, 3, l.Len())

	l.Remove(1)
	assert.Equal(t, 2, l.Len())
	assert.False(t, l.Contains(1))

	// absent remove is a no-op
	l.Remove(99)
	assert.Equal(t, 2, l.Len())
}

func TestLocus_ElementsAscending(t *testing.T) {
	l := NewNodeLocus("test", rand.New(rand.NewSource(1)))
	for _, n := range []NodeID{5, 1, 9, 3, 7} {
		l.Add(n)
	}
	assert.Equal(t, []NodeID{1, 3, 5, 7, 9}, l.Elements())

	l.Remove(5)
	assert.Equal(t, []NodeID{1, 3, 7, 9}, l.Elements())
}

func TestLocus_EdgeOrdering(t *testing.T) {
	l := NewEdgeLocus("test", rand.New(rand.NewSource(1)))
	l.Add(NewEdge(3, 1))
	l.Add(NewEdge(1, 2))
	l.Add(NewEdge(2, 3))
	assert.Equal(t, []Edge{{1, 2}, {1, 3}, {2, 3}}, l.Elements())
}

func TestLocus_DrawEmptyPanics(t *testing.T) {
	l := NewNodeLocus("test", rand.New(rand.NewSource(1)))
	assert.PanicsWithError(t, ErrEmptyLocus.Error(), func() {
		l.Draw(rand.New(rand.NewSource(2)))
	})
}

func TestLocus_DrawUniformity(t *testing.T) {
	// Chi-square goodness of fit of repeated draws against the uniform
	// distribution over n known elements.
	rng := rand.New(rand.NewSource(42))
	l := NewNodeLocus("test", rng)
	const n = 50
	const draws = 50000
	for i := 0; i < n; i++ {
		l.Add(NodeID(i))
	}

	counts := make(map[NodeID]int)
	for i := 0; i < draws; i++ {
		counts[l.Draw(rng)]++
	}

	expected := float64(draws) / float64(n)
	var chi2 float64
	for i := 0; i < n; i++ {
		d := float64(counts[NodeID(i)]) - expected
		chi2 += d * d / expected
	}

	// 99.9th percentile of chi-square with n-1 dof; a uniform draw exceeds
	// this roughly one run in a thousand, and the seed is fixed.
	limit := distuv.ChiSquared{K: float64(n - 1)}.Quantile(0.999)
	assert.Less(t, chi2, limit, "draws deviate from uniform")
}

func TestLocus_DrawAfterChurn(t *testing.T) {
	// Draws must only ever return current members, across heavy mutation.
	rng := rand.New(rand.NewSource(7))
	l := NewNodeLocus("test", rng)
	present := make(map[NodeID]bool)

	for i := 0; i < 5000; i++ {
		n := NodeID(rng.Intn(200))
		switch {
		case !present[n]:
			l.Add(n)
			present[n] = true
		default:
			l.Remove(n)
			delete(present, n)
		}
		require.Equal(t, len(present), l.Len())
		if l.Len() > 0 {
			d := l.Draw(rng)
			require.True(t, present[d], "drew %d which is not a member", d)
		}
	}
}

func TestLocus_RankSelection(t *testing.T) {
	// With a single element every draw returns it; with k elements the
	// subtree counts must stay consistent after interleaved removes.
	rng := rand.New(rand.NewSource(3))
	l := NewNodeLocus("test", rng)
	for i := 0; i < 100; i++ {
		l.Add(NodeID(i))
	}
	for i := 0; i < 100; i += 2 {
		l.Remove(NodeID(i))
	}
	require.Equal(t, 50, l.Len())
	seen := make(map[NodeID]bool)
	for i := 0; i < 2000; i++ {
		d := l.Draw(rng)
		require.Equal(t, NodeID(1), d%2, "drew a removed element")
		seen[d] = true
	}
	assert.Len(t, seen, 50, "every surviving element should be drawable")
}
