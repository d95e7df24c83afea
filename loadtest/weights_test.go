package loadtest

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightTableValidation(t *testing.T) {
	assert.NoError(t, TaskWeightTable{"a": 1}.Validate())
	assert.NoError(t, TaskWeightTable{"a": 1, "b": 0}.Validate())
	assert.Error(t, TaskWeightTable{"a": 0}.Validate(), "all-zero weights are invalid")
	assert.Error(t, TaskWeightTable{}.Validate())
	assert.Error(t, TaskWeightTable{"a": -1, "b": 2}.Validate())
}

func TestWeightedSelectionConvergesToConfiguredRatio(t *testing.T) {
	c, err := newChooser(TaskWeightTable{"a": 3, "b": 1})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	const draws = 100000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		counts[c.pick(rng)]++
	}

	ratio := float64(counts["a"]) / float64(counts["b"])
	assert.InDelta(t, 3.0, ratio, 0.15, "a:b should converge to 3:1")
}

func TestZeroWeightTasksAreNeverSelected(t *testing.T) {
	c, err := newChooser(TaskWeightTable{"on": 1, "off": 0})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		require.Equal(t, "on", c.pick(rng))
	}
}

func TestSingleTaskTableAlwaysSelectsIt(t *testing.T) {
	c, err := newChooser(TaskWeightTable{"only": 0.25})
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		assert.Equal(t, "only", c.pick(rng))
	}
}
