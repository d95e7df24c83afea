package loadtest

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// TaskWeightTable maps task names to relative selection weights. Weights
// must be non-negative and at least one must be positive; zero-weight tasks
// are never selected.
type TaskWeightTable map[string]float64

func (t TaskWeightTable) Validate() error {
	anyPositive := false
	for name, w := range t {
		if w < 0 {
			return fmt.Errorf("task %q has negative weight %v", name, w)
		}
		if w > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return errors.New("task weight table has no positive weights")
	}
	return nil
}

// chooser performs cumulative-weight draws over the positive entries of a
// weight table. Names are sorted so a seeded draw sequence is reproducible.
type chooser struct {
	names []string
	cum   []float64
	total float64
}

func newChooser(table TaskWeightTable) (*chooser, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(table))
	for name, w := range table {
		if w > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	c := &chooser{names: names, cum: make([]float64, 0, len(names))}
	for _, name := range names {
		c.total += table[name]
		c.cum = append(c.cum, c.total)
	}
	return c, nil
}

func (c *chooser) pick(rng *rand.Rand) string {
	x := rng.Float64() * c.total
	i := sort.SearchFloat64s(c.cum, x)
	if i >= len(c.names) {
		i = len(c.names) - 1
	}
	return c.names[i]
}
