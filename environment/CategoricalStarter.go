package environment

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Starter implements a distribution of starting states and samples
// starting states for episodes
type Starter[S any] interface {
	Start() S
}

// SingleStart is a Starter which always returns the same state
type SingleStart[S any] struct {
	state S
}

// NewSingleStart returns a Starter which always starts in state
func NewSingleStart[S any](state S) SingleStart[S] {
	return SingleStart[S]{state}
}

// Start returns the starting state
func (s SingleStart[S]) Start() S {
	return s.state
}

// CategoricalStarter returns starting states sampled from a categorical
// distribution over a fixed list of states.
type CategoricalStarter[S any] struct {
	states []S
	seed   uint64
	rand   distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// states[i] with probability proportional to weights[i]. If weights is
// nil, states are sampled uniformly.
func NewCategoricalStarter[S any](states []S, weights []float64,
	seed uint64) (*CategoricalStarter[S], error) {
	if len(states) == 0 {
		return nil, fmt.Errorf("newCategoricalStarter: no states to start in")
	}

	if weights == nil {
		// Create the weights for the uniform categorical distribution
		weights = make([]float64, len(states))
		for i := range weights {
			weights[i] = 1.0 / float64(len(weights))
		}
	}
	if len(weights) != len(states) {
		return nil, fmt.Errorf("newCategoricalStarter: have %d weights for "+
			"%d states", len(weights), len(states))
	}
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("newCategoricalStarter: negative weight "+
				"%v", w)
		}
	}

	source := rand.NewSource(seed)
	return &CategoricalStarter[S]{
		states: states,
		seed:   seed,
		rand:   distuv.NewCategorical(weights, source),
	}, nil
}

// Start returns a starting state
func (c *CategoricalStarter[S]) Start() S {
	return c.states[int(c.rand.Rand())]
}
