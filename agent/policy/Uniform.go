package policy

import (
	"github.com/samuelfneumann/rlcore/environment"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Uniform selects among the valid actions uniformly at random
type Uniform[S any, A comparable] struct {
	actions environment.ActionSpace[S, A]
	seed    rand.Source
}

// NewUniform returns a new Uniform policy over actions
func NewUniform[S any, A comparable](actions environment.ActionSpace[S, A],
	seed uint64) *Uniform[S, A] {
	return &Uniform[S, A]{actions, rand.NewSource(seed)}
}

// Sample selects one of actions uniformly. If actions is empty, the
// zero action is returned.
func (u *Uniform[S, A]) Sample(_ S, actions []A) A {
	if len(actions) == 0 {
		var zero A
		return zero
	}

	weights := make([]float64, len(actions))
	for i := range weights {
		weights[i] = 1
	}
	i, _ := sampleuv.NewWeighted(weights, u.seed).Take()
	return actions[i]
}

// Prob returns 1/n for each of the n actions valid in state and 0 for
// any other action
func (u *Uniform[S, A]) Prob(state S, action A) float32 {
	valid := u.actions.Valid(state)
	for _, a := range valid {
		if a == action {
			return 1 / float32(len(valid))
		}
	}
	return 0
}
