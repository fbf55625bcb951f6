// Package policy implements tabular policies over the actions an
// environment's action space reports as valid
package policy

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/rlcore/critic"
	"github.com/samuelfneumann/rlcore/environment"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Softmax implements a Boltzmann policy over the estimates of an
// action-value critic. The probability of an action is proportional to
// exp(Q(s, a) / τ) over the actions valid in s.
type Softmax[S any, A comparable] struct {
	values      critic.ActionValue[S, A]
	actions     environment.ActionSpace[S, A]
	temperature float64
	seed        rand.Source
}

// NewSoftmax returns a new Softmax policy with temperature τ > 0
func NewSoftmax[S any, A comparable](values critic.ActionValue[S, A],
	actions environment.ActionSpace[S, A], temperature float64,
	seed uint64) (*Softmax[S, A], error) {
	if temperature <= 0 {
		return nil, fmt.Errorf("newSoftmax: temperature must be positive, "+
			"have %v", temperature)
	}
	if values == nil || actions == nil {
		return nil, fmt.Errorf("newSoftmax: critic and action space must be " +
			"non-nil")
	}

	return &Softmax[S, A]{
		values:      values,
		actions:     actions,
		temperature: temperature,
		seed:        rand.NewSource(seed),
	}, nil
}

// probabilities returns the softmax probabilities of actions in state
func (p *Softmax[S, A]) probabilities(state S, actions []A) []float64 {
	probs := make([]float64, len(actions))
	for i, a := range actions {
		probs[i] = p.values.QValue(state, a) / p.temperature
	}

	// Shift by the maximum for numerical stability
	max := floats.Max(probs)
	for i := range probs {
		probs[i] = math.Exp(probs[i] - max)
	}
	floats.Scale(1/floats.Sum(probs), probs)

	return probs
}

// Sample samples one of actions in state. If actions is empty, the
// zero action is returned.
func (p *Softmax[S, A]) Sample(state S, actions []A) A {
	if len(actions) == 0 {
		var zero A
		return zero
	}

	dist := distuv.NewCategorical(p.probabilities(state, actions), p.seed)
	return actions[int(dist.Rand())]
}

// Prob returns the probability of taking action in state. Actions
// which are not valid in state have probability 0.
func (p *Softmax[S, A]) Prob(state S, action A) float32 {
	valid := p.actions.Valid(state)
	for i, a := range valid {
		if a == action {
			return float32(p.probabilities(state, valid)[i])
		}
	}
	return 0
}

// Temperature returns the policy's temperature
func (p *Softmax[S, A]) Temperature() float64 {
	return p.temperature
}
