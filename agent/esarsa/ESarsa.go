// Package esarsa implements linear Expected Sarsa with a softmax
// behaviour policy and an epsilon-greedy target policy
package esarsa

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/agent/policy"
	"github.com/samuelfneumann/rlcore/critic"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/timestep"
	"github.com/samuelfneumann/rlcore/utils/matutils"
)

// ESarsa implements the online, linear Expected Sarsa algorithm. Action
// values are linear in the features of states, and the update target
// is the expected value of the next state under an epsilon-greedy
// target policy.
type ESarsa[S any, A comparable] struct {
	*policy.Softmax[S, A]
	q        *critic.Linear[S, A]
	actions  environment.ActionSpace[S, A]
	targetE  float64
	discount float64
}

var _ agent.Learner[int, int] = &ESarsa[int, int]{}

// New creates a new ESarsa agent acting in actions, holding weights
// for each of all. States are represented by features.
func New[S any, A comparable](actions environment.ActionSpace[S, A],
	all []A, features critic.Featurizer[S], c Config, discount float32,
	seed uint64) (*ESarsa[S, A], error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if !(discount >= 0 && discount <= 1) {
		return nil, fmt.Errorf("new: discount %v outside [0, 1]", discount)
	}

	q, err := critic.NewLinear[S, A](features, all, c.LearningRate)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	behaviour, err := policy.NewSoftmax[S, A](q, actions, c.Temperature, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &ESarsa[S, A]{
		Softmax:  behaviour,
		q:        q,
		actions:  actions,
		targetE:  c.TargetE,
		discount: float64(discount),
	}, nil
}

// targetProbabilities returns the probabilities of the target policy
// for actions with values actionValues
func (e *ESarsa[S, A]) targetProbabilities(actionValues mat.Vector) mat.Vector {
	prob := make([]float64, actionValues.Len())
	epsProb := e.targetE / float64(actionValues.Len())

	// Calculate the ε probability of taking each action
	for i := range prob {
		prob[i] = epsProb
	}
	maxAction := matutils.MaxVec(actionValues)
	prob[maxAction] += (1.0 - e.targetE)

	return mat.NewVecDense(len(prob), prob)
}

// Observe performs the Expected Sarsa update for taking rec.Action in
// prev and reaching rec.NewState. Records without an action are
// ignored.
func (e *ESarsa[S, A]) Observe(prev S, rec timestep.Record[S, A],
	terminal bool) error {
	if !rec.HasAction {
		return nil
	}

	target := float64(rec.Reward)
	next := e.actions.Valid(rec.NewState)
	if !terminal && len(next) > 0 {
		values := make([]float64, len(next))
		for i, a := range next {
			values[i] = e.q.QValue(rec.NewState, a)
		}
		actionValues := mat.NewVecDense(len(values), values)

		expectedQ := mat.Dot(e.targetProbabilities(actionValues), actionValues)
		target += e.discount * expectedQ
	}

	if err := e.q.Update(prev, rec.Action, target); err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	return nil
}

// Critic returns the agent's action-value estimates
func (e *ESarsa[S, A]) Critic() *critic.Linear[S, A] {
	return e.q
}

// Greedy returns the action with the highest estimate in state among
// the valid actions
func (e *ESarsa[S, A]) Greedy(state S) (A, error) {
	return e.q.Greedy(state, e.actions.Valid(state))
}
