// Package qlearning implements tabular Q-Learning with a softmax
// behaviour policy over the learned action values
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/agent/policy"
	"github.com/samuelfneumann/rlcore/critic"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/timestep"
)

// QLearning implements the Q-Learning algorithm. Its Policy is a
// softmax over the current action-value estimates, so that an
// epsilon-greedy sampling strategy in Policy mode picks the action with
// the highest estimate.
type QLearning[S, A comparable] struct {
	*policy.Softmax[S, A]
	q        *critic.Tabular[S, A]
	actions  environment.ActionSpace[S, A]
	discount float64
}

var _ agent.Learner[int, int] = &QLearning[int, int]{}

// New creates a new QLearning agent acting in actions
func New[S, A comparable](actions environment.ActionSpace[S, A], c Config,
	discount float32, seed uint64) (*QLearning[S, A], error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if !(discount >= 0 && discount <= 1) {
		return nil, fmt.Errorf("new: discount %v outside [0, 1]", discount)
	}

	q, err := critic.NewTabular[S, A](c.LearningRate, c.InitialValue)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	behaviour, err := policy.NewSoftmax[S, A](q, actions, c.Temperature, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &QLearning[S, A]{
		Softmax:  behaviour,
		q:        q,
		actions:  actions,
		discount: float64(discount),
	}, nil
}

// Observe performs the Q-Learning update for taking rec.Action in prev
// and reaching rec.NewState. Records without an action are ignored.
func (q *QLearning[S, A]) Observe(prev S, rec timestep.Record[S, A],
	terminal bool) error {
	if !rec.HasAction {
		return nil
	}

	target := float64(rec.Reward)
	if !terminal {
		// A state with no valid actions has no future value
		if next := q.actions.Valid(rec.NewState); len(next) > 0 {
			max, err := critic.Max[S, A](q.q, rec.NewState, next)
			if err != nil {
				return fmt.Errorf("observe: %w", err)
			}
			target += q.discount * max
		}
	}

	if err := q.q.Update(prev, rec.Action, target); err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	return nil
}

// Critic returns the agent's action-value estimates
func (q *QLearning[S, A]) Critic() *critic.Tabular[S, A] {
	return q.q
}

// Greedy returns the action with the highest estimate in state among
// the valid actions
func (q *QLearning[S, A]) Greedy(state S) (A, error) {
	return q.q.Greedy(state, q.actions.Valid(state))
}
