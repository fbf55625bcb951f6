// Package critic implements estimates of state values, action values
// and advantages, and the greedy selection built on top of them
package critic

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActions is returned when a greedy choice is made from an
	// empty list of actions
	ErrNoActions = errors.New("no actions to choose from")

	// ErrStepSize is returned when a critic is created with a step size
	// outside (0, 1]
	ErrStepSize = errors.New("step size is outside the (0.0, 1.0] interval")
)

// Value estimates the value of states
type Value[S any] interface {
	Value(state S) float64
	Update(state S, target float64) error
}

// ActionValue estimates the value of taking actions in states
type ActionValue[S, A any] interface {
	QValue(state S, action A) float64
	Update(state S, action A, target float64) error
}

// Advantage estimates how much better an action is than the value of
// the state it is taken in
type Advantage[S, A any] interface {
	Advantage(state S, action A) float64
	Update(state S, action A, target float64) error
}

// Greedy returns the action with the highest value in state. Ties are
// broken in favour of the action listed first.
func Greedy[S, A any](q ActionValue[S, A], state S, actions []A) (A, error) {
	var best A
	if len(actions) == 0 {
		return best, fmt.Errorf("greedy: %w", ErrNoActions)
	}

	best = actions[0]
	bestValue := q.QValue(state, best)
	for _, a := range actions[1:] {
		if v := q.QValue(state, a); v > bestValue {
			best, bestValue = a, v
		}
	}
	return best, nil
}

// Max returns the highest value of the actions in state
func Max[S, A any](q ActionValue[S, A], state S, actions []A) (float64,
	error) {
	a, err := Greedy(q, state, actions)
	if err != nil {
		return 0, fmt.Errorf("max: %w", err)
	}
	return q.QValue(state, a), nil
}
