package critic

import (
	"fmt"
)

type pair[S, A comparable] struct {
	state  S
	action A
}

// Tabular is an ActionValue which stores one estimate per state-action
// pair. Pairs which were never updated have the initial value.
type Tabular[S, A comparable] struct {
	values   map[pair[S, A]]float64
	stepSize float64
	initial  float64
}

// NewTabular returns a new Tabular action-value critic which moves its
// estimates towards update targets by stepSize
func NewTabular[S, A comparable](stepSize, initial float64) (*Tabular[S, A],
	error) {
	if !(stepSize > 0 && stepSize <= 1) {
		return nil, fmt.Errorf("newTabular: %w: α = %v", ErrStepSize, stepSize)
	}

	return &Tabular[S, A]{
		values:   make(map[pair[S, A]]float64),
		stepSize: stepSize,
		initial:  initial,
	}, nil
}

// QValue returns the estimated value of taking action in state
func (t *Tabular[S, A]) QValue(state S, action A) float64 {
	if v, ok := t.values[pair[S, A]{state, action}]; ok {
		return v
	}
	return t.initial
}

// Update moves the estimate of taking action in state towards target
func (t *Tabular[S, A]) Update(state S, action A, target float64) error {
	q := t.QValue(state, action)
	t.values[pair[S, A]{state, action}] = q + t.stepSize*(target-q)
	return nil
}

// Greedy returns the action with the highest estimate in state, ties
// going to the action listed first
func (t *Tabular[S, A]) Greedy(state S, actions []A) (A, error) {
	return Greedy[S, A](t, state, actions)
}

// Len returns the number of state-action pairs with an estimate
func (t *Tabular[S, A]) Len() int {
	return len(t.values)
}

func (t *Tabular[S, A]) String() string {
	return fmt.Sprintf("Tabular | Pairs: %d  |  α: %v", len(t.values),
		t.stepSize)
}
