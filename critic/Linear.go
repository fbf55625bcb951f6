package critic

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrUnknownAction is returned when a linear critic is updated for an
// action it holds no weights for
var ErrUnknownAction = errors.New("unknown action")

// Featurizer maps states to feature vectors of a fixed length
type Featurizer[S any] interface {
	Features(state S) mat.Vector
	Len() int
}

// Linear is an ActionValue which estimates the value of an action in a
// state as the dot product of the state's features with a weight
// vector for that action.
type Linear[S any, A comparable] struct {
	features Featurizer[S]
	weights  *mat.Dense // one row of weights per action
	actions  []A
	index    map[A]int
	stepSize float64
}

// NewLinear returns a new Linear critic with zero weights for each of
// actions. Updates move estimates towards their targets by stepSize.
func NewLinear[S any, A comparable](features Featurizer[S], actions []A,
	stepSize float64) (*Linear[S, A], error) {
	if !(stepSize > 0 && stepSize <= 1) {
		return nil, fmt.Errorf("newLinear: %w: α = %v", ErrStepSize, stepSize)
	}
	if len(actions) == 0 {
		return nil, fmt.Errorf("newLinear: %w", ErrNoActions)
	}
	if features == nil || features.Len() < 1 {
		return nil, fmt.Errorf("newLinear: need at least one feature")
	}

	index := make(map[A]int, len(actions))
	for i, a := range actions {
		if _, ok := index[a]; ok {
			return nil, fmt.Errorf("newLinear: duplicate action %v", a)
		}
		index[a] = i
	}

	return &Linear[S, A]{
		features: features,
		weights:  mat.NewDense(len(actions), features.Len(), nil),
		actions:  append([]A(nil), actions...),
		index:    index,
		stepSize: stepSize,
	}, nil
}

// QValue returns the estimated value of taking action in state. An
// action without weights has value 0.
func (l *Linear[S, A]) QValue(state S, action A) float64 {
	i, ok := l.index[action]
	if !ok {
		return 0
	}
	return mat.Dot(l.weights.RowView(i), l.features.Features(state))
}

// ActionValues returns the estimated value of each action in state, in
// the order of Actions()
func (l *Linear[S, A]) ActionValues(state S) *mat.VecDense {
	values := mat.NewVecDense(len(l.actions), nil)
	values.MulVec(l.weights, l.features.Features(state))
	return values
}

// Update performs a normalized semi-gradient step moving the estimate
// of taking action in state towards target. The step is scaled by the
// squared norm of the state's features, so that a step size of 1 moves
// the estimate onto the target.
func (l *Linear[S, A]) Update(state S, action A, target float64) error {
	i, ok := l.index[action]
	if !ok {
		return fmt.Errorf("update: %w: %v", ErrUnknownAction, action)
	}

	x := l.features.Features(state)
	norm := mat.Dot(x, x)
	if norm == 0 {
		return nil
	}

	weights := l.weights.RowView(i)
	scale := l.stepSize * (target - mat.Dot(weights, x)) / norm

	newWeights := mat.NewVecDense(weights.Len(), nil)
	newWeights.AddScaledVec(weights, scale, x)
	l.weights.SetRow(i, newWeights.RawVector().Data)
	return nil
}

// Greedy returns the action with the highest estimate in state, ties
// going to the action listed first
func (l *Linear[S, A]) Greedy(state S, actions []A) (A, error) {
	return Greedy[S, A](l, state, actions)
}

// Actions returns the actions the critic holds weights for
func (l *Linear[S, A]) Actions() []A {
	return l.actions
}

// Weights returns the weights of the critic, one row per action
func (l *Linear[S, A]) Weights() *mat.Dense {
	return l.weights
}

func (l *Linear[S, A]) String() string {
	return fmt.Sprintf("Linear | Actions: %d  |  Features: %d  |  α: %v",
		len(l.actions), l.features.Len(), l.stepSize)
}
