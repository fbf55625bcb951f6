// Package sampler implements strategies for selecting an action from
// a list of candidate actions, either by an ε-greedy coin flip over a
// greedy choice and a uniform choice, or by deferring to a policy
package sampler

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/rlcore/agent"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// resolution is the number of distinct values the ε coin flip can take
const resolution = 1_000_000

var (
	// ErrEpsilonOutOfBounds is returned when an ε-greedy strategy is
	// used with ε outside [0, 1]
	ErrEpsilonOutOfBounds = errors.New("epsilon is outside the [0.0, 1.0] " +
		"interval")

	// ErrNoValidActionsProvided is returned when a greedy choice is made
	// over an empty list of candidate actions
	ErrNoValidActionsProvided = errors.New("an empty list of valid actions " +
		"was provided to the action sampler")

	// ErrSamplingSourceExhausted is returned when a uniform choice is
	// made over an empty list of candidate actions
	ErrSamplingSourceExhausted = errors.New("uniform choice over an empty " +
		"collection")

	// ErrNilPolicy is returned when a strategy needs a policy and none
	// was given
	ErrNilPolicy = errors.New("strategy requires a policy")
)

// Kind determines how a Strategy selects actions
type Kind int

const (
	// Custom strategies delegate to the policy's own Sample method
	Custom Kind = iota

	// EpsilonGreedy strategies flip an ε coin between a greedy choice
	// and a uniform choice
	EpsilonGreedy
)

func (k Kind) String() string {
	switch k {
	case EpsilonGreedy:
		return "EpsilonGreedy"
	default:
		return "Custom"
	}
}

// GreedyMode determines what an ε-greedy strategy is greedy with
// respect to
type GreedyMode int

const (
	// Reward is greedy with respect to the reward of the state reached
	// by a one-step lookahead through the transition function
	Reward GreedyMode = iota

	// Policy is greedy with respect to the policy's Prob
	Policy
)

func (m GreedyMode) String() string {
	switch m {
	case Policy:
		return "Policy"
	default:
		return "Reward"
	}
}

// Strategy selects one action from a list of candidate actions.
//
// The zero value is a Custom strategy. Strategies are values; copies
// of an ε-greedy Strategy share its random source.
type Strategy[S, A any] struct {
	kind    Kind
	epsilon float32
	mode    GreedyMode

	src rand.Source
	rng *rand.Rand
}

// NewEpsilonGreedy returns an ε-greedy Strategy in the given mode with
// a random source seeded by seed. The value of epsilon is checked each
// time the Strategy samples, not here.
func NewEpsilonGreedy[S, A any](epsilon float32, mode GreedyMode,
	seed uint64) Strategy[S, A] {
	s := Strategy[S, A]{
		kind:    EpsilonGreedy,
		epsilon: epsilon,
		mode:    mode,
	}
	return s.WithSource(rand.NewSource(seed))
}

// NewCustom returns a Strategy which defers to the policy
func NewCustom[S, A any]() Strategy[S, A] {
	return Strategy[S, A]{kind: Custom}
}

// WithSource returns a copy of the Strategy drawing from src
func (s Strategy[S, A]) WithSource(src rand.Source) Strategy[S, A] {
	s.src = src
	s.rng = rand.New(src)
	return s
}

// Kind returns the kind of the Strategy
func (s Strategy[S, A]) Kind() Kind {
	return s.kind
}

// Epsilon returns the ε of an ε-greedy Strategy
func (s Strategy[S, A]) Epsilon() float32 {
	return s.epsilon
}

// Mode returns the greedy mode of an ε-greedy Strategy
func (s Strategy[S, A]) Mode() GreedyMode {
	return s.mode
}

// Validate returns an error if the Strategy cannot sample
func (s Strategy[S, A]) Validate() error {
	if s.kind != EpsilonGreedy {
		return nil
	}
	if !(s.epsilon >= 0.0 && s.epsilon <= 1.0) {
		return fmt.Errorf("validate: %w: ε = %v", ErrEpsilonOutOfBounds,
			s.epsilon)
	}
	if s.rng == nil {
		return fmt.Errorf("validate: ε-greedy strategy has no random source")
	}
	return nil
}

func (s Strategy[S, A]) String() string {
	if s.kind == EpsilonGreedy {
		return fmt.Sprintf("%v(ε=%v, %v)", s.kind, s.epsilon, s.mode)
	}
	return s.kind.String()
}

// Sample selects an action in state from valid.
//
// A Custom Strategy returns p.Sample(state, valid) and nothing else.
//
// An ε-greedy Strategy first checks that ε is in [0, 1], then draws a
// uniform fraction u in [0, 1) with a resolution of 1e-6. If u < ε
// the greedy action is returned: in Reward mode the action maximizing
// reward(transition(state, a)), in Policy mode the action maximizing
// p.Prob(state, a). Ties go to the action listed first. Otherwise an
// action is chosen uniformly at random from valid.
func (s Strategy[S, A]) Sample(p agent.Policy[S, A], state S, valid []A,
	reward agent.RewardFunc[S],
	transition agent.TransitionFunc[S, A]) (A, error) {
	var zero A

	if s.kind == Custom {
		if p == nil {
			return zero, fmt.Errorf("sample: %w", ErrNilPolicy)
		}
		return p.Sample(state, valid), nil
	}

	if !(s.epsilon >= 0.0 && s.epsilon <= 1.0) {
		return zero, fmt.Errorf("sample: %w: ε = %v", ErrEpsilonOutOfBounds,
			s.epsilon)
	}

	u := float32(s.rng.Int63n(resolution)) / resolution
	if u < s.epsilon {
		switch s.mode {
		case Policy:
			if p == nil {
				return zero, fmt.Errorf("sample: %w", ErrNilPolicy)
			}
			return greedy(valid, func(a A) float32 {
				return p.Prob(state, a)
			})

		default:
			return greedy(valid, func(a A) float32 {
				return reward(transition(state, a))
			})
		}
	}

	return s.uniform(valid)
}

// greedy returns the first action in actions with the largest value
func greedy[A any](actions []A, value func(A) float32) (A, error) {
	if len(actions) == 0 {
		var zero A
		return zero, fmt.Errorf("greedy: %w", ErrNoValidActionsProvided)
	}

	out := actions[0]
	max := value(out)
	for _, a := range actions[1:] {
		if v := value(a); v > max {
			max = v
			out = a
		}
	}
	return out, nil
}

// uniform returns an action chosen uniformly at random from actions
func (s Strategy[S, A]) uniform(actions []A) (A, error) {
	var zero A
	if len(actions) == 0 {
		return zero, fmt.Errorf("uniform: %w", ErrSamplingSourceExhausted)
	}

	weights := make([]float64, len(actions))
	for i := range weights {
		weights[i] = 1.0
	}

	i, ok := sampleuv.NewWeighted(weights, s.src).Take()
	if !ok {
		return zero, fmt.Errorf("uniform: %w", ErrSamplingSourceExhausted)
	}
	return actions[i], nil
}
