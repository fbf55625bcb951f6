// Package agent defines the policy interface that environments and
// sampling strategies consume, and the learner interface experiments
// drive
package agent

import "github.com/samuelfneumann/rlcore/timestep"

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A Policy samples an
// action for a state from a list of candidate actions and reports a
// likelihood score for taking an action in a state. Scores must be
// non-negative but need not be normalized across the candidates.
type Policy[S, A any] interface {
	// Sample selects an action in state from the candidate actions
	Sample(state S, actions []A) A

	// Prob returns the probability (or likelihood score) of taking
	// action in state
	Prob(state S, action A) float32
}

// PolicyFunc adapts a pair of functions to the Policy interface
type PolicyFunc[S, A any] struct {
	SampleFn func(S, []A) A
	ProbFn   func(S, A) float32
}

// Sample implements the Policy interface
func (p PolicyFunc[S, A]) Sample(state S, actions []A) A {
	return p.SampleFn(state, actions)
}

// Prob implements the Policy interface
func (p PolicyFunc[S, A]) Prob(state S, action A) float32 {
	if p.ProbFn == nil {
		return 0
	}
	return p.ProbFn(state, action)
}

// Learner is an agent which learns from the records of its interaction
// with an environment
type Learner[S, A any] interface {
	// Observe updates the learner with rec, reached by taking
	// rec.Action in prev. If terminal, rec ends the episode.
	Observe(prev S, rec timestep.Record[S, A], terminal bool) error
}
