package agent

// RewardFunc maps a state to the scalar reward received in it. Reward
// functions must be pure.
type RewardFunc[S any] func(state S) float32

// TransitionFunc maps a state and an action taken in it to the next
// state. Transition functions must be pure.
type TransitionFunc[S, A any] func(state S, action A) S
