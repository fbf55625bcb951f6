package environment

// StateSpace implements the set of states an environment can be in
type StateSpace[S, A any] interface {
	// Sample returns a random member of the space
	Sample() S

	// Reachable returns the states visited by applying actions in
	// order from the space's starting state
	Reachable(actions []A) []S

	// Contains returns whether state is a member of the space
	Contains(state S) bool
}

// ActionSpace implements the set of actions that can be taken in an
// environment
type ActionSpace[S, A any] interface {
	// Sample returns a random member of the space
	Sample() A

	// Valid returns the actions that may be taken in state
	Valid(state S) []A

	// Contains returns whether action is a member of the space
	Contains(action A) bool
}
