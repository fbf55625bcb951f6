package environment

// Ender determines when an episode ends
type Ender[S any] interface {
	// End returns whether an episode which has taken steps steps and
	// reached state should end
	End(state S, steps int) bool
}

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit[S any] struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit[S any](episodeSteps int) StepLimit[S] {
	return StepLimit[S]{episodeSteps}
}

// End determines whether or not the current episode should be ended
func (s StepLimit[S]) End(_ S, steps int) bool {
	return steps >= s.episodeSteps
}
