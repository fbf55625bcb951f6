package timestep

// Transition packages together the state an action was taken in, the
// action, the reward received and the state reached
type Transition[S, A any] struct {
	State     S
	Action    A
	Reward    float32
	NextState S
	Terminal  bool
}

// Transitions returns the transitions between consecutive records of
// a trajectory, oldest first. A record without an action starts a new
// trajectory and does not end a transition. If terminal is non-nil, it
// marks transitions into the states it returns true for.
func Transitions[S, A any](records []Record[S, A],
	terminal func(S) bool) []Transition[S, A] {
	if len(records) < 2 {
		return nil
	}

	out := make([]Transition[S, A], 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		if !rec.HasAction {
			continue
		}
		out = append(out, Transition[S, A]{
			State:     records[i-1].NewState,
			Action:    rec.Action,
			Reward:    rec.Reward,
			NextState: rec.NewState,
			Terminal:  terminal != nil && terminal(rec.NewState),
		})
	}
	return out
}
