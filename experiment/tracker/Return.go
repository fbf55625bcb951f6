package tracker

import (
	"github.com/samuelfneumann/rlcore/timestep"
)

// Return tracks and saves the discounted episodic return in an
// experiment. Records which carry no action, such as the first record
// of an episode, add nothing to the return.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return[S, A any] struct {
	discount       float64
	weight         float64
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker which discounts
// rewards by discount and saves to filename
func NewReturn[S, A any](discount float32, filename string) *Return[S, A] {
	return &Return[S, A]{
		discount: float64(discount),
		weight:   1,
		filename: filename,
	}
}

// Track accumulates the reward of rec into the return of the current
// episode. When last, the episode's return is cached and tracking of a
// new episode begins.
func (r *Return[S, A]) Track(rec timestep.Record[S, A], last bool) {
	if rec.HasAction {
		r.currentReturn += r.weight * float64(rec.Reward)
		r.weight *= r.discount
	}

	if last {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0
		r.weight = 1
	}
}

// Data returns the returns of all finished episodes
func (r *Return[S, A]) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return[S, A]) Save() error {
	return save(r.filename, r.episodeReturns)
}
