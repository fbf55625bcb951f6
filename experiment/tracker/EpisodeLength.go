package tracker

import (
	"github.com/samuelfneumann/rlcore/timestep"
)

// EpisodeLength tracks and saves the number of steps taken in each
// episode of an experiment.
// Note that an episode must finish for this Tracker to save its data.
type EpisodeLength[S, A any] struct {
	steps          int
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength tracker which will save
// its data at the specified location filename
func NewEpisodeLength[S, A any](filename string) *EpisodeLength[S, A] {
	return &EpisodeLength[S, A]{filename: filename}
}

// Track counts the records reached by an action and caches the count
// when the episode ends
func (e *EpisodeLength[S, A]) Track(rec timestep.Record[S, A], last bool) {
	if rec.HasAction {
		e.steps++
	}
	if last {
		e.episodeLengths = append(e.episodeLengths, e.steps)
		e.steps = 0
	}
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength[S, A]) Data() []int {
	return e.episodeLengths
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength[S, A]) Save() error {
	return save(e.filename, e.episodeLengths)
}
