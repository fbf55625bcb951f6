package tracker

import (
	"fmt"

	"github.com/samuelfneumann/rlcore/timestep"
)

// AverageReward tracks an exponential moving average of the reward per
// step across an experiment:
//
//	avgReward <- avgReward + learningRate * (reward - avgReward)
//
// The estimate at the end of each episode is saved. Records which carry
// no action do not update the estimate.
type AverageReward[S, A any] struct {
	avgReward    float64
	learningRate float64
	estimates    []float64
	filename     string
}

// NewAverageReward creates and returns a new *AverageReward Tracker
// starting at init which saves to filename
func NewAverageReward[S, A any](init, learningRate float64,
	filename string) (*AverageReward[S, A], error) {
	if !(learningRate > 0 && learningRate <= 1) {
		return nil, fmt.Errorf("newAverageReward: learning rate must be in "+
			"(0, 1], have %v", learningRate)
	}

	return &AverageReward[S, A]{
		avgReward:    init,
		learningRate: learningRate,
		filename:     filename,
	}, nil
}

// Track updates the average reward with the reward of rec
func (a *AverageReward[S, A]) Track(rec timestep.Record[S, A], last bool) {
	if rec.HasAction {
		a.avgReward += a.learningRate * (float64(rec.Reward) - a.avgReward)
	}
	if last {
		a.estimates = append(a.estimates, a.avgReward)
	}
}

// Current returns the current estimate of the average reward
func (a *AverageReward[S, A]) Current() float64 {
	return a.avgReward
}

// Data returns the estimates at the end of each finished episode
func (a *AverageReward[S, A]) Data() []float64 {
	return a.estimates
}

// Save saves the data tracked by the AverageReward Tracker to disk
func (a *AverageReward[S, A]) Save() error {
	return save(a.filename, a.estimates)
}
