// Package experiment implements functionality for running an experiment
package experiment

// Experiment outlines structs that can run experiments.
//
// Experiments step an environment with an agent's policy, sending each
// record to Trackers which cache the data they are interested in. The
// Save() function will then take all cached data and save it to disk.
// This is usually performed after an experiment has been run. The Run()
// method will run all episodes until the maximum step limit is reached.
// The RunEpisode() function will run a single episode.
//
// Records drained from the environment's journal, at episode ends or
// when the journal fills up, are handed to Checkpointers.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Save all tracked data to disk
	Save() error
}

// Type names a kind of experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)
