// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/rlcore/timestep"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker[S, A any] interface {
	// Track caches the data of rec. If last, rec is the final record of
	// its episode.
	Track(rec timestep.Record[S, A], last bool)

	// Save saves all tracked data to disk
	Save() error
}

// save gob-encodes data to a newly created file at filename
func save(filename string, data any) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	en := gob.NewEncoder(file)
	if err := en.Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Tracker. T must match
// the element type the Tracker saves: float64 for Return and int for
// EpisodeLength.
func LoadData[T any](filename string) ([]T, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []T
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}

	return data, nil
}
