// Package checkpointer implements Checkpointers, which save the records
// drained from an environment's journal so that the journal can keep
// running at a fixed capacity
package checkpointer

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/rlcore/timestep"
)

// Checkpointer checkpoints records drained from an environment's
// journal
type Checkpointer[S, A any] interface {
	// Checkpoint receives the next batch of drained records, oldest
	// first
	Checkpoint(records []timestep.Record[S, A]) error

	// Flush saves any records received but not yet saved
	Flush() error
}

// Load loads and returns the records saved in a checkpoint file
func Load[S, A any](filename string) ([]timestep.Record[S, A], error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("load: could not open checkpoint: %w", err)
	}
	defer file.Close()

	var records []timestep.Record[S, A]
	if err := gob.NewDecoder(file).Decode(&records); err != nil {
		return nil, fmt.Errorf("load: could not decode checkpoint: %w", err)
	}
	return records, nil
}
