package checkpointer

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/samuelfneumann/rlcore/timestep"
)

// NStep implements checkpointing every N records
type NStep[S, A any] struct {
	interval int
	buffer   []timestep.Record[S, A]
	saved    []string

	// filename returns the string filename of the file to save the next
	// checkpoint in.
	//
	// If each checkpoint should be saved in a separate file with each
	// file having an incremented number as a suffix (e.g. file0001.bin,
	// file0002.bin, ..., fileK.bin), then simply use the static function
	// FilenameEnumerator. Otherwise, if the filename does not matter,
	// use the static function FileTimer. For example:
	//
	// n := NewNStep[S, A](10, FileTimer("dir", "records", ".bin"))
	filename func() string
}

// NewNStep returns a checkpointer that saves the records it receives
// once every n records
func NewNStep[S, A any](n int, filename func() string) (*NStep[S, A],
	error) {
	if n < 1 {
		return nil, fmt.Errorf("newNStep: interval must be positive, have %d",
			n)
	}
	if filename == nil {
		return nil, fmt.Errorf("newNStep: nil filename function")
	}

	return &NStep[S, A]{
		interval: n,
		buffer:   make([]timestep.Record[S, A], 0, n),
		filename: filename,
	}, nil
}

// Checkpoint buffers records and saves each full run of n records to
// its own file
func (n *NStep[S, A]) Checkpoint(records []timestep.Record[S, A]) error {
	for _, rec := range records {
		n.buffer = append(n.buffer, rec)
		if len(n.buffer) >= n.interval {
			if err := n.save(); err != nil {
				return fmt.Errorf("checkpoint: %w", err)
			}
		}
	}
	return nil
}

// Flush saves any buffered records to a file, even if fewer than n
func (n *NStep[S, A]) Flush() error {
	if len(n.buffer) == 0 {
		return nil
	}
	if err := n.save(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Saved returns the names of the files written so far
func (n *NStep[S, A]) Saved() []string {
	return n.saved
}

func (n *NStep[S, A]) save() error {
	filename := n.filename()
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create checkpoint: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(n.buffer); err != nil {
		return fmt.Errorf("could not encode checkpoint: %w", err)
	}

	n.saved = append(n.saved, filename)
	n.buffer = n.buffer[:0]
	return nil
}
