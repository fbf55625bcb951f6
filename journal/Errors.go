package journal

import (
	"errors"
	"fmt"
)

// Error implements errors unique to a journal. Op names the journal
// operation that failed and Index the record index it was addressing.
type Error struct {
	Op    string
	Index uint64
	Err   error
}

// Error satisifes the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%s [index %d]: %v", e.Op, e.Index, e.Err)
}

// Unwrap returns the underlying sentinel so that errors.Is can be used
// on journal errors
func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrNoData is returned when reading from an empty journal
	ErrNoData = errors.New("journal holds no data")

	// ErrFull is returned when appending to a journal whose slots are
	// all in use
	ErrFull = errors.New("journal storage exhausted")

	// ErrMisaligned is returned when a write does not address the next
	// free index, or when the record type cannot be laid out in
	// fixed-size slots
	ErrMisaligned = errors.New("journal write misaligned")

	// ErrCorrupt is returned when a slot cannot be decoded
	ErrCorrupt = errors.New("journal record corrupt")
)

// IsNoData returns whether or not an error reports that a journal was
// read while empty
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsFull returns whether or not an error reports that a journal has
// no room left for another record
func IsFull(err error) bool {
	return errors.Is(err, ErrFull)
}

// IsMisaligned returns whether or not an error reports a misaligned
// journal write
func IsMisaligned(err error) bool {
	return errors.Is(err, ErrMisaligned)
}
