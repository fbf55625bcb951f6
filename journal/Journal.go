// Package journal implements a fixed-capacity, append-only log of
// fixed-size records addressed by a monotonically increasing index
package journal

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// byteOrder is the byte order records are laid out in
var byteOrder = binary.LittleEndian

// WriteOption configures a single call to Journal.Write
type WriteOption func(*writeOptions)

type writeOptions struct {
	overwrite bool
}

// Overwrite allows Write to replace a record which is still retained
// in the journal. Without it, only the next free index may be written.
func Overwrite() WriteOption {
	return func(o *writeOptions) {
		o.overwrite = true
	}
}

// Journal implements a log of records of type T stored in a single,
// fixed-size byte arena. The arena is split into slots of the encoded
// size of T; no growth happens after construction.
//
// Records are addressed by index. The journal retains the records with
// index in [Base(), Next()), oldest first, and the record at Next()-1
// is the latest one. Draining the journal with Cleanup empties it; the
// next write may then start at any index which is not below the last
// index that was drained.
//
// A Journal is not safe for concurrent use.
type Journal[T any] struct {
	arena      []byte
	recordSize int
	slots      int

	base  uint64 // index of the record in slot 0
	count int    // number of retained records
	floor uint64 // lowest index an empty journal accepts

	scratch bytes.Buffer
}

// New creates and returns a new Journal with an arena of capacityBytes
// bytes. The journal can hold capacityBytes / size(T) records.
func New[T any](capacityBytes int) (*Journal[T], error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 {
		return nil, &Error{
			Op:  "new",
			Err: fmt.Errorf("%w: %T is not fixed-size", ErrMisaligned, zero),
		}
	}

	slots := capacityBytes / size
	if slots < 1 {
		return nil, &Error{
			Op: "new",
			Err: fmt.Errorf("%w: capacity of %d bytes cannot hold a "+
				"record of %d bytes", ErrMisaligned, capacityBytes, size),
		}
	}

	return &Journal[T]{
		arena:      make([]byte, slots*size),
		recordSize: size,
		slots:      slots,
	}, nil
}

// Len returns the number of records currently retained
func (j *Journal[T]) Len() int {
	return j.count
}

// Cap returns the maximum number of records the journal can retain
func (j *Journal[T]) Cap() int {
	return j.slots
}

// RecordSize returns the encoded size of a single record in bytes
func (j *Journal[T]) RecordSize() int {
	return j.recordSize
}

// Base returns the index of the oldest retained record
func (j *Journal[T]) Base() uint64 {
	return j.base
}

// Next returns the index that the next appended record will have
func (j *Journal[T]) Next() uint64 {
	return j.base + uint64(j.count)
}

// Empty returns whether the journal retains no records
func (j *Journal[T]) Empty() bool {
	return j.count == 0
}

// slot returns the bytes of slot i
func (j *Journal[T]) slot(i int) []byte {
	start := i * j.recordSize
	return j.arena[start : start+j.recordSize]
}

// Write writes rec at the given index. Appending at Next() is always
// allowed while slots remain; replacing a retained record requires the
// Overwrite option. Any other index is misaligned.
func (j *Journal[T]) Write(rec T, index uint64, opts ...WriteOption) error {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var slot int
	switch {
	case j.count == 0:
		if index < j.floor {
			return &Error{
				Op:    "write",
				Index: index,
				Err: fmt.Errorf("%w: index below last drained index %d",
					ErrMisaligned, j.floor),
			}
		}
		j.base = index
		slot = 0

	case index == j.Next():
		if j.count >= j.slots {
			return &Error{Op: "write", Index: index, Err: ErrFull}
		}
		slot = j.count

	case index >= j.base && index < j.Next():
		if !o.overwrite {
			return &Error{
				Op:    "write",
				Index: index,
				Err: fmt.Errorf("%w: index already written, next is %d",
					ErrMisaligned, j.Next()),
			}
		}
		slot = int(index - j.base)

	default:
		return &Error{
			Op:    "write",
			Index: index,
			Err: fmt.Errorf("%w: retained indices are [%d, %d)",
				ErrMisaligned, j.base, j.Next()),
		}
	}

	j.scratch.Reset()
	if err := binary.Write(&j.scratch, byteOrder, rec); err != nil {
		return &Error{Op: "write", Index: index, Err: err}
	}
	copy(j.slot(slot), j.scratch.Bytes())

	if slot == j.count {
		j.count++
	}
	return nil
}

// read decodes the record in slot i
func (j *Journal[T]) read(i int) (T, error) {
	var rec T
	err := binary.Read(bytes.NewReader(j.slot(i)), byteOrder, &rec)
	if err != nil {
		return rec, &Error{
			Op:    "read",
			Index: j.base + uint64(i),
			Err:   fmt.Errorf("%w: %v", ErrCorrupt, err),
		}
	}
	return rec, nil
}

// ReadLatest returns the record with the highest written index
func (j *Journal[T]) ReadLatest() (T, error) {
	if j.count == 0 {
		var zero T
		return zero, &Error{Op: "readLatest", Index: j.floor, Err: ErrNoData}
	}
	return j.read(j.count - 1)
}

// ReadAll returns all retained records, oldest first
func (j *Journal[T]) ReadAll() ([]T, error) {
	records := make([]T, j.count)
	for i := range records {
		rec, err := j.read(i)
		if err != nil {
			return nil, err
		}
		records[i] = rec
	}
	return records, nil
}

// Cleanup removes and returns all retained records, oldest first. The
// journal is empty afterwards.
func (j *Journal[T]) Cleanup() ([]T, error) {
	records, err := j.ReadAll()
	if err != nil {
		return nil, err
	}

	if j.count > 0 {
		j.floor = j.Next() - 1
	}
	j.base = j.floor
	j.count = 0
	for i := range j.arena {
		j.arena[i] = 0
	}

	return records, nil
}

// String returns the string representation of the journal
func (j *Journal[T]) String() string {
	return fmt.Sprintf("Journal | Records: %d/%d  |  Record Size: %d  |  "+
		"Indices: [%d, %d)", j.count, j.slots, j.recordSize, j.base, j.Next())
}
