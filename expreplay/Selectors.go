package expreplay

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// SelectorType names a method of selecting data from a buffer
type SelectorType string

const (
	Uniform SelectorType = "Uniform"
	Fifo    SelectorType = "Fifo"
)

// indexer is the view of a cache that Selectors choose indices from
type indexer interface {
	// sampleFrom returns the indices which hold data
	sampleFrom() []int

	// insertOrder returns the first n indices that were added to the
	// buffer
	insertOrder(n int) []int

	// removeFront forgets the earliest inserted index
	removeFront()
}

// Selector implements functionality for choosing how data should be
// sampled and/or removed from an experience replay buffer
type Selector interface {
	// choose selects the indices at which data should be sampled from
	// the experience replay buffer
	choose(c indexer) []int

	// BatchSize returns the number of elements that will be selected
	BatchSize() int

	// registerAsRemover registers a Selector as a remover
	//
	// Some Selectors require different behaviour if they are removers,
	// so they should be notified if they become a remover to add this
	// additional behaviour
	registerAsRemover()
}

// CreateSelector returns a new Selector of type t selecting samples
// elements at a time
func CreateSelector(t SelectorType, samples int, seed uint64) (Selector,
	error) {
	if samples < 1 {
		return nil, fmt.Errorf("createSelector: batch size must be positive, "+
			"have %d", samples)
	}

	switch t {
	case Uniform:
		return NewUniformSelector(samples, seed), nil
	case Fifo:
		return NewFifoSelector(samples), nil
	}
	return nil, fmt.Errorf("createSelector: no such selector %q", t)
}

// uniformSelector is a Selector which selects data from an experience
// replay buffer uniformly randomly, with replacement
type uniformSelector struct {
	samples int
	rng     *rand.Rand
}

// NewUniformSelector returns a new Selector which selects data uniformly
// randomly from an experience replay buffer
func NewUniformSelector(samples int, seed uint64) Selector {
	return &uniformSelector{
		samples: samples,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// registerAsRemover implements Selector interface
func (u *uniformSelector) registerAsRemover() {}

// BatchSize gets the number of samples in a batch drawn from the buffer
func (u *uniformSelector) BatchSize() int {
	return u.samples
}

// choose selects a number of indices at which to draw data from the
// buffer
func (u *uniformSelector) choose(c indexer) []int {
	keys := c.sampleFrom()
	selected := make([]int, u.BatchSize())
	for i := range selected {
		selected[i] = keys[u.rng.Intn(len(keys))]
	}
	return selected
}

// fifoSelector is a Selector which selects data from an experience
// replay buffer as first-in-first-out.
type fifoSelector struct {
	samples int
	remover bool
}

// NewFifoSelector returns a new Selector which draws data from an
// experience replay buffer as FiFo.
func NewFifoSelector(samples int) Selector {
	return &fifoSelector{samples: samples, remover: false}
}

// registerAsRemover implements Selector interface
func (f *fifoSelector) registerAsRemover() {
	f.remover = true
}

// BatchSize gets the number of samples in a batch drawn from the buffer
func (f *fifoSelector) BatchSize() int {
	return f.samples
}

// choose selects a number of indices at which to draw data from the
// buffer
func (f *fifoSelector) choose(c indexer) []int {
	selected := c.insertOrder(f.BatchSize())

	if f.remover {
		// In a Fifo remover, the indices at which data was first added
		// get freed first, so we can remove these from the ordering of
		// inserted indices
		for range selected {
			c.removeFront()
		}
	}

	return selected
}
