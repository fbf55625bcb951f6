// Package expreplay implements experience replay buffers which are
// filled with the transitions of the records drained from an
// environment's journal
package expreplay

import (
	"container/list"
	"fmt"

	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/timestep"
)

// Config implements a specific configuration of a Cache
type Config struct {
	RemoveMethod      SelectorType
	SampleMethod      SelectorType
	RemoveSize        int
	SampleSize        int
	MaxReplayCapacity int
	MinReplayCapacity int
}

// Create creates and returns the Cache with the specified Config. The
// terminal predicate marks transitions into terminal states and may be
// nil.
func Create[S, A any](c Config, terminal func(S) bool,
	seed uint64) (*Cache[S, A], error) {
	remover, err := CreateSelector(c.RemoveMethod, c.RemoveSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: remover: %w", err)
	}
	sampler, err := CreateSelector(c.SampleMethod, c.SampleSize, seed)
	if err != nil {
		return nil, fmt.Errorf("create: sampler: %w", err)
	}

	return New[S, A](remover, sampler, c.MinReplayCapacity,
		c.MaxReplayCapacity, terminal)
}

// Cache implements an experience replay buffer of transitions.
//
// A Cache is a checkpointer.Checkpointer: each batch of records
// drained from an environment's journal is split into transitions and
// added to the cache.
type Cache[S, A any] struct {
	transitions []timestep.Transition[S, A]

	// The indices of the cache that are empty and have no data
	emptyIndices []int

	// The indices of the cache that have data
	inUseIndices []int

	// orderOfInsert outlines the chronological order of inserts. For
	// i > j, the data at index orderOfInsert[i] was inserted into the
	// buffer after the data at index orderOfInsert[j]
	orderOfInsert *list.List

	// Outlines how data is removed and sampled
	remover Selector
	sampler Selector

	minCapacity int
	maxCapacity int
	terminal    func(S) bool
}

// New creates and returns a new Cache. The remover and sampler
// parameters are Selectors which determine how data is removed and
// sampled from the replay buffer.
func New[S, A any](remover, sampler Selector, minCapacity, maxCapacity int,
	terminal func(S) bool) (*Cache[S, A], error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("new: minCapacity must be > 0")
	}
	if maxCapacity <= minCapacity {
		return nil, fmt.Errorf("new: maxCapacity (%v) must be > "+
			"minCapacity (%v)", maxCapacity, minCapacity)
	}
	if maxCapacity < sampler.BatchSize() {
		return nil, fmt.Errorf("new: cannot have batch size(%v) > max "+
			"buffer capacity (%v)", sampler.BatchSize(), maxCapacity)
	}

	remover.registerAsRemover()

	emptyIndices := make([]int, maxCapacity)
	for i := range emptyIndices {
		emptyIndices[i] = maxCapacity - 1 - i
	}

	return &Cache[S, A]{
		transitions:   make([]timestep.Transition[S, A], maxCapacity),
		emptyIndices:  emptyIndices,
		inUseIndices:  make([]int, 0, maxCapacity),
		orderOfInsert: list.New(),
		remover:       remover,
		sampler:       sampler,
		minCapacity:   minCapacity,
		maxCapacity:   maxCapacity,
		terminal:      terminal,
	}, nil
}

// sampleFrom returns the indices to sample from
func (c *Cache[S, A]) sampleFrom() []int {
	return c.inUseIndices
}

// insertOrder returns a slice of at most n indices which describes
// the order that the first n data were inserted into the buffer.
//
// For example, if this function returns []int{9, 15, 1}, this means
// that the first data was inserted into the buffer at position 9, the
// next at position 15, and the last at position 1
func (c *Cache[S, A]) insertOrder(n int) []int {
	order := make([]int, 0, n)
	for e := c.orderOfInsert.Front(); e != nil && len(order) < n; e = e.Next() {
		order = append(order, e.Value.(int))
	}
	return order
}

// removeFront removes the earliest tracked index at which data was
// inserted
func (c *Cache[S, A]) removeFront() {
	if front := c.orderOfInsert.Front(); front != nil {
		c.orderOfInsert.Remove(front)
	}
}

// remove frees the indices chosen by the cache's remover
func (c *Cache[S, A]) remove() error {
	if c.Capacity() <= c.minCapacity {
		return fmt.Errorf("remove: cannot remove, cache at min capacity")
	}

	for _, index := range c.remover.choose(c) {
		for i := range c.inUseIndices {
			if c.inUseIndices[i] == index {
				last := len(c.inUseIndices) - 1
				c.inUseIndices[i] = c.inUseIndices[last]
				c.inUseIndices = c.inUseIndices[:last]
				c.emptyIndices = append(c.emptyIndices, index)
				break
			}
		}
	}
	c.forget()
	return nil
}

// forget drops freed indices from the insert order, which removers
// that do not track insert order leave behind
func (c *Cache[S, A]) forget() {
	inUse := make(map[int]bool, len(c.inUseIndices))
	for _, index := range c.inUseIndices {
		inUse[index] = true
	}
	for e := c.orderOfInsert.Front(); e != nil; {
		next := e.Next()
		if !inUse[e.Value.(int)] {
			c.orderOfInsert.Remove(e)
		}
		e = next
	}
}

// Add adds a transition to the cache, removing data first if the cache
// is full
func (c *Cache[S, A]) Add(t timestep.Transition[S, A]) error {
	if c.Capacity() >= c.maxCapacity {
		if err := c.remove(); err != nil {
			return fmt.Errorf("add: cannot add to buffer: %w", err)
		}
	}

	last := len(c.emptyIndices) - 1
	index := c.emptyIndices[last]
	c.emptyIndices = c.emptyIndices[:last]
	c.orderOfInsert.PushBack(index)
	c.inUseIndices = append(c.inUseIndices, index)
	c.transitions[index] = t

	return nil
}

// Sample samples and returns a batch of transitions from the replay
// buffer
func (c *Cache[S, A]) Sample() ([]timestep.Transition[S, A], error) {
	if c.Capacity() == 0 {
		return nil, &ExpReplayError{Op: "sample", Err: errEmptyCache}
	}
	if c.Capacity() < c.MinCapacity() {
		return nil, &ExpReplayError{Op: "sample", Err: errInsufficientSamples}
	}

	indices := c.sampler.choose(c)
	batch := make([]timestep.Transition[S, A], len(indices))
	for i, index := range indices {
		batch[i] = c.transitions[index]
	}
	return batch, nil
}

// Checkpoint adds the transitions between records to the cache
func (c *Cache[S, A]) Checkpoint(records []timestep.Record[S, A]) error {
	for _, t := range timestep.Transitions(records, c.terminal) {
		if err := c.Add(t); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}

// Flush implements the checkpointer.Checkpointer interface. A Cache
// holds its data in memory, so there is nothing to flush.
func (c *Cache[S, A]) Flush() error {
	return nil
}

// Replay samples a batch of transitions and has l observe each of them.
// The error reports insufficient samples if the cache is not yet at
// its minimum capacity.
func (c *Cache[S, A]) Replay(l agent.Learner[S, A]) error {
	batch, err := c.Sample()
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	for _, t := range batch {
		rec := timestep.Log(t.NextState, t.Action, t.Reward)
		if err := l.Observe(t.State, rec, t.Terminal); err != nil {
			return fmt.Errorf("replay: %w", err)
		}
	}
	return nil
}

// Capacity returns the current number of elements in the cache that
// are available for sampling
func (c *Cache[S, A]) Capacity() int {
	return len(c.inUseIndices)
}

// MaxCapacity returns the maximum number of elements that are allowed
// in the cache
func (c *Cache[S, A]) MaxCapacity() int {
	return c.maxCapacity
}

// MinCapacity returns the minimum number of elements required in the
// cache before sampling is allowed
func (c *Cache[S, A]) MinCapacity() int {
	return c.minCapacity
}

// BatchSize returns the number of samples sampled using Sample()
func (c *Cache[S, A]) BatchSize() int {
	return c.sampler.BatchSize()
}

func (c *Cache[S, A]) String() string {
	return fmt.Sprintf("Cache | Capacity: %d/%d  |  Min: %d  |  Batch: %d",
		c.Capacity(), c.maxCapacity, c.minCapacity, c.BatchSize())
}
