package experiment

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/experiment/checkpointer"
	"github.com/samuelfneumann/rlcore/experiment/tracker"
	"github.com/samuelfneumann/rlcore/expreplay"
	"github.com/samuelfneumann/rlcore/journal"
	"github.com/samuelfneumann/rlcore/timestep"
)

// Option configures an Online experiment
type Option[S, A any] func(*Online[S, A])

// WithLearner sets a learner which observes every step of the
// experiment
func WithLearner[S, A any](l agent.Learner[S, A]) Option[S, A] {
	return func(o *Online[S, A]) {
		o.learner = l
	}
}

// WithTrackers registers trackers with the experiment
func WithTrackers[S, A any](t ...tracker.Tracker[S, A]) Option[S, A] {
	return func(o *Online[S, A]) {
		o.trackers = append(o.trackers, t...)
	}
}

// WithCheckpointers registers checkpointers with the experiment
func WithCheckpointers[S, A any](
	c ...checkpointer.Checkpointer[S, A]) Option[S, A] {
	return func(o *Online[S, A]) {
		o.checkpointers = append(o.checkpointers, c...)
	}
}

// WithReplay fills cache with every record drained from the journal.
// At the start of each episode the learner observes a batch replayed
// from the cache once it holds enough transitions.
func WithReplay[S, A any](cache *expreplay.Cache[S, A]) Option[S, A] {
	return func(o *Online[S, A]) {
		o.replay = cache
		o.checkpointers = append(o.checkpointers, cache)
	}
}

// WithStepHook sets a function called with the total number of steps
// taken after every step
func WithStepHook[S, A any](f func(steps uint64)) Option[S, A] {
	return func(o *Online[S, A]) {
		o.onStep = f
	}
}

// WithLogger sets the logger the experiment reports episodes to
func WithLogger[S, A any](logger log.Logger) Option[S, A] {
	return func(o *Online[S, A]) {
		o.logger = logger
	}
}

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
//
// Each episode starts in a state drawn from a Starter and ends when an
// Ender says so. Actions are selected through the environment's
// sampling strategy with the experiment's policy.
type Online[S, A any] struct {
	env     *environment.Environment[S, A]
	policy  agent.Policy[S, A]
	learner agent.Learner[S, A]
	starter environment.Starter[S]
	ender   environment.Ender[S]

	maxSteps     uint64
	currentSteps uint64
	episodes     int

	trackers      []tracker.Tracker[S, A]
	checkpointers []checkpointer.Checkpointer[S, A]
	replay        *expreplay.Cache[S, A]
	onStep        func(uint64)
	logger        log.Logger
}

var _ Experiment = &Online[int, int]{}

// NewOnline creates and returns a new online experiment on env which
// selects actions with policy. The steps parameter determines how many
// steps the experiment is run for.
func NewOnline[S, A any](env *environment.Environment[S, A],
	policy agent.Policy[S, A], starter environment.Starter[S],
	ender environment.Ender[S], steps uint64,
	opts ...Option[S, A]) (*Online[S, A], error) {
	if env == nil {
		return nil, fmt.Errorf("newOnline: nil environment")
	}
	if starter == nil || ender == nil {
		return nil, fmt.Errorf("newOnline: starter and ender must be non-nil")
	}

	o := &Online[S, A]{
		env:      env,
		policy:   policy,
		starter:  starter,
		ender:    ender,
		maxSteps: steps,
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Register registers a tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online[S, A]) Register(t tracker.Tracker[S, A]) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of steps taken so far
func (o *Online[S, A]) Steps() uint64 {
	return o.currentSteps
}

// Episodes returns the number of episodes finished so far
func (o *Online[S, A]) Episodes() int {
	return o.episodes
}

// RunEpisode runs a single episode of the experiment and returns
// whether the step limit has been reached
func (o *Online[S, A]) RunEpisode() (bool, error) {
	if err := o.drain(); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.replayBatch(); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.env.Reset(o.starter.Start()); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}

	first, err := o.env.Latest()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.track(first, false)

	prev := first.NewState
	for steps := 1; o.currentSteps < o.maxSteps; steps++ {
		if err := o.act(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		o.currentSteps++

		rec, err := o.env.Latest()
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		last := o.ender.End(rec.NewState, steps)
		o.track(rec, last)

		if o.learner != nil {
			if err := o.learner.Observe(prev, rec, last); err != nil {
				return false, fmt.Errorf("runEpisode: %w", err)
			}
		}
		if o.onStep != nil {
			o.onStep(o.currentSteps)
		}

		if last {
			o.episodes++
			level.Debug(o.logger).Log("msg", "episode finished", "episode",
				o.episodes, "steps", steps, "time", o.env.EnvTime())
			break
		}
		prev = rec.NewState
	}

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all steps. Records still held in
// the journal at the end are handed to the checkpointers, which are
// then flushed.
func (o *Online[S, A]) Run() error {
	for ended := false; !ended; {
		var err error
		if ended, err = o.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	state, err := o.env.State()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := o.drain(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	for _, c := range o.checkpointers {
		if err := c.Flush(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	level.Info(o.logger).Log("msg", "experiment finished", "steps",
		o.currentSteps, "episodes", o.episodes)
	return o.env.Reset(state)
}

// Save saves all the data cached by the trackers to disk
func (o *Online[S, A]) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// act takes one action in the environment. If the journal is full, it
// is drained and re-anchored at the current state before retrying.
func (o *Online[S, A]) act() error {
	_, err := o.env.Act(o.policy)
	if !journal.IsFull(err) {
		return err
	}

	state, err := o.env.State()
	if err != nil {
		return err
	}
	if err := o.drain(); err != nil {
		return err
	}
	if err := o.env.Reset(state); err != nil {
		return err
	}
	level.Debug(o.logger).Log("msg", "journal full, drained", "time",
		o.env.EnvTime())

	_, err = o.env.Act(o.policy)
	return err
}

// drain empties the environment's journal into the checkpointers
func (o *Online[S, A]) drain() error {
	records, err := o.env.Cleanup()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	for _, c := range o.checkpointers {
		if err := c.Checkpoint(records); err != nil {
			return err
		}
	}
	return nil
}

// replayBatch has the learner observe a batch from the replay cache,
// if there is one
func (o *Online[S, A]) replayBatch() error {
	if o.replay == nil || o.learner == nil {
		return nil
	}

	err := o.replay.Replay(o.learner)
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return nil
	}
	return err
}

// track sends rec to each tracker
func (o *Online[S, A]) track(rec timestep.Record[S, A], last bool) {
	for _, t := range o.trackers {
		t.Track(rec, last)
	}
}
