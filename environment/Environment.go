// Package environment implements an environment execution engine which
// advances a state through a transition function, records the
// trajectory in a fixed-capacity journal, and samples actions and
// forward trajectories through a sampling strategy
package environment

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/journal"
	"github.com/samuelfneumann/rlcore/sampler"
	"github.com/samuelfneumann/rlcore/timestep"
)

// DefaultCapacity is the number of records a journal holds by default
const DefaultCapacity = 512

var (
	// ErrDiscountFactorOutOfBounds is returned when an environment is
	// created with a discount outside [0, 1]
	ErrDiscountFactorOutOfBounds = errors.New("discount factor is outside " +
		"the [0.0, 1.0] interval")

	// ErrNilFunction is returned when an environment is created without
	// a reward or transition function
	ErrNilFunction = errors.New("reward and transition functions must be " +
		"non-nil")

	// ErrNilSpace is returned when an environment is created without a
	// state or action space
	ErrNilSpace = errors.New("state and action spaces must be non-nil")

	// ErrNotDrained is returned when resetting an environment whose
	// journal still holds records
	ErrNotDrained = errors.New("journal must be drained before reset")

	// ErrNegativeHorizon is returned when sampling a forward trajectory
	// with a negative horizon
	ErrNegativeHorizon = errors.New("horizon must be non-negative")
)

// Option configures an Environment at construction
type Option func(*options)

type options struct {
	capacity int
	logger   log.Logger
}

// WithCapacity sets the number of records the environment's journal
// can hold before it must be drained
func WithCapacity(records int) Option {
	return func(o *options) {
		o.capacity = records
	}
}

// WithLogger sets the logger the environment reports lifecycle events to
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Environment implements a simulated environment.
//
// An Environment owns a journal of timestep.Records. The latest record
// holds the current state. The record observed at environment time t
// is stored at journal index t: the initial record is at index 0 and
// the k-th step writes index k.
//
// An Environment is not safe for concurrent use. Parallel rollouts
// should each use their own Environment.
type Environment[S, A any] struct {
	stateSpace  StateSpace[S, A]
	actionSpace ActionSpace[S, A]
	strategy    sampler.Strategy[S, A]

	logs     *journal.Journal[timestep.Record[S, A]]
	discount float32

	reward     agent.RewardFunc[S]
	transition agent.TransitionFunc[S, A]

	stepCounter uint64
	logger      log.Logger
}

// New creates and returns a new Environment which starts in state
// initial. The discount must be in [0, 1].
func New[S, A any](states StateSpace[S, A], actions ActionSpace[S, A],
	initial S, strategy sampler.Strategy[S, A], discount float32,
	reward agent.RewardFunc[S], transition agent.TransitionFunc[S, A],
	opts ...Option) (*Environment[S, A], error) {
	if !(discount >= 0.0 && discount <= 1.0) {
		return nil, fmt.Errorf("new: %w: γ = %v", ErrDiscountFactorOutOfBounds,
			discount)
	}
	if reward == nil || transition == nil {
		return nil, fmt.Errorf("new: %w", ErrNilFunction)
	}
	if states == nil || actions == nil {
		return nil, fmt.Errorf("new: %w", ErrNilSpace)
	}

	o := options{
		capacity: DefaultCapacity,
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	size := timestep.Size[S, A]()
	logs, err := journal.New[timestep.Record[S, A]](size * o.capacity)
	if err != nil {
		return nil, fmt.Errorf("new: could not create journal: %w", err)
	}

	if err := logs.Write(timestep.Init[S, A](initial), 0); err != nil {
		return nil, fmt.Errorf("new: could not record initial state: %w", err)
	}

	level.Debug(o.logger).Log("msg", "environment created", "discount",
		discount, "strategy", strategy, "record_size", size, "capacity",
		logs.Cap())

	return &Environment[S, A]{
		stateSpace:  states,
		actionSpace: actions,
		strategy:    strategy,
		logs:        logs,
		discount:    discount,
		reward:      reward,
		transition:  transition,
		stepCounter: 0,
		logger:      o.logger,
	}, nil
}

// StateSpace returns the environment's state space
func (e *Environment[S, A]) StateSpace() StateSpace[S, A] {
	return e.stateSpace
}

// ActionSpace returns the environment's action space
func (e *Environment[S, A]) ActionSpace() ActionSpace[S, A] {
	return e.actionSpace
}

// Strategy returns the strategy the environment samples actions with
func (e *Environment[S, A]) Strategy() sampler.Strategy[S, A] {
	return e.strategy
}

// Discount returns the environment's discount factor
func (e *Environment[S, A]) Discount() float32 {
	return e.discount
}

// Reward returns the environment's reward function
func (e *Environment[S, A]) Reward() agent.RewardFunc[S] {
	return e.reward
}

// Transition returns the environment's transition function
func (e *Environment[S, A]) Transition() agent.TransitionFunc[S, A] {
	return e.transition
}

// EnvTime returns the number of steps taken in the environment
func (e *Environment[S, A]) EnvTime() uint64 {
	return e.stepCounter
}

// Buffered returns the number of records held in the journal
func (e *Environment[S, A]) Buffered() int {
	return e.logs.Len()
}

// Capacity returns the number of records the journal can hold
func (e *Environment[S, A]) Capacity() int {
	return e.logs.Cap()
}

// Latest returns the record of the current state
func (e *Environment[S, A]) Latest() (timestep.Record[S, A], error) {
	return e.logs.ReadLatest()
}

// State returns the current state
func (e *Environment[S, A]) State() (S, error) {
	rec, err := e.Latest()
	if err != nil {
		var zero S
		return zero, fmt.Errorf("state: %w", err)
	}
	return rec.NewState, nil
}

// LastAction returns the action which led to the current state. The
// boolean is false if the current state was not reached by an action,
// which is the case directly after New or Reset.
func (e *Environment[S, A]) LastAction() (A, bool, error) {
	rec, err := e.Latest()
	if err != nil {
		var zero A
		return zero, false, fmt.Errorf("lastAction: %w", err)
	}
	a, ok := rec.LastAction()
	return a, ok, nil
}

// LastReward returns the reward received in the current state
func (e *Environment[S, A]) LastReward() (float32, error) {
	rec, err := e.Latest()
	if err != nil {
		return 0, fmt.Errorf("lastReward: %w", err)
	}
	return rec.Reward, nil
}

// Step takes action in the current state, records the next state and
// its reward, and advances the environment time by one.
//
// Step does not check that action is in the action space; callers
// should validate it with ActionSpace().Contains beforehand if needed.
// If the journal cannot take the record, the error is returned and the
// environment time does not change.
func (e *Environment[S, A]) Step(action A) error {
	current, err := e.State()
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	next := e.transition(current, action)
	reward := e.reward(next)

	rec := timestep.Log(next, action, reward)
	if err := e.logs.Write(rec, e.stepCounter+1); err != nil {
		level.Warn(e.logger).Log("msg", "step failed", "time",
			e.stepCounter, "err", err)
		return fmt.Errorf("step: %w", err)
	}
	e.stepCounter++

	return nil
}

// Act selects an action in the current state with the environment's
// strategy and policy p, then takes it with Step. The chosen action is
// returned.
func (e *Environment[S, A]) Act(p agent.Policy[S, A]) (A, error) {
	var zero A

	state, err := e.State()
	if err != nil {
		return zero, fmt.Errorf("act: %w", err)
	}

	valid := e.actionSpace.Valid(state)
	action, err := e.strategy.Sample(p, state, valid, e.reward, e.transition)
	if err != nil {
		return zero, fmt.Errorf("act: %w", err)
	}

	if err := e.Step(action); err != nil {
		return zero, fmt.Errorf("act: %w", err)
	}
	return action, nil
}

// Trajectory returns copies of all records held in the journal, oldest
// first
func (e *Environment[S, A]) Trajectory() ([]timestep.Record[S, A], error) {
	records, err := e.logs.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	return records, nil
}

// Cleanup drains and returns all records held in the journal, oldest
// first. The environment time is not reset. The environment has no
// current state after Cleanup until Reset is called.
func (e *Environment[S, A]) Cleanup() ([]timestep.Record[S, A], error) {
	records, err := e.logs.Cleanup()
	if err != nil {
		return nil, fmt.Errorf("cleanup: %w", err)
	}

	level.Debug(e.logger).Log("msg", "journal drained", "time",
		e.stepCounter, "records", len(records))
	return records, nil
}

// Reset starts a new trajectory in state at the current environment
// time. The journal must have been drained with Cleanup.
func (e *Environment[S, A]) Reset(state S) error {
	if !e.logs.Empty() {
		return fmt.Errorf("reset: %w: %d records held", ErrNotDrained,
			e.logs.Len())
	}

	if err := e.logs.Write(timestep.Init[S, A](state), e.stepCounter); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	level.Debug(e.logger).Log("msg", "environment reset", "time",
		e.stepCounter)
	return nil
}

// SampleForwardTrajectory samples a hypothetical trajectory of horizon
// steps under policy p, starting from the current state. Each step
// selects an action with the environment's strategy among the actions
// valid in the previous step's state and transitions from that state.
// Neither the journal nor the environment time are changed.
func (e *Environment[S, A]) SampleForwardTrajectory(horizon int,
	p agent.Policy[S, A]) ([]timestep.Record[S, A], error) {
	if horizon < 0 {
		return nil, fmt.Errorf("sampleForwardTrajectory: %w: %d",
			ErrNegativeHorizon, horizon)
	}

	state, err := e.State()
	if err != nil {
		return nil, fmt.Errorf("sampleForwardTrajectory: %w", err)
	}

	out := make([]timestep.Record[S, A], 0, horizon)
	for i := 0; i < horizon; i++ {
		valid := e.actionSpace.Valid(state)
		action, err := e.strategy.Sample(p, state, valid, e.reward,
			e.transition)
		if err != nil {
			return nil, fmt.Errorf("sampleForwardTrajectory: step %d: %w", i,
				err)
		}

		next := e.transition(state, action)
		out = append(out, timestep.Log(next, action, e.reward(next)))
		state = next
	}

	level.Debug(e.logger).Log("msg", "forward trajectory sampled", "time",
		e.stepCounter, "horizon", horizon)
	return out, nil
}

// Return returns the discounted return of records under the
// environment's discount. Records without an action do not count
// towards the return.
func (e *Environment[S, A]) Return(records []timestep.Record[S, A]) float64 {
	return Return(records, e.discount)
}

// Return returns the discounted sum of rewards of the records which
// carry an action, the first such record being undiscounted
func Return[S, A any](records []timestep.Record[S, A],
	discount float32) float64 {
	ret := 0.0
	weight := 1.0
	for _, rec := range records {
		if !rec.HasAction {
			continue
		}
		ret += weight * float64(rec.Reward)
		weight *= float64(discount)
	}
	return ret
}

func (e *Environment[S, A]) String() string {
	return fmt.Sprintf("Environment | Time: %d  |  Discount: %.2f  |  "+
		"Strategy: %v  |  %v", e.stepCounter, e.discount, e.strategy, e.logs)
}
