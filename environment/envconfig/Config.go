// Package envconfig provides configuration structs for configuring
// environments with their tasks. Environment configurations in this
// package are JSON serializable.
package envconfig

import (
	"fmt"

	"github.com/go-kit/log"
	env "github.com/samuelfneumann/rlcore/environment"
	"github.com/samuelfneumann/rlcore/environment/linewalk"
	"github.com/samuelfneumann/rlcore/sampler"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	LineWalk EnvName = "LineWalk"
)

// TaskName stores the tasks that can be configured with this package.
//
//	Task		Episodes end
//	Goal		at the goal cell or at the episode cutoff
//	Cutoff		at the episode cutoff only
type TaskName string

// Tasks available for configuration
const (
	Goal   TaskName = "Goal"
	Cutoff TaskName = "Cutoff"
)

// Config implements a specific configuration of a specific environment
// and specific task
type Config struct {
	Environment   EnvName
	Task          TaskName
	Min, Max      int64
	Goal          int64
	Start         int64
	RandomStart   bool // start episodes in a uniformly random cell
	EpisodeCutoff uint
	Discount      float32
	Capacity      int // records held by the journal before draining
}

// Default returns a walk on [-10, 10] from 5 towards 0, cut off after
// 100 steps
func Default() Config {
	return Config{
		Environment:   LineWalk,
		Task:          Goal,
		Min:           -10,
		Max:           10,
		Goal:          0,
		Start:         5,
		EpisodeCutoff: 100,
		Discount:      0.99,
		Capacity:      env.DefaultCapacity,
	}
}

// Validate returns an error describing whether or not the configuration
// is valid
func (c Config) Validate() error {
	if c.Environment != LineWalk {
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}
	if c.Task != Goal && c.Task != Cutoff {
		return fmt.Errorf("validate: %v environment has no task %q",
			c.Environment, c.Task)
	}
	if _, err := linewalk.New(c.Min, c.Max, c.Goal); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.Start < c.Min || c.Start > c.Max {
		return fmt.Errorf("validate: start %d outside [%d, %d]", c.Start,
			c.Min, c.Max)
	}
	if c.Task == Cutoff && c.EpisodeCutoff == 0 {
		return fmt.Errorf("validate: cutoff task needs a positive episode " +
			"cutoff")
	}
	if !(c.Discount >= 0 && c.Discount <= 1) {
		return fmt.Errorf("validate: discount %v outside [0, 1]", c.Discount)
	}
	if c.Capacity < 2 {
		return fmt.Errorf("validate: journal capacity must be at least 2 "+
			"records, have %d", c.Capacity)
	}
	return nil
}

// Created packages the environment described by a Config together with
// the Starter and Ender of its task
type Created struct {
	Line    linewalk.Line
	Env     *env.Environment[int64, int8]
	Starter env.Starter[int64]
	Ender   env.Ender[int64]
}

// Create returns the environment described by the Config, stepping
// with strategy and starting in the configured start cell. A nil logger
// discards all output.
func (c Config) Create(strategy sampler.Strategy[int64, int8], seed uint64,
	logger log.Logger) (Created, error) {
	if err := c.Validate(); err != nil {
		return Created{}, fmt.Errorf("create: %w", err)
	}

	if logger == nil {
		logger = log.NewNopLogger()
	}

	line, _ := linewalk.New(c.Min, c.Max, c.Goal)
	states, err := linewalk.NewStates(line, c.Start, seed)
	if err != nil {
		return Created{}, fmt.Errorf("create: %w", err)
	}
	actions := linewalk.NewActions(line, seed)

	e, err := env.New[int64, int8](states, actions, c.Start, strategy,
		c.Discount, line.Reward, line.Transition, env.WithCapacity(c.Capacity),
		env.WithLogger(log.With(logger, "env", c.Environment)))
	if err != nil {
		return Created{}, fmt.Errorf("create: %w", err)
	}

	var starter env.Starter[int64] = env.NewSingleStart(c.Start)
	if c.RandomStart {
		starter, err = env.NewCategoricalStarter(line.Cells(), nil, seed)
		if err != nil {
			return Created{}, fmt.Errorf("create: %w", err)
		}
	}

	var ender env.Ender[int64]
	switch c.Task {
	case Goal:
		ender = env.NewFunctionEnder(line.AtGoal, int(c.EpisodeCutoff))
	case Cutoff:
		ender = env.NewStepLimit[int64](int(c.EpisodeCutoff))
	}

	return Created{Line: line, Env: e, Starter: starter, Ender: ender}, nil
}
