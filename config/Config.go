// Package config implements the JSON-serializable configuration of an
// experiment. Configurations are read from a JSON file and may be
// overridden by RLCORE_* environment variables, optionally loaded from
// .env files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/agent/esarsa"
	"github.com/samuelfneumann/rlcore/agent/qlearning"
	"github.com/samuelfneumann/rlcore/environment/envconfig"
	"github.com/samuelfneumann/rlcore/experiment"
	"github.com/samuelfneumann/rlcore/expreplay"
	"github.com/samuelfneumann/rlcore/sampler"
)

// StrategyConfig configures the sampling strategy of an environment.
// Kind is "EpsilonGreedy" or "Custom"; Mode is "Reward" or "Policy".
type StrategyConfig struct {
	Kind    string
	Epsilon float32
	Mode    string
}

// CheckpointConfig configures how drained journal records are saved.
// An Every of 0 disables checkpointing. Naming is "enumerate" or
// "time".
type CheckpointConfig struct {
	Every  int
	Naming string
}

// Config represents a configuration of an experiment
type Config struct {
	Type       experiment.Type
	Seed       uint64
	MaxSteps   uint64
	Output     string // directory data and checkpoints are written to
	EnvConf    envconfig.Config
	Strategy   StrategyConfig
	Agent      agent.TypedConfig
	Checkpoint CheckpointConfig

	// Replay configures an experience replay buffer the agent also
	// learns from. A MaxReplayCapacity of 0 disables replay.
	Replay expreplay.Config
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Type:     experiment.OnlineExp,
		Seed:     1,
		MaxSteps: 10_000,
		Output:   ".",
		EnvConf:  envconfig.Default(),
		Strategy: StrategyConfig{
			Kind:    sampler.EpsilonGreedy.String(),
			Epsilon: 0.9,
			Mode:    sampler.Policy.String(),
		},
		Agent: agent.NewTypedConfig(qlearning.Config{
			Temperature:  1,
			LearningRate: 0.1,
		}),
		Checkpoint: CheckpointConfig{Every: 1000, Naming: "enumerate"},
	}
}

// Validate returns an error describing whether or not the configuration
// is valid
func (c Config) Validate() error {
	if c.Type != experiment.OnlineExp {
		return fmt.Errorf("validate: no such experiment type %q", c.Type)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: env: %w", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: agent: %w", err)
	}
	if _, err := c.Strategy.Build(c.Seed); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.Checkpoint.Every < 0 {
		return fmt.Errorf("validate: negative checkpoint interval %d",
			c.Checkpoint.Every)
	}
	if c.Checkpoint.Naming != "enumerate" && c.Checkpoint.Naming != "time" {
		return fmt.Errorf("validate: no such checkpoint naming %q",
			c.Checkpoint.Naming)
	}
	if c.Replay.MaxReplayCapacity > 0 {
		if _, err := expreplay.Create[int64, int8](c.Replay, nil,
			c.Seed); err != nil {
			return fmt.Errorf("validate: replay: %w", err)
		}
	}
	return nil
}

// DefaultESarsa returns the default configuration of the ESarsa agent
func DefaultESarsa() esarsa.Config {
	return esarsa.Config{
		Temperature:  1,
		TargetE:      0.1,
		LearningRate: 0.1,
		Tilings:      4,
		Tiles:        8,
	}
}

// Build returns the strategy described by the StrategyConfig, seeded
// with seed
func (s StrategyConfig) Build(seed uint64) (sampler.Strategy[int64, int8],
	error) {
	switch s.Kind {
	case sampler.Custom.String():
		return sampler.NewCustom[int64, int8](), nil

	case sampler.EpsilonGreedy.String():
		var mode sampler.GreedyMode
		switch s.Mode {
		case sampler.Reward.String():
			mode = sampler.Reward
		case sampler.Policy.String():
			mode = sampler.Policy
		default:
			return sampler.Strategy[int64, int8]{}, fmt.Errorf("build: no "+
				"such greedy mode %q", s.Mode)
		}

		strategy := sampler.NewEpsilonGreedy[int64, int8](s.Epsilon, mode,
			seed)
		if err := strategy.Validate(); err != nil {
			return sampler.Strategy[int64, int8]{}, fmt.Errorf("build: %w",
				err)
		}
		return strategy, nil
	}

	return sampler.Strategy[int64, int8]{}, fmt.Errorf("build: no such "+
		"strategy %q", s.Kind)
}

// Load reads a Config from the JSON file at path. Fields missing from
// the file keep their default values.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %w", path, err)
	}
	return c, nil
}

// Save writes the Config as indented JSON to path
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// FromEnv loads the first of envFiles which exists into the process
// environment, then returns a copy of c with fields overridden by the
// RLCORE_* variables which are set:
//
//	RLCORE_SEED			Seed
//	RLCORE_MAX_STEPS	MaxSteps
//	RLCORE_OUTPUT		Output
//	RLCORE_EPSILON		Strategy.Epsilon
//	RLCORE_DISCOUNT		EnvConf.Discount
//	RLCORE_CAPACITY		EnvConf.Capacity
//
// Variables already set in the process environment take precedence
// over those in the files.
func (c Config) FromEnv(envFiles ...string) (Config, error) {
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	if v, ok := os.LookupEnv("RLCORE_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("fromEnv: RLCORE_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv("RLCORE_MAX_STEPS"); ok {
		steps, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("fromEnv: RLCORE_MAX_STEPS: %w", err)
		}
		c.MaxSteps = steps
	}
	if v, ok := os.LookupEnv("RLCORE_OUTPUT"); ok {
		c.Output = v
	}
	if v, ok := os.LookupEnv("RLCORE_EPSILON"); ok {
		eps, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return Config{}, fmt.Errorf("fromEnv: RLCORE_EPSILON: %w", err)
		}
		c.Strategy.Epsilon = float32(eps)
	}
	if v, ok := os.LookupEnv("RLCORE_DISCOUNT"); ok {
		discount, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return Config{}, fmt.Errorf("fromEnv: RLCORE_DISCOUNT: %w", err)
		}
		c.EnvConf.Discount = float32(discount)
	}
	if v, ok := os.LookupEnv("RLCORE_CAPACITY"); ok {
		capacity, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("fromEnv: RLCORE_CAPACITY: %w", err)
		}
		c.EnvConf.Capacity = capacity
	}

	return c, nil
}
