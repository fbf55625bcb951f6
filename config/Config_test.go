package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/agent/qlearning"
	"github.com/samuelfneumann/rlcore/expreplay"
	"github.com/samuelfneumann/rlcore/sampler"
)

func TestDefault(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"type":     func(c *Config) { c.Type = "Offline" },
		"env":      func(c *Config) { c.EnvConf.Discount = 2 },
		"strategy": func(c *Config) { c.Strategy.Kind = "Boltzmann" },
		"mode":     func(c *Config) { c.Strategy.Mode = "Value" },
		"epsilon":  func(c *Config) { c.Strategy.Epsilon = -0.5 },
		"every":    func(c *Config) { c.Checkpoint.Every = -1 },
		"naming":   func(c *Config) { c.Checkpoint.Naming = "random" },
		"replay":   func(c *Config) { c.Replay = expreplay.Config{MaxReplayCapacity: 4} },
		"agent": func(c *Config) {
			c.Agent = agent.NewTypedConfig(qlearning.Config{Temperature: 1})
		},
		"esarsa": func(c *Config) {
			e := DefaultESarsa()
			e.Tiles = 0
			c.Agent = agent.NewTypedConfig(e)
		},
		"replay capacity": func(c *Config) {
			c.Replay = expreplay.Config{
				RemoveMethod:      expreplay.Fifo,
				SampleMethod:      expreplay.Uniform,
				RemoveSize:        1,
				SampleSize:        1,
				MinReplayCapacity: 4,
				MaxReplayCapacity: 4,
			}
		},
		"nan epsilon": func(c *Config) {
			c.Strategy.Epsilon = float32(math.NaN())
		},
	}
	for name, modify := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			modify(&c)
			if err := c.Validate(); err == nil {
				t.Errorf("want invalid config %+v", c)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	s, err := StrategyConfig{Kind: "EpsilonGreedy", Epsilon: 0.25,
		Mode: "Reward"}.Build(3)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if s.Kind() != sampler.EpsilonGreedy || s.Epsilon() != 0.25 ||
		s.Mode() != sampler.Reward {
		t.Errorf("build: unexpected strategy %v", s)
	}

	s, err = StrategyConfig{Kind: "Custom"}.Build(3)
	if err != nil || s.Kind() != sampler.Custom {
		t.Errorf("build: want custom strategy, have %v (%v)", s, err)
	}

	_, err = StrategyConfig{Kind: "EpsilonGreedy", Epsilon: 1.5,
		Mode: "Policy"}.Build(3)
	if !errors.Is(err, sampler.ErrEpsilonOutOfBounds) {
		t.Errorf("build: want ErrEpsilonOutOfBounds, have %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	c := Default()
	c.Seed = 99
	c.EnvConf.Goal = 3
	c.Strategy.Mode = "Reward"
	c.Agent = agent.NewTypedConfig(DefaultESarsa())
	c.Replay = expreplay.Config{
		RemoveMethod:      expreplay.Fifo,
		SampleMethod:      expreplay.Uniform,
		RemoveSize:        1,
		SampleSize:        8,
		MinReplayCapacity: 32,
		MaxReplayCapacity: 256,
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(c, loaded); diff != "" {
		t.Errorf("loaded config (-want +have):\n%s", diff)
	}

	// Missing fields keep their defaults
	partial := filepath.Join(t.TempDir(), "partial.json")
	if err := os.WriteFile(partial, []byte(`{"MaxSteps": 5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err = Load(partial)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.MaxSteps = 5
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("partial config (-want +have):\n%s", diff)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("load: want error for a missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte("{"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("load: want error for malformed JSON")
	}
}

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	contents := "RLCORE_MAX_STEPS=250\nRLCORE_EPSILON=0.5\n"
	if err := os.WriteFile(envFile, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RLCORE_SEED", "7")
	t.Setenv("RLCORE_CAPACITY", "64")
	t.Setenv("RLCORE_OUTPUT", dir)
	// Cleared again when the test ends, together with the file's values
	t.Setenv("RLCORE_MAX_STEPS", "")
	os.Unsetenv("RLCORE_MAX_STEPS")
	t.Setenv("RLCORE_EPSILON", "")
	os.Unsetenv("RLCORE_EPSILON")

	c, err := Default().FromEnv(filepath.Join(dir, "missing.env"), envFile)
	if err != nil {
		t.Fatalf("fromEnv: %v", err)
	}

	want := Default()
	want.Seed = 7
	want.MaxSteps = 250
	want.Output = dir
	want.Strategy.Epsilon = 0.5
	want.EnvConf.Capacity = 64
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config (-want +have):\n%s", diff)
	}

	t.Setenv("RLCORE_DISCOUNT", "not-a-number")
	if _, err := Default().FromEnv(); err == nil {
		t.Error("fromEnv: want error for a malformed discount")
	}
}
