package esarsa

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/samuelfneumann/rlcore/agent"
	"github.com/samuelfneumann/rlcore/environment/linewalk"
	"github.com/samuelfneumann/rlcore/timestep"
)

var moves = []int8{linewalk.Right, linewalk.Left}

func newAgent(t *testing.T, c Config, discount float32) *ESarsa[int64, int8] {
	t.Helper()
	line, _ := linewalk.New(-2, 2, 0)
	features, err := linewalk.NewTileFeatures(line, c.Tilings, c.Tiles, 1)
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	e, err := New[int64, int8](linewalk.NewActions(line, 1), moves, features,
		c, discount, 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return e
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConfig(t *testing.T) {
	valid := Config{Temperature: 1, TargetE: 0.1, LearningRate: 0.5,
		Tilings: 1, Tiles: 5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	for name, modify := range map[string]func(*Config){
		"temperature":   func(c *Config) { c.Temperature = 0 },
		"target":        func(c *Config) { c.TargetE = 1.5 },
		"learning rate": func(c *Config) { c.LearningRate = 0 },
		"tilings":       func(c *Config) { c.Tilings = 0 },
	} {
		c := valid
		modify(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%v: want invalid config", name)
		}
	}
}

func TestTypedConfig(t *testing.T) {
	c := Config{Temperature: 2, TargetE: 0.1, LearningRate: 0.5, Tilings: 4,
		Tiles: 3}
	data, err := json.Marshal(agent.NewTypedConfig(c))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var typed agent.TypedConfig
	if err := json.Unmarshal(data, &typed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if typed.Type != agent.ESarsaLinear {
		t.Errorf("type: want %v, have %v", agent.ESarsaLinear, typed.Type)
	}
	if diff := cmp.Diff(c, typed.Config); diff != "" {
		t.Errorf("config (-want +have):\n%s", diff)
	}
}

func TestObserve(t *testing.T) {
	c := Config{Temperature: 1, TargetE: 0.5, LearningRate: 1, Tilings: 1,
		Tiles: 5}

	t.Run("first", func(t *testing.T) {
		e := newAgent(t, c, 0.5)
		if err := e.Observe(0, timestep.Init[int64, int8](0), false); err != nil {
			t.Fatalf("observe: %v", err)
		}
		for _, a := range moves {
			if v := e.Critic().QValue(0, a); v != 0 {
				t.Errorf("initial record should not update, Q(0, %v) = %v", a, v)
			}
		}
	})

	t.Run("expected", func(t *testing.T) {
		e := newAgent(t, c, 0.5)
		e.Critic().Update(0, linewalk.Right, 10)

		// The target policy takes right in 0 with probability 0.75
		e.Observe(-1, timestep.Log[int64, int8](0, linewalk.Right, 0), false)
		if v := e.Critic().QValue(-1, linewalk.Right); !near(v, 3.75) {
			t.Errorf("Q(-1, right): want 3.75, have %v", v)
		}
	})

	t.Run("terminal", func(t *testing.T) {
		e := newAgent(t, c, 0.5)
		e.Critic().Update(0, linewalk.Right, 10)

		e.Observe(-1, timestep.Log[int64, int8](0, linewalk.Right, -1), true)
		if v := e.Critic().QValue(-1, linewalk.Right); !near(v, -1) {
			t.Errorf("Q(-1, right): want -1, have %v", v)
		}
	})
}

func TestGreedy(t *testing.T) {
	e := newAgent(t, Config{Temperature: 1, LearningRate: 1, Tilings: 1,
		Tiles: 5}, 0.9)
	e.Critic().Update(1, linewalk.Left, 1)

	a, err := e.Greedy(1)
	if err != nil || a != linewalk.Left {
		t.Errorf("greedy: want left, have %v (%v)", a, err)
	}
	if p := e.Prob(1, linewalk.Left); p <= 0.5 {
		t.Errorf("prob(1, left): want above 0.5, have %v", p)
	}
}
