package esarsa

import (
	"fmt"

	"github.com/samuelfneumann/rlcore/agent"
)

func init() {
	// Register Config so that it can be typed using agent.TypedConfig
	agent.Register(agent.ESarsaLinear, Config{})
}

// Config represents a configuration for the ESarsa agent
type Config struct {
	Temperature  float64 // temperature of the softmax behaviour policy
	TargetE      float64 // epsilon for target policy
	LearningRate float64

	// Tile coding of states
	Tilings int
	Tiles   int
}

// Type returns the type of agent the Config creates
func (c Config) Type() agent.Type {
	return agent.ESarsaLinear
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if !(c.Temperature > 0) {
		return fmt.Errorf("temperature must be positive, have %v",
			c.Temperature)
	}
	if !(c.TargetE >= 0 && c.TargetE <= 1) {
		return fmt.Errorf("target epsilon must be in [0, 1], have %v",
			c.TargetE)
	}
	if !(c.LearningRate > 0 && c.LearningRate <= 1) {
		return fmt.Errorf("learning rate must be in (0, 1], have %v",
			c.LearningRate)
	}
	if c.Tilings < 1 || c.Tiles < 1 {
		return fmt.Errorf("need at least one tiling and tile, have %d and %d",
			c.Tilings, c.Tiles)
	}
	return nil
}
