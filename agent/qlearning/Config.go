package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/rlcore/agent"
)

func init() {
	// Register Config so that it can be typed using agent.TypedConfig
	agent.Register(agent.QLearningTabular, Config{})
}

// Config represents a configuration for the QLearning agent
type Config struct {
	Temperature  float64 // temperature of the softmax behaviour policy
	LearningRate float64
	InitialValue float64
}

// Type returns the type of agent the Config creates
func (c Config) Type() agent.Type {
	return agent.QLearningTabular
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if !(c.Temperature > 0) {
		return fmt.Errorf("temperature must be positive, have %v",
			c.Temperature)
	}
	if !(c.LearningRate > 0 && c.LearningRate <= 1) {
		return fmt.Errorf("learning rate must be in (0, 1], have %v",
			c.LearningRate)
	}
	return nil
}
