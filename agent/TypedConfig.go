package agent

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
)

// Type represents a specific type of an agent Config.
// Config's with this type can create agents of the corresponding type.
type Type string

const (
	QLearningTabular Type = "QLearning-Tabular"
	ESarsaLinear     Type = "ESarsa-Linear"
)

// Config represents a configuration for creating an agent
type Config interface {
	// Type returns the type of agent the Config creates
	Type() Type

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}

// Registered types with the package. Once a Type has been registered,
// a TypedConfig of that type can be unmarshaled.
//
// Each package is in charge of registering its own Type to avoid
// circular imports.
var (
	registeredTypes = make(map[Type]reflect.Type)
	registerMu      sync.RWMutex
)

// Register registers an agent's Type with a concrete Config type so
// that TypedConfigs of type agentType are unmarshaled into the concrete
// type of config
func Register(agentType Type, config Config) {
	registerMu.Lock()
	defer registerMu.Unlock()
	registeredTypes[agentType] = reflect.TypeOf(config)
}

// TypedConfig implements functionality for typing a Config. In this
// way, a Config can explicitly have its type stored so that when
// deserializing the Config, we can deserialize it into its concrete
// type without knowing or declaring its concrete type beforehand.
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config and returns it as a
// TypedConfig which explicitly holds its Type
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// Validate returns an error if the Config is missing, invalid or of a
// different type than the TypedConfig says it is
func (t TypedConfig) Validate() error {
	if t.Config == nil {
		return fmt.Errorf("validate: no config of type %q", t.Type)
	}
	if t.Config.Type() != t.Type {
		return fmt.Errorf("validate: config of type %q typed as %q",
			t.Config.Type(), t.Type)
	}
	return t.Config.Validate()
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	var fields struct {
		Type   Type
		Config json.RawMessage
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	registerMu.RLock()
	ty, found := registeredTypes[fields.Type]
	registerMu.RUnlock()
	if !found {
		return fmt.Errorf("unmarshalJSON: no registered agent type %q",
			fields.Type)
	}

	value := reflect.New(ty)
	if len(fields.Config) > 0 {
		if err := json.Unmarshal(fields.Config, value.Interface()); err != nil {
			return err
		}
	}

	t.Type = fields.Type
	t.Config = value.Elem().Interface().(Config)
	return nil
}
