package agent

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// constant is a Config used only by tests
type constant struct {
	Value float64
}

func (c constant) Type() Type {
	return "Constant"
}

func (c constant) Validate() error {
	if c.Value < 0 {
		return errors.New("negative value")
	}
	return nil
}

func TestTypedConfigJSON(t *testing.T) {
	Register("Constant", constant{})

	data, err := json.Marshal(NewTypedConfig(constant{Value: 2}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"Type":"Constant","Config":{"Value":2}}`; string(data) != want {
		t.Errorf("marshal: want %v, have %v", want, string(data))
	}

	var typed TypedConfig
	if err := json.Unmarshal(data, &typed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c, ok := typed.Config.(constant)
	if !ok || c.Value != 2 || typed.Type != "Constant" {
		t.Errorf("unmarshal: want constant config, have %#v", typed)
	}
	if err := typed.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestTypedConfigErrors(t *testing.T) {
	var typed TypedConfig
	err := json.Unmarshal([]byte(`{"Type":"Unknown","Config":{}}`), &typed)
	if err == nil || !strings.Contains(err.Error(), "Unknown") {
		t.Errorf("unmarshal: want unregistered type error, have %v", err)
	}

	if err := (TypedConfig{Type: "Constant"}).Validate(); err == nil {
		t.Error("validate: want error for missing config")
	}
	if err := (TypedConfig{Type: QLearningTabular,
		Config: constant{}}).Validate(); err == nil {
		t.Error("validate: want error for mistyped config")
	}
	if err := NewTypedConfig(constant{Value: -1}).Validate(); err == nil {
		t.Error("validate: want error from the underlying config")
	}
}
