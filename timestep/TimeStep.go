// Package timestep implements the records of the agent-environment
// interaction that are stored in an environment's journal
package timestep

import (
	"encoding/binary"
	"fmt"
)

// StepType denotes the type of step that a Record can be, either the
// first record of a trajectory or a record produced by taking an action
type StepType int

const (
	First StepType = iota
	Mid
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	default:
		return "Mid"
	}
}

// Record packages together a single step of a trajectory: the state
// reached, the reward received in that state, and the action which
// led there.
//
// Fields are exported and laid out in the order they are encoded in a
// journal: state bytes, reward, action presence flag, action bytes.
// Both S and A must be fixed-size in the encoding/binary sense (sized
// integers, floats, bools, arrays and structs of these) for a Record to
// be stored in a journal.
type Record[S, A any] struct {
	NewState  S
	Reward    float32
	HasAction bool
	Action    A
}

// Init returns the record which starts a trajectory in state. It has
// no action and zero reward.
func Init[S, A any](state S) Record[S, A] {
	return Record[S, A]{NewState: state}
}

// Log returns the record of reaching state by taking action and
// receiving reward
func Log[S, A any](state S, action A, reward float32) Record[S, A] {
	return Record[S, A]{
		NewState:  state,
		Reward:    reward,
		HasAction: true,
		Action:    action,
	}
}

// LastAction returns the action which produced the record's state and
// whether such an action exists
func (r Record[S, A]) LastAction() (A, bool) {
	return r.Action, r.HasAction
}

// Type returns First for records created with Init and Mid otherwise
func (r Record[S, A]) Type() StepType {
	if !r.HasAction {
		return First
	}
	return Mid
}

// First returns whether a Record starts a trajectory
func (r Record[S, A]) First() bool {
	return r.Type() == First
}

func (r Record[S, A]) String() string {
	if !r.HasAction {
		return fmt.Sprintf("Record | Type: %v  |  State: %v  |  Reward:  %.2f",
			r.Type(), r.NewState, r.Reward)
	}
	str := "Record | Type: %v  |  State: %v  |  Action: %v  |  Reward:  %.2f"
	return fmt.Sprintf(str, r.Type(), r.NewState, r.Action, r.Reward)
}

// Size returns the number of bytes a Record[S, A] occupies when
// encoded, or -1 if either S or A is not fixed-size
func Size[S, A any]() int {
	var r Record[S, A]
	return binary.Size(r)
}
