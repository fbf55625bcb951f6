package linewalk

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	if _, err := New(3, 2, 2); err == nil {
		t.Error("new: want error for min > max")
	}
	if _, err := New(4, 4, 4); err == nil {
		t.Error("new: want error for a line with a single cell")
	}
	if _, err := New(-2, 2, 5); err == nil {
		t.Error("new: want error for goal outside the line")
	}
	if _, err := New(-2, 2, 0); err != nil {
		t.Errorf("new: %v", err)
	}
}

func TestDynamics(t *testing.T) {
	line, _ := New(-2, 2, 0)

	cases := []struct {
		state  int64
		action int8
		next   int64
		reward float32
	}{
		{0, Right, 1, -1},
		{1, Left, 0, 0},
		{2, Right, 2, -2},
		{-2, Left, -2, -2},
		{-1, Left, -2, -2},
	}
	for _, c := range cases {
		next := line.Transition(c.state, c.action)
		if next != c.next {
			t.Errorf("transition(%d, %d): want %d, have %d", c.state,
				c.action, c.next, next)
		}
		if r := line.Reward(next); r != c.reward {
			t.Errorf("reward(%d): want %v, have %v", next, c.reward, r)
		}
	}
	if !line.AtGoal(0) || line.AtGoal(1) {
		t.Error("atGoal: only 0 is the goal")
	}
}

func TestSpaces(t *testing.T) {
	line, _ := New(-2, 2, 0)

	states, err := NewStates(line, 0, 1)
	if err != nil {
		t.Fatalf("newStates: %v", err)
	}
	if _, err := NewStates(line, 9, 1); err == nil {
		t.Error("newStates: want error for start off the line")
	}

	for i := 0; i < 100; i++ {
		if s := states.Sample(); !states.Contains(s) {
			t.Fatalf("sample: %d not on the line", s)
		}
	}

	reached := states.Reachable([]int8{Right, Right, Right, Left})
	if diff := cmp.Diff([]int64{1, 2, 2, 1}, reached); diff != "" {
		t.Errorf("reachable (-want +have):\n%s", diff)
	}

	actions := NewActions(line, 1)
	if diff := cmp.Diff([]int8{Right, Left}, actions.Valid(0)); diff != "" {
		t.Errorf("valid(0) (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]int8{Left}, actions.Valid(2)); diff != "" {
		t.Errorf("valid(2) (-want +have):\n%s", diff)
	}
	if diff := cmp.Diff([]int8{Right}, actions.Valid(-2)); diff != "" {
		t.Errorf("valid(-2) (-want +have):\n%s", diff)
	}
	for i := 0; i < 20; i++ {
		if a := actions.Sample(); !actions.Contains(a) {
			t.Fatalf("sample: %d is not an action", a)
		}
	}
	if actions.Contains(0) {
		t.Error("contains: 0 is not an action")
	}
}
