// Package linewalk implements a walk on a bounded integer line. The
// agent moves one cell left or right each step and is rewarded by how
// close it stays to a goal cell.
package linewalk

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Actions available on the line
const (
	Right int8 = 1
	Left  int8 = -1
)

// Line describes the cells [Min, Max] of the line and the goal cell
type Line struct {
	Min, Max int64
	Goal     int64
}

// New creates and returns a new Line
func New(min, max, goal int64) (Line, error) {
	if min >= max {
		return Line{}, fmt.Errorf("new: min %d must be below max %d", min,
			max)
	}
	if goal < min || goal > max {
		return Line{}, fmt.Errorf("new: goal %d outside [%d, %d]", goal, min,
			max)
	}
	return Line{Min: min, Max: max, Goal: goal}, nil
}

// clip keeps position on the line
func (l Line) clip(position int64) int64 {
	if position < l.Min {
		return l.Min
	}
	if position > l.Max {
		return l.Max
	}
	return position
}

// Transition moves from state by action, staying on the line
func (l Line) Transition(state int64, action int8) int64 {
	return l.clip(state + int64(action))
}

// Reward returns the negative distance between state and the goal
func (l Line) Reward(state int64) float32 {
	d := state - l.Goal
	if d < 0 {
		d = -d
	}
	return -float32(d)
}

// AtGoal returns whether state is the goal cell
func (l Line) AtGoal(state int64) bool {
	return state == l.Goal
}

// Cells returns all cells of the line in increasing order
func (l Line) Cells() []int64 {
	cells := make([]int64, 0, l.Max-l.Min+1)
	for c := l.Min; c <= l.Max; c++ {
		cells = append(cells, c)
	}
	return cells
}

func (l Line) String() string {
	return fmt.Sprintf("Line | Cells: [%d, %d]  |  Goal: %d", l.Min, l.Max,
		l.Goal)
}

// States implements the state space of a Line
type States struct {
	Line
	start int64
	rng   *rand.Rand
}

// NewStates returns the state space of line whose walks start at start
func NewStates(line Line, start int64, seed uint64) (*States, error) {
	if start < line.Min || start > line.Max {
		return nil, fmt.Errorf("newStates: start %d outside [%d, %d]", start,
			line.Min, line.Max)
	}
	return &States{
		Line:  line,
		start: start,
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Start returns the cell walks start in
func (s *States) Start() int64 {
	return s.start
}

// Sample returns a cell chosen uniformly at random
func (s *States) Sample() int64 {
	return s.Min + s.rng.Int63n(s.Max-s.Min+1)
}

// Reachable returns the cells visited by taking actions in order from
// the starting cell
func (s *States) Reachable(actions []int8) []int64 {
	visited := make([]int64, 0, len(actions))
	state := s.start
	for _, a := range actions {
		state = s.Transition(state, a)
		visited = append(visited, state)
	}
	return visited
}

// Contains returns whether state is a cell of the line
func (s *States) Contains(state int64) bool {
	return state >= s.Min && state <= s.Max
}

// Actions implements the action space of a Line
type Actions struct {
	Line
	rng *rand.Rand
}

// NewActions returns the action space of line
func NewActions(line Line, seed uint64) *Actions {
	return &Actions{
		Line: line,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Sample returns Left or Right with equal probability
func (a *Actions) Sample() int8 {
	if a.rng.Intn(2) == 0 {
		return Right
	}
	return Left
}

// Valid returns the actions which move to a different cell from state,
// Right before Left
func (a *Actions) Valid(state int64) []int8 {
	valid := make([]int8, 0, 2)
	if state < a.Max {
		valid = append(valid, Right)
	}
	if state > a.Min {
		valid = append(valid, Left)
	}
	return valid
}

// Contains returns whether action is Left or Right
func (a *Actions) Contains(action int8) bool {
	return action == Left || action == Right
}
