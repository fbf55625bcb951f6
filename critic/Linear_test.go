package critic

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// oneHot encodes states 0 to n-1 as one-hot vectors, with a bias unit
type oneHot int

func (o oneHot) Features(state int64) mat.Vector {
	x := mat.NewVecDense(int(o)+1, nil)
	x.SetVec(0, 1)
	x.SetVec(int(state)+1, 1)
	return x
}

func (o oneHot) Len() int {
	return int(o) + 1
}

func TestNewLinear(t *testing.T) {
	if _, err := NewLinear[int64, int8](oneHot(3), []int8{-1, 1},
		0); !errors.Is(err, ErrStepSize) {
		t.Errorf("newLinear: want ErrStepSize, have %v", err)
	}
	if _, err := NewLinear[int64, int8](oneHot(3), nil,
		0.5); !errors.Is(err, ErrNoActions) {
		t.Errorf("newLinear: want ErrNoActions, have %v", err)
	}
	if _, err := NewLinear[int64, int8](oneHot(3), []int8{1, 1},
		0.5); err == nil {
		t.Error("newLinear: want error for duplicate actions")
	}
}

func TestLinearUpdate(t *testing.T) {
	q, err := NewLinear[int64, int8](oneHot(3), []int8{-1, 1}, 1)
	if err != nil {
		t.Fatalf("newLinear: %v", err)
	}

	// A unit step size moves the estimate onto the target
	if err := q.Update(2, 1, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	if v := q.QValue(2, 1); math.Abs(v-4) > 1e-9 {
		t.Errorf("qValue(2, 1): want 4, have %v", v)
	}

	// Generalization happens through the shared bias unit only
	if v := q.QValue(0, 1); math.Abs(v-2) > 1e-9 {
		t.Errorf("qValue(0, 1): want 2, have %v", v)
	}
	if v := q.QValue(2, -1); v != 0 {
		t.Errorf("qValue(2, -1): want 0, have %v", v)
	}

	values := q.ActionValues(2)
	if values.AtVec(0) != 0 || math.Abs(values.AtVec(1)-4) > 1e-9 {
		t.Errorf("actionValues(2): want [0 4], have %v", values.RawVector().Data)
	}

	a, err := q.Greedy(2, q.Actions())
	if err != nil || a != 1 {
		t.Errorf("greedy: want 1, have %v (%v)", a, err)
	}

	if err := q.Update(2, 0, 1); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("update: want ErrUnknownAction, have %v", err)
	}
	if v := q.QValue(2, 0); v != 0 {
		t.Errorf("qValue of unknown action: want 0, have %v", v)
	}
}
