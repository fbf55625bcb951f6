package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{3, 0, 1, 1},
		{1, 1, 1, 1},
	}
	for _, test := range tests {
		if have := Clip(test.value, test.min, test.max); have != test.want {
			t.Errorf("clip(%v, %v, %v): want %v, have %v", test.value,
				test.min, test.max, test.want, have)
		}
	}

	if have := ClipInterval(7, r1.Interval{Min: -1, Max: 4}); have != 4 {
		t.Errorf("clipInterval: want 4, have %v", have)
	}
}
