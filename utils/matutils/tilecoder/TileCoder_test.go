package tilecoder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestEncodeSingleTiling(t *testing.T) {
	tc, err := New(vec(0), vec(10), [][]int{{10}}, 1, false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if tc.VecLength() != 10 || tc.NumTilings() != 1 {
		t.Errorf("want 10 features in 1 tiling, have %d in %d",
			tc.VecLength(), tc.NumTilings())
	}

	tests := map[float64]int{0: 0, 3.5: 3, 9.99: 9, -4: 0, 25: 9}
	for value, want := range tests {
		indices, err := tc.EncodeIndices(vec(value))
		if err != nil {
			t.Fatalf("encodeIndices: %v", err)
		}
		if diff := cmp.Diff([]int{want}, indices); diff != "" {
			t.Errorf("encodeIndices(%v) (-want +have):\n%s", value, diff)
		}
	}
}

func TestEncodeBias(t *testing.T) {
	tc, err := New(vec(0), vec(10), [][]int{{10}}, 1, true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	encoded, err := tc.Encode(vec(3.5))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded.Len() != 11 {
		t.Fatalf("want 11 features, have %d", encoded.Len())
	}
	want := make([]float64, 11)
	want[0], want[4] = 1, 1
	if diff := cmp.Diff(want, encoded.RawVector().Data); diff != "" {
		t.Errorf("encode (-want +have):\n%s", diff)
	}
}

func TestEncodeMultipleTilings(t *testing.T) {
	tc, err := New(vec(0, 0), vec(1, 1), [][]int{{2, 2}, {4, 3}}, 7, false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if tc.VecLength() != 16 {
		t.Errorf("want 4 + 12 features, have %d", tc.VecLength())
	}

	indices, err := tc.EncodeIndices(vec(0.7, 0.2))
	if err != nil {
		t.Fatalf("encodeIndices: %v", err)
	}
	// The first tiling is not offset: tile (1, 0) of a 2x2 tiling
	if indices[0] != 2 {
		t.Errorf("first tiling: want index 2, have %d", indices[0])
	}
	if indices[1] < 4 || indices[1] >= 16 {
		t.Errorf("second tiling: index %d outside [4, 16)", indices[1])
	}

	encoded, _ := tc.Encode(vec(0.7, 0.2))
	if sum := mat.Sum(encoded); sum != 2 {
		t.Errorf("encode: want one active tile per tiling, have %v", sum)
	}
}

func TestNewInvalid(t *testing.T) {
	tests := map[string]struct {
		min, max mat.Vector
		bins     [][]int
	}{
		"dimension mismatch": {vec(0), vec(1, 1), [][]int{{2}}},
		"no tilings":         {vec(0), vec(1), nil},
		"bins mismatch":      {vec(0), vec(1), [][]int{{2, 2}}},
		"zero tiles":         {vec(0), vec(1), [][]int{{0}}},
		"empty dimension":    {vec(1), vec(1), [][]int{{2}}},
	}
	for name, test := range tests {
		if _, err := New(test.min, test.max, test.bins, 1, false); err == nil {
			t.Errorf("%v: want error", name)
		}
	}

	tc, _ := New(vec(0), vec(1), [][]int{{2}}, 1, false)
	if _, err := tc.Encode(vec(0.5, 0.5)); err == nil {
		t.Error("encode: want error for wrong vector length")
	}
}

func BenchmarkTileCoder(b *testing.B) {
	tc, err := New(
		vec(0, 0, 0, 0, 0, 0, 0, 0),
		vec(1, 1, 1, 1, 1, 1, 1, 1),
		[][]int{{4, 4, 4, 4, 4, 4, 4, 4}},
		12,
		true,
	)
	if err != nil {
		b.Fatal(err)
	}

	y := vec(0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5)
	for i := 0; i < b.N; i++ {
		tc.Encode(y)
	}
}
