package linewalk

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/rlcore/utils/matutils/tilecoder"
)

// TileFeatures tile codes the cells of a Line. Each cell [c, c+1) of
// the line is tiled, and a bias unit is always active.
type TileFeatures struct {
	coder *tilecoder.TileCoder
}

// NewTileFeatures returns features tile coding line with tilings
// tilings of tiles tiles each. A single tiling with one tile per cell
// gives a one-hot encoding of the cells.
func NewTileFeatures(line Line, tilings, tiles int,
	seed uint64) (*TileFeatures, error) {
	if tilings < 1 || tiles < 1 {
		return nil, fmt.Errorf("newTileFeatures: need at least one tiling "+
			"and tile, have %d and %d", tilings, tiles)
	}

	bins := make([][]int, tilings)
	for i := range bins {
		bins[i] = []int{tiles}
	}

	min := mat.NewVecDense(1, []float64{float64(line.Min)})
	max := mat.NewVecDense(1, []float64{float64(line.Max + 1)})
	coder, err := tilecoder.New(min, max, bins, seed, true)
	if err != nil {
		return nil, fmt.Errorf("newTileFeatures: %w", err)
	}
	return &TileFeatures{coder: coder}, nil
}

// Features returns the tile coded representation of state
func (f *TileFeatures) Features(state int64) mat.Vector {
	// A one dimensional vector always matches the coder
	x, _ := f.coder.Encode(mat.NewVecDense(1, []float64{float64(state)}))
	return x
}

// Len returns the number of features
func (f *TileFeatures) Len() int {
	return f.coder.VecLength()
}

func (f *TileFeatures) String() string {
	return f.coder.String()
}
