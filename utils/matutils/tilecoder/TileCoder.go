// Package tilecoder implements tile coding of vectors
package tilecoder

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/samplemv"

	"github.com/samuelfneumann/rlcore/utils/floatutils"
)

// Controls tiling offsets. For each dimension, tilings are offset by
// randomly sampling from a uniform distribution with support
// [- tiling width/OffsetDiv, tiling width/OffsetDiv]
const OffsetDiv float64 = 1.5

// TileCoder implements functionality for tile coding a vector. Tile
// coding takes a low-dimensional vector and changes it into a large,
// sparse vector consisting of only 0's and 1's. Each 1 represents the
// coordinates of the original vector in some space of tilings. For
// example:
//
//	[0.5, 0.1] -> [0, 0, 0, 1, 0, 0, 1, 0]
//
// The number of nonzero elements in the tile-coded representation equals
// the number of tilings used to encode the vector, plus one if a bias
// unit is used. Tile coding requires that the space to be tiled be
// bounded. Values outside the bounds fall into the outermost tiles.
//
// Each dimension of the space is fully tiled by every tiling, hashing
// is not used.
type TileCoder struct {
	numTilings  int
	minDims     mat.Vector
	offsets     []*mat.Dense
	bins        [][]int
	binLengths  [][]float64
	includeBias bool
}

// New creates and returns a new TileCoder. The minDims and maxDims
// arguments are the bounds on each dimension between which tilings
// will be placed. These arguments should have the same shape as
// vectors which will be tile coded.
//
// The number of elements in bins is the number of tilings to use, and
// bins[i][j] is the number of tiles along dimension j in tiling i.
// For example, bins := [][]int{{2, 2}, {4, 3}} uses a 2x2 tiling and a
// 4x3 tiling of a two dimensional space.
//
// The parameter includeBias determines whether or not a bias unit is
// kept as the first unit in the tile coded representation.
func New(minDims, maxDims mat.Vector, bins [][]int,
	seed uint64, includeBias bool) (*TileCoder, error) {
	if minDims.Len() != maxDims.Len() {
		return nil, fmt.Errorf("new: cannot specify minimum with different "+
			"dimensions than maximum: %d != %d", minDims.Len(), maxDims.Len())
	}
	if len(bins) == 0 {
		return nil, fmt.Errorf("new: cannot have less than 1 tiling")
	}

	// Calculate the length of bins and the tiling offset bounds
	var bounds []r1.Interval
	numTilings := len(bins)
	binLengths := make([][]float64, numTilings)

	for j := 0; j < numTilings; j++ {
		if len(bins[j]) != minDims.Len() {
			return nil, fmt.Errorf("new: tiling %d: there should be a single "+
				"number of bins for each dimension: \n\thave(%d) \n\twant (%d)",
				j, len(bins[j]), minDims.Len())
		}
		binLengths[j] = make([]float64, minDims.Len())

		for i := 0; i < minDims.Len(); i++ {
			if bins[j][i] < 1 {
				return nil, fmt.Errorf("new: tiling %d: dimension %d has %d "+
					"tiles", j, i, bins[j][i])
			}
			if maxDims.AtVec(i) <= minDims.AtVec(i) {
				return nil, fmt.Errorf("new: dimension %d is empty: [%v, %v]",
					i, minDims.AtVec(i), maxDims.AtVec(i))
			}

			binLength := (maxDims.AtVec(i) - minDims.AtVec(i))
			binLength /= float64(bins[j][i])
			bound := binLength / OffsetDiv // Bounds tiling offsets

			binLengths[j][i] = binLength
			bounds = append(bounds, r1.Interval{Min: -bound, Max: bound})
		}
	}

	// The first tiling is never offset, the rest are offset uniformly
	// randomly
	offsets := make([]*mat.Dense, numTilings)
	offsets[0] = mat.NewDense(1, minDims.Len(), nil)
	if numTilings > 1 {
		source := rand.NewSource(seed)
		u := distmv.NewUniform(bounds[minDims.Len():], source)
		sampler := samplemv.IID{Dist: u}

		samples := mat.NewDense(1, len(bounds)-minDims.Len(), nil)
		sampler.Sample(samples)
		for i := 1; i < numTilings; i++ {
			start := (i - 1) * minDims.Len()
			offsets[i] = mat.DenseCopyOf(samples.Slice(0, 1, start,
				start+minDims.Len()))
		}
	}

	return &TileCoder{
		numTilings:  numTilings,
		minDims:     minDims,
		offsets:     offsets,
		bins:        bins,
		binLengths:  binLengths,
		includeBias: includeBias,
	}, nil
}

// Calculates how many features exist in the tile-coded representation
// before tiling number i
func (t *TileCoder) featuresBeforeTiling(i int) int {
	features := 0
	for j := 0; j < i; j++ {
		features += prod(t.bins[j])
	}
	return features
}

// encodeWithTiling returns the index of the tile coded feature vector
// which should be a 1.0 when the input vector v is encoded with tiling
// number tiling in the TileCoder.
func (t *TileCoder) encodeWithTiling(v mat.Vector, tiling int) int {
	bias := 0
	if t.includeBias {
		bias = 1
	}

	index := 0
	for i := 0; i < len(t.bins[tiling]); i++ {
		data := v.AtVec(i) + t.offsets[tiling].At(0, i)

		// Calculate the index of the tile along the current feature
		// dimension in which the feature falls
		tile := math.Floor((data - t.minDims.AtVec(i)) /
			t.binLengths[tiling][i])
		tile = floatutils.Clip(tile, 0.0, float64(t.bins[tiling][i]-1))

		// Row-major index into the tiling
		index = index*t.bins[tiling][i] + int(tile)
	}
	return t.featuresBeforeTiling(tiling) + index + bias
}

// EncodeIndices returns the non-zero indices in the tile coded vector
// when v is tile coded, one per tiling. The bias unit is index 0 and
// listed last if used.
func (t *TileCoder) EncodeIndices(v mat.Vector) ([]int, error) {
	if v.Len() != t.minDims.Len() {
		return nil, fmt.Errorf("encodeIndices: vector has %d dimensions, "+
			"want %d", v.Len(), t.minDims.Len())
	}

	indices := make([]int, 0, t.numTilings+1)
	for i := 0; i < t.numTilings; i++ {
		indices = append(indices, t.encodeWithTiling(v, i))
	}
	if t.includeBias {
		indices = append(indices, 0)
	}
	return indices, nil
}

// Encode encodes a single vector as a tile-coded vector
func (t *TileCoder) Encode(v mat.Vector) (*mat.VecDense, error) {
	indices, err := t.EncodeIndices(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	tileCoded := mat.NewVecDense(t.VecLength(), nil)
	for _, index := range indices {
		tileCoded.SetVec(index, 1.0)
	}
	return tileCoded, nil
}

// String returns a string representation of a *TileCoder
func (t *TileCoder) String() string {
	return fmt.Sprintf("Tilings %d  |  Tiles: %v", t.numTilings, t.bins)
}

// VecLength returns the number of features in a tile-coded vector
func (t *TileCoder) VecLength() int {
	baseVec := t.featuresBeforeTiling(t.numTilings)
	if t.includeBias {
		return baseVec + 1
	}
	return baseVec
}

// NumTilings returns the number of tilings the tile coder uses for
// encoding vectors
func (t *TileCoder) NumTilings() int {
	return t.numTilings
}

// prod calculates the product of all integers in a []int
func prod(i []int) int {
	prod := 1
	for _, v := range i {
		prod *= v
	}
	return prod
}
