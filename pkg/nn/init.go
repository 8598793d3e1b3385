package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Source is the pseudo-random capability parameter initialization draws from.
// Each network owns its own Source so instances never share generator state.
type Source interface {
	Float64() float64
}

// NewSource returns an independent generator seeded with seed.
func NewSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// SourceFactory builds a Source from a seed.
type SourceFactory func(seed int64) Source

// Initializer initializes weights in place
type Initializer interface {
	Initialize(weights *mat.Dense)
}

// UniformFanIn draws every element from U(-1/sqrt(FanIn), 1/sqrt(FanIn)).
type UniformFanIn struct {
	Src   Source
	FanIn int
}

// Initialize fills weights row by row from Src.
func (u UniformFanIn) Initialize(weights *mat.Dense) {
	bound := 1 / math.Sqrt(float64(u.FanIn))
	r, c := weights.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			weights.Set(i, j, (2*u.Src.Float64()-1)*bound)
		}
	}
}
