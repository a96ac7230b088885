package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples starting state vectors uniformly from a
// hyper-rectangle defined by per-feature intervals. A degenerate
// interval (Min == Max) pins the corresponding feature to a constant.
type UniformStarter struct {
	features int
	seed     uint64
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter which samples from
// the hyper-rectangle defined by bounds, using a random number
// generator seeded by seed.
func NewUniformStarter(bounds []r1.Interval, seed uint64) UniformStarter {
	source := rand.NewSource(seed)

	return UniformStarter{
		features: len(bounds),
		seed:     seed,
		rand:     distmv.NewUniform(bounds, source),
	}
}

// Start samples and returns a new starting state vector
func (u UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}
