package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter samples starting state vectors whose features
// take integer values, feature i drawn uniformly from {0, 1, ...,
// N_i - 1}. Environments with a discrete set of start slots, such as a
// racetrack spawning vehicles at integer offsets behind the starting
// line, use a CategoricalStarter where UniformStarter would produce
// fractional states.
type CategoricalStarter struct {
	features int
	seed     uint64
	dists    []distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter sampling
// feature i uniformly from {0, 1, ..., bounds[i] - 1}
func NewCategoricalStarter(bounds []int, seed uint64) CategoricalStarter {
	source := rand.NewSource(seed)

	dists := make([]distuv.Categorical, len(bounds))
	for i, bound := range bounds {
		weights := make([]float64, bound)
		for j := range weights {
			weights[j] = 1.0 / float64(bound)
		}
		dists[i] = distuv.NewCategorical(weights, source)
	}

	return CategoricalStarter{len(bounds), seed, dists}
}

// Start samples and returns a new starting state vector
func (c CategoricalStarter) Start() *mat.VecDense {
	start := make([]float64, c.features)
	for i := range start {
		start[i] = c.dists[i].Rand()
	}

	return mat.NewVecDense(c.features, start)
}
