package racetrack

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/goracer/environment"
)

// fixedStarter always starts episodes at the same spawn offset
type fixedStarter struct {
	offset float64
}

// FixedSpawn returns a Starter that spawns the vehicle at the same
// offset behind the track's starting line every episode. An offset of
// 0 spawns exactly on the starting line; each unit of offset moves the
// spawn one spacing step backward along the initial tangent.
func FixedSpawn(offset float64) environment.Starter {
	return fixedStarter{offset: offset}
}

// Start returns the starting spawn offset
func (f fixedStarter) Start() *mat.VecDense {
	return mat.NewVecDense(1, []float64{f.offset})
}

// UniformSpawn returns a Starter that draws the spawn offset uniformly
// from [0, maxOffset] using the given random seed. Staggered spawns
// keep populations of vehicles from all starting on the same pixel.
func UniformSpawn(maxOffset float64, seed uint64) environment.Starter {
	return environment.NewUniformStarter([]r1.Interval{
		{Min: 0.0, Max: maxOffset},
	}, seed)
}
