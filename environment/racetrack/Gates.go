package racetrack

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Gate is a progress checkpoint: a line segment perpendicular to the
// centerline spanning the full corridor width. Vehicles must cross
// gates in cyclic order to be credited with progress.
type Gate struct {
	A, B r2.Vec
}

// newGates places n gates at even centerline intervals. Each gate is
// centered on its centerline sample and oriented perpendicular to the
// local lookahead tangent, with endpoints one corridor radius to
// either side.
func newGates(centerline []r2.Vec, n, lookahead int, radius float64) []Gate {
	interval := len(centerline) / n

	gates := make([]Gate, n)
	for g := range gates {
		i := g * interval
		center := centerline[i]
		ahead := centerline[(i+lookahead)%len(centerline)]

		perp := unit(perpendicular(ahead.Sub(center)))
		gates[g] = Gate{
			A: center.Sub(perp.Scale(radius)),
			B: center.Add(perp.Scale(radius)),
		}
	}
	return gates
}

// Crossed reports whether a movement from position from to position to
// strictly crosses the gate. Touching an endpoint or moving along the
// gate line does not count as a crossing, so a vehicle spawned exactly
// on a gate line is not credited until it loops around and crosses the
// gate properly.
func (g Gate) Crossed(from, to r2.Vec) bool {
	return segmentsIntersect(from, to, g.A, g.B)
}
