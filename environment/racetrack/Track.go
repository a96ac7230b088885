package racetrack

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Track is the immutable geometry of a racing circuit: a dense closed
// centerline sampled from a Catmull-Rom spline through the control
// points, a rasterized drivable-corridor field, and the progress
// gates. A Track is safe for concurrent readers, so any number of
// vehicles may race the same Track at once.
type Track struct {
	cfg        Config
	centerline []r2.Vec
	field      *field
	gates      []Gate
}

// NewTrack builds the Track described by cfg. The control polygon must
// not self-intersect; NewTrack does not check for self-intersection,
// but it validates everything else about the Config and returns an
// error rather than a partially built Track.
func NewTrack(cfg Config) (*Track, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("newTrack: %v", err)
	}

	centerline := catmullRomChain(cfg.ControlPoints, cfg.Samples)

	return &Track{
		cfg:        cfg,
		centerline: centerline,
		field:      newField(cfg.Width, cfg.Height, centerline, cfg.CorridorRadius),
		gates: newGates(centerline, cfg.Gates, cfg.TangentLookahead,
			cfg.CorridorRadius),
	}, nil
}

// catmullRomChain samples a closed uniform Catmull-Rom spline through
// points. The control sequence is extended cyclically so that every
// control point lies on the curve and the first sample coincides with
// points[0]. Each control span contributes samples/len(points) curve
// points; both span endpoints are emitted, so consecutive spans share
// their boundary sample.
func catmullRomChain(points []r2.Vec, samples int) []r2.Vec {
	perSpan := samples / len(points)

	extended := make([]r2.Vec, 0, len(points)+4)
	extended = append(extended, points[len(points)-2:]...)
	extended = append(extended, points...)
	extended = append(extended, points[:2]...)

	chain := make([]r2.Vec, 0, perSpan*len(points))
	for i := 2; i < len(extended)-2; i++ {
		p0, p1 := extended[i-1], extended[i]
		p2, p3 := extended[i+1], extended[i+2]

		for k := 0; k < perSpan; k++ {
			t := float64(k) / float64(perSpan-1)
			t2 := t * t
			t3 := t2 * t

			f1 := -0.5*t3 + t2 - 0.5*t
			f2 := 1.5*t3 - 2.5*t2 + 1.0
			f3 := -1.5*t3 + 2.0*t2 + 0.5*t
			f4 := 0.5*t3 - 0.5*t2

			chain = append(chain, r2.Vec{
				X: p0.X*f1 + p1.X*f2 + p2.X*f3 + p3.X*f4,
				Y: p0.Y*f1 + p1.Y*f2 + p2.Y*f3 + p3.Y*f4,
			})
		}
	}
	return chain
}

// Centerline returns the track's centerline samples. The returned
// slice is the Track's own storage and must not be modified.
func (t *Track) Centerline() []r2.Vec {
	return t.centerline
}

// Gates returns the track's progress gates in crossing order. The
// returned slice is the Track's own storage and must not be modified.
func (t *Track) Gates() []Gate {
	return t.gates
}

// Bounds returns the world width and height of the Track
func (t *Track) Bounds() (width, height int) {
	return t.cfg.Width, t.cfg.Height
}

// CorridorRadius returns the drivable half-width around the centerline
func (t *Track) CorridorRadius() float64 {
	return t.cfg.CorridorRadius
}

// Config returns the Config the Track was built from
func (t *Track) Config() Config {
	return t.cfg
}

// Drivable reports whether the world coordinate (x, y) lies on the
// drivable corridor. Coordinates are truncated to integers before the
// query; coordinates outside the world bounds are never drivable.
func (t *Track) Drivable(x, y float64) bool {
	return t.field.drivable(x, y)
}

// nearestIndex returns the index of the centerline sample closest to
// p. Ties are broken toward the lowest index.
func (t *Track) nearestIndex(p r2.Vec) int {
	best := math.Inf(1)
	bestIdx := 0
	for i, c := range t.centerline {
		if d := norm2(p.Sub(c)); d < best {
			best = d
			bestIdx = i
		}
	}
	return bestIdx
}

// tangentAt returns the local forward direction of the centerline at
// sample i, estimated as the vector from sample i to the sample
// TangentLookahead further along the loop. The result is not
// normalized.
func (t *Track) tangentAt(i int) r2.Vec {
	ahead := (i + t.cfg.TangentLookahead) % len(t.centerline)
	return t.centerline[ahead].Sub(t.centerline[i])
}

// initialPose returns the spawn position and heading in degrees for a
// vehicle starting offset spawn-spacings behind the first centerline
// sample along the initial tangent.
func (t *Track) initialPose(offset float64) (r2.Vec, float64) {
	direction := unit(t.tangentAt(0))
	position := t.centerline[0].Sub(direction.Scale(offset * t.cfg.SpawnSpacing))
	return position, degrees(math.Atan2(direction.Y, direction.X))
}
