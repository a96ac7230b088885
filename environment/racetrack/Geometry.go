package racetrack

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func degrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func norm(v r2.Vec) float64 {
	return math.Hypot(v.X, v.Y)
}

func norm2(v r2.Vec) float64 {
	return v.X*v.X + v.Y*v.Y
}

func dot(p, q r2.Vec) float64 {
	return p.X*q.X + p.Y*q.Y
}

func unit(v r2.Vec) r2.Vec {
	return v.Scale(1.0 / norm(v))
}

// perpendicular returns v rotated a quarter turn, (-y, x)
func perpendicular(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}

// ccw reports whether the triple (a, b, c) winds counter-clockwise.
// The inequality is strict, so collinear triples are not
// counter-clockwise; segmentsIntersect therefore treats touching or
// collinear segments as non-intersecting.
func ccw(a, b, c r2.Vec) bool {
	return (c.Y-a.Y)*(b.X-a.X) > (b.Y-a.Y)*(c.X-a.X)
}

// segmentsIntersect reports whether segment ab strictly crosses
// segment cd
func segmentsIntersect(a, b, c, d r2.Vec) bool {
	return ccw(a, c, d) != ccw(b, c, d) && ccw(a, b, c) != ccw(a, b, d)
}
