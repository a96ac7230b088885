package racetrack

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// field is a rasterized membership grid for the drivable corridor.
// It is stamped once at construction with a filled disk of the
// corridor radius at every centerline sample, after which queries are
// constant time. The grid is never written again, so it is safe for
// concurrent readers.
type field struct {
	width, height int
	cells         []bool
}

func newField(width, height int, centerline []r2.Vec, radius float64) *field {
	f := &field{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}

	r := int(radius)
	radius2 := radius * radius
	for _, c := range centerline {
		f.stampDisk(int(c.X), int(c.Y), r, radius2)
	}
	return f
}

// stampDisk marks every cell within the disk of squared radius
// radius2 centered at (cx, cy), clipped to the grid
func (f *field) stampDisk(cx, cy, r int, radius2 float64) {
	for y := cy - r; y <= cy+r; y++ {
		if y < 0 || y >= f.height {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < 0 || x >= f.width {
				continue
			}
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy <= radius2 {
				f.cells[y*f.width+x] = true
			}
		}
	}
}

// drivable reports corridor membership for a world coordinate. The
// coordinate is truncated toward zero before lookup, matching the
// probe behavior of the sensors; anything outside the grid is
// non-drivable.
func (f *field) drivable(x, y float64) bool {
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= f.width || iy >= f.height {
		return false
	}
	return f.cells[iy*f.width+ix]
}
