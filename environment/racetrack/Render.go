package racetrack

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/spatial/r2"
)

// Vehicle car body dimensions in world units
const (
	carLength float64 = 36.0
	carWidth  float64 = 18.0
	carCorner float64 = 6.0
)

// Vehicle is any vehicle a Renderer can draw. A *RaceTrack is a
// Vehicle, so frames can be rendered directly from environments.
type Vehicle interface {
	Position() r2.Vec
	Heading() float64
	Colour() color.RGBA
}

// Renderer draws frames of a Track and the Vehicles driving it. The
// static track image is rasterized once at construction; each Frame
// call copies it and draws the vehicles on top, so rendering cost per
// frame is proportional to the number of vehicles only.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	track      *Track
	background image.Image
	last       image.Image

	grassShade color.RGBA
	roadShade  color.RGBA
	gateShade  color.RGBA
}

// NewRenderer returns a Renderer for the given track with the standard
// colour scheme
func NewRenderer(track *Track) (*Renderer, error) {
	if track == nil {
		return nil, fmt.Errorf("newRenderer: no track to render")
	}

	r := &Renderer{
		track:      track,
		grassShade: color.RGBA{R: 30, G: 120, B: 30, A: 255},
		roadShade:  color.RGBA{R: 60, G: 60, B: 60, A: 255},
		gateShade:  color.RGBA{R: 255, G: 255, B: 0, A: 255},
	}
	r.background = r.renderTrack()
	return r, nil
}

// renderTrack rasterizes the static parts of the scene: grass, the
// road corridor, and the progress gates
func (r *Renderer) renderTrack() image.Image {
	width, height := r.track.Bounds()
	dc := gg.NewContext(int(width), int(height))

	dc.SetColor(r.grassShade)
	dc.Clear()

	// The road is the union of corridor disks around every centerline
	// sample, matching the drivable region exactly
	dc.SetColor(r.roadShade)
	for _, c := range r.track.Centerline() {
		dc.DrawCircle(c.X, c.Y, r.track.CorridorRadius())
	}
	dc.Fill()

	dc.SetColor(r.gateShade)
	dc.SetLineWidth(3.0)
	for _, gate := range r.track.Gates() {
		dc.DrawLine(gate.A.X, gate.A.Y, gate.B.X, gate.B.Y)
	}
	dc.Stroke()

	return dc.Image()
}

// Frame renders the track with the given vehicles drawn on top and
// returns the rendered image. The returned image remains valid after
// later Frame calls.
func (r *Renderer) Frame(vehicles ...Vehicle) image.Image {
	dc := gg.NewContextForImage(r.background)

	for _, vehicle := range vehicles {
		pos := vehicle.Position()

		dc.Push()
		dc.RotateAbout(gg.Radians(vehicle.Heading()), pos.X, pos.Y)
		dc.DrawRoundedRectangle(pos.X-carLength/2, pos.Y-carWidth/2,
			carLength, carWidth, carCorner)
		dc.SetColor(vehicle.Colour())
		dc.Fill()
		dc.Pop()
	}

	r.last = dc.Image()
	return r.last
}

// SavePNG writes the most recently rendered frame to a PNG file at
// the given path
func (r *Renderer) SavePNG(path string) error {
	if r.last == nil {
		return fmt.Errorf("savePNG: no frame rendered yet")
	}
	return gg.SavePNG(path, r.last)
}
