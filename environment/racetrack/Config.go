package racetrack

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// WorldWidth and WorldHeight are the default world bounds in
	// world units. Any coordinate outside the world is non-drivable.
	WorldWidth  int = 800
	WorldHeight int = 600

	// CorridorRadius is the default drivable half-width around the
	// track centerline
	CorridorRadius float64 = 40.0

	// CenterlineSamples is the default number of samples the
	// centerline spline is rasterized to
	CenterlineSamples int = 600

	// GateCount is the default number of progress gates placed along
	// the centerline
	GateCount int = 12

	// TangentLookahead is the number of centerline samples ahead used
	// to estimate the local tangent for gate orientation and the
	// spawn heading
	TangentLookahead int = 5

	// MaxSpeed is the default top speed of a vehicle in world units
	// per tick
	MaxSpeed float64 = 8.0

	// SteerGain is the default heading change in degrees per tick at
	// full steer
	SteerGain float64 = 4.0

	// AccelGain and BrakeGain are the default speed changes per tick
	// at full throttle and full brake
	AccelGain float64 = 0.25
	BrakeGain float64 = 0.30

	// Drag is the default multiplicative speed decay applied each tick
	Drag float64 = 0.98

	// SensorStride is the default distance in world units between
	// consecutive probes along a sensor ray, and SensorProbes the
	// default number of probes per ray. Their product is the sensor
	// range: a ray that hits nothing reports the full range.
	SensorStride float64 = 4.0
	SensorProbes int     = 150

	// SpawnSpacing is the default distance in world units between
	// consecutive integer spawn offsets, used to spread a population
	// of vehicles backward along the initial tangent
	SpawnSpacing float64 = 20.0
)

// DefaultControlPoints returns the control polygon of the default
// track, a closed circuit fitting the default world bounds.
func DefaultControlPoints() []r2.Vec {
	return []r2.Vec{
		{X: 120, Y: 520},
		{X: 250, Y: 560},
		{X: 500, Y: 540},
		{X: 700, Y: 450},
		{X: 740, Y: 300},
		{X: 700, Y: 160},
		{X: 500, Y: 80},
		{X: 250, Y: 120},
		{X: 120, Y: 250},
	}
}

// DefaultSensorAngles returns the default heading-relative sensor ray
// angles in degrees, ordered left to right across the vehicle's nose.
func DefaultSensorAngles() []float64 {
	return []float64{-75, -50, -25, 0, 25, 50, 75}
}

// Config collects the tunable parameters of a track and of the
// vehicles that race it. Vehicles sharing a Track share its kinematic
// and sensor parameters, so that every vehicle on a track obeys the
// same physics.
type Config struct {
	// World bounds in world units
	Width, Height int

	// Centerline geometry
	ControlPoints  []r2.Vec
	Samples        int
	CorridorRadius float64

	// Progress gates
	Gates            int
	TangentLookahead int

	// Vehicle kinematics
	MaxSpeed  float64
	SteerGain float64
	AccelGain float64
	BrakeGain float64
	Drag      float64

	// Sensor array
	SensorAngles []float64
	SensorStride float64
	SensorProbes int

	// Spawn placement
	SpawnSpacing float64
}

// DefaultConfig returns the Config describing the default track and
// vehicle parameters.
func DefaultConfig() Config {
	return Config{
		Width:            WorldWidth,
		Height:           WorldHeight,
		ControlPoints:    DefaultControlPoints(),
		Samples:          CenterlineSamples,
		CorridorRadius:   CorridorRadius,
		Gates:            GateCount,
		TangentLookahead: TangentLookahead,
		MaxSpeed:         MaxSpeed,
		SteerGain:        SteerGain,
		AccelGain:        AccelGain,
		BrakeGain:        BrakeGain,
		Drag:             Drag,
		SensorAngles:     DefaultSensorAngles(),
		SensorStride:     SensorStride,
		SensorProbes:     SensorProbes,
		SpawnSpacing:     SpawnSpacing,
	}
}

// Validate returns an error describing the first invalid parameter of
// the Config, or nil if the Config describes a constructible track.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("world bounds must be positive, got %vx%v",
			c.Width, c.Height)
	}
	if len(c.ControlPoints) < 4 {
		return fmt.Errorf("need at least 4 control points to form a "+
			"closed spline, got %v", len(c.ControlPoints))
	}
	if c.Samples/len(c.ControlPoints) < 2 {
		return fmt.Errorf("%v samples give fewer than 2 samples per "+
			"control span of %v points", c.Samples, len(c.ControlPoints))
	}
	if c.CorridorRadius <= 0 {
		return fmt.Errorf("corridor radius must be positive, got %v",
			c.CorridorRadius)
	}
	if c.Gates <= 0 {
		return fmt.Errorf("gate count must be positive, got %v", c.Gates)
	}
	if c.Gates > c.Samples {
		return fmt.Errorf("cannot place %v gates on %v centerline samples",
			c.Gates, c.Samples)
	}
	if c.TangentLookahead <= 0 {
		return fmt.Errorf("tangent lookahead must be positive, got %v",
			c.TangentLookahead)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("max speed must be positive, got %v", c.MaxSpeed)
	}
	if c.Drag <= 0 || c.Drag > 1 {
		return fmt.Errorf("drag must be in (0, 1], got %v", c.Drag)
	}
	if len(c.SensorAngles) == 0 {
		return fmt.Errorf("need at least one sensor angle")
	}
	if c.SensorStride <= 0 || c.SensorProbes <= 1 {
		return fmt.Errorf("sensor rays need positive stride and more than "+
			"one probe, got stride %v with %v probes", c.SensorStride,
			c.SensorProbes)
	}
	if c.SpawnSpacing < 0 {
		return fmt.Errorf("spawn spacing cannot be negative, got %v",
			c.SpawnSpacing)
	}
	return nil
}
