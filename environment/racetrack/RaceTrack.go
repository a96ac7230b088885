// Package racetrack implements a top-down car racing environment. A
// vehicle drives a closed circuit whose drivable corridor surrounds a
// spline centerline, sensing the corridor edges with distance rays and
// earning reward for fast, forward, gate-crossing progress. Episodes
// end when the vehicle leaves the corridor, stops making progress, or
// reaches a step limit.
//
// The environment is deterministic given a seed and an action
// sequence, runs fully headless, and shares its immutable Track
// geometry safely between any number of concurrently stepped vehicles.
package racetrack

import (
	"fmt"
	"image/color"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/goracer/environment"
	ts "github.com/samuelfneumann/goracer/timestep"
	"github.com/samuelfneumann/goracer/utils/floatutils"
)

// ActionDims is the number of action components: steer, throttle,
// brake
const ActionDims int = 3

// Action bounds. Components outside these bounds are clamped, never
// rejected.
var (
	steerBounds    = r1.Interval{Min: -1.0, Max: 1.0}
	throttleBounds = r1.Interval{Min: 0.0, Max: 1.0}
	brakeBounds    = r1.Interval{Min: 0.0, Max: 1.0}
)

// Action is a single tick's control input with named components.
// Steer turns the vehicle (negative left, positive right in screen
// coordinates), throttle accelerates, and brake decelerates.
type Action struct {
	Steer    float64 // in [-1, 1]
	Throttle float64 // in [0, 1]
	Brake    float64 // in [0, 1]
}

// Vector returns the action as the 3-vector form consumed by Step
func (a Action) Vector() *mat.VecDense {
	return mat.NewVecDense(ActionDims, []float64{a.Steer, a.Throttle, a.Brake})
}

// RaceTrack implements a single vehicle racing a Track. The
// environment's Task determines rewards and episode ends; the Drive
// task implements the standard racing reward scheme.
type RaceTrack struct {
	environment.Task
	track    *Track
	discount float64

	// Vehicle state
	position     r2.Vec
	prevPosition r2.Vec
	heading      float64 // degrees, unbounded
	speed        float64
	colour       color.RGBA

	// Episode bookkeeping
	distance              float64
	lifetime              int
	nextGate              int
	stepsSinceGate        int
	stepsSinceImprovement int
	bestFitness           float64
	crashed               bool
	crossedGate           bool

	rng      distuv.Uniform
	lastStep ts.TimeStep
}

// New creates a vehicle on track with the argument task and discount,
// resetting it to the first timestep of its first episode. All
// randomness in the environment (the cosmetic vehicle colour) is drawn
// from a generator seeded with seed, so identical seeds and action
// sequences reproduce identical episodes. Tasks that need access to
// the vehicle and track state, such as Drive, are registered with the
// new environment before the first reset.
func New(track *Track, task environment.Task, discount float64,
	seed uint64) (*RaceTrack, ts.TimeStep, error) {
	if track == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: track cannot be nil")
	}
	if task == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: task cannot be nil")
	}

	r := &RaceTrack{
		Task:     task,
		track:    track,
		discount: discount,
		rng: distuv.Uniform{
			Min: 0.0,
			Max: 1.0,
			Src: rand.NewSource(seed),
		},
	}

	if racer, ok := task.(raceTask); ok {
		racer.registerEnv(r)
	}

	firstStep, err := r.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: could not reset: %v", err)
	}
	return r, firstStep, nil
}

// Reset begins a new episode. The spawn offset is drawn from the
// task's Starter: the vehicle is placed that many spawn spacings
// behind the first centerline sample along the initial tangent,
// heading down the tangent at rest, with a fresh cosmetic colour and
// every episode counter zeroed. Negative and non-finite offsets are
// treated as zero.
func (r *RaceTrack) Reset() (ts.TimeStep, error) {
	start := r.Start()
	if start.Len() != 1 {
		return ts.TimeStep{}, fmt.Errorf("reset: starter must produce a "+
			"single spawn offset, got %v features", start.Len())
	}

	offset := start.AtVec(0)
	if math.IsNaN(offset) || math.IsInf(offset, 0) || offset < 0 {
		offset = 0
	}

	r.position, r.heading = r.track.initialPose(offset)
	r.prevPosition = r.position
	r.speed = 0
	r.distance = 0
	r.lifetime = 0
	r.nextGate = 0
	r.stepsSinceGate = 0
	r.stepsSinceImprovement = 0
	r.bestFitness = 0
	r.crashed = false
	r.crossedGate = false
	r.colour = r.randomColour()

	firstStep := ts.New(ts.First, 0, r.discount, r.observe(), 0)
	r.lastStep = firstStep
	return firstStep, nil
}

// Step advances the simulation one tick under the argument action.
// Action components are clamped in place to their bounds before use.
// The returned boolean indicates whether the step was the last in the
// episode. Once an episode has ended, Step returns an error until
// Reset is called.
func (r *RaceTrack) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if r.lastStep.Last() {
		return ts.TimeStep{}, true, fmt.Errorf("step: episode has ended, " +
			"call Reset to begin a new episode")
	}
	if a == nil || a.Len() != ActionDims {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must have "+
			"%v components (steer, throttle, brake)", ActionDims)
	}

	a.SetVec(0, floatutils.ClipInterval(a.AtVec(0), steerBounds))
	a.SetVec(1, floatutils.ClipInterval(a.AtVec(1), throttleBounds))
	a.SetVec(2, floatutils.ClipInterval(a.AtVec(2), brakeBounds))
	action := Action{
		Steer:    a.AtVec(0),
		Throttle: a.AtVec(1),
		Brake:    a.AtVec(2),
	}

	r.integrate(action)

	r.crashed = !r.track.Drivable(r.position.X, r.position.Y)
	r.crossedGate = false
	if !r.crashed {
		r.stepsSinceGate++
		if r.track.gates[r.nextGate].Crossed(r.prevPosition, r.position) {
			r.crossedGate = true
			r.nextGate = (r.nextGate + 1) % len(r.track.gates)
			r.stepsSinceGate = 0
		}
	}

	obs := r.observe()
	reward := r.GetReward(r.lastStep.Observation, a, obs)
	if !r.crashed {
		r.updateProgress(reward)
	}
	r.distance += r.speed
	r.lifetime++

	nextStep := ts.New(ts.Mid, reward, r.discount, obs, r.lastStep.Number+1)
	last := r.End(&nextStep)
	r.lastStep = nextStep
	return nextStep, last, nil
}

// integrate applies one tick of the vehicle kinematics: steering turns
// the heading, throttle and brake change the speed, drag decays it,
// and the vehicle moves along its heading at the new speed. The
// previous position is retained for the crash and gate tests.
func (r *RaceTrack) integrate(a Action) {
	cfg := r.track.cfg

	r.heading += a.Steer * cfg.SteerGain
	r.speed += a.Throttle*cfg.AccelGain - a.Brake*cfg.BrakeGain
	r.speed *= cfg.Drag
	r.speed = floatutils.Clip(r.speed, 0, cfg.MaxSpeed)

	r.prevPosition = r.position
	rad := radians(r.heading)
	r.position = r.position.Add(
		r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}.Scale(r.speed))
}

// updateProgress updates the stagnation bookkeeping after a
// non-crashing tick. Fitness progress is the cumulative distance
// before this tick's movement is banked, plus this tick's reward; any
// tick that fails to strictly improve the best fitness seen this
// episode counts toward stagnation.
func (r *RaceTrack) updateProgress(reward float64) {
	fitness := r.distance + reward
	if fitness > r.bestFitness {
		r.bestFitness = fitness
		r.stepsSinceImprovement = 0
	} else {
		r.stepsSinceImprovement++
	}
}

// observe builds the observation vector: each sensor ray's distance
// normalized by the sensor range, then the speed normalized by the
// top speed. Every component lies in [0, 1].
func (r *RaceTrack) observe() *mat.VecDense {
	cfg := r.track.cfg
	sensorRange := cfg.SensorStride * float64(cfg.SensorProbes)

	obs := make([]float64, len(cfg.SensorAngles)+1)
	for i, angle := range cfg.SensorAngles {
		obs[i] = r.castRay(angle) / sensorRange
	}
	obs[len(cfg.SensorAngles)] = r.speed / cfg.MaxSpeed

	return mat.NewVecDense(len(obs), obs)
}

// castRay marches a ray from the vehicle position at the given
// heading-relative angle in degrees, probing the field every stride,
// and returns the distance to the first non-drivable probe. A ray
// that exhausts its probes reports the full sensor range.
func (r *RaceTrack) castRay(relAngle float64) float64 {
	cfg := r.track.cfg
	rad := radians(r.heading + relAngle)
	dx, dy := math.Cos(rad), math.Sin(rad)

	for i := 1; i < cfg.SensorProbes; i++ {
		d := cfg.SensorStride * float64(i)
		if !r.track.Drivable(r.position.X+dx*d, r.position.Y+dy*d) {
			return d
		}
	}
	return cfg.SensorStride * float64(cfg.SensorProbes)
}

// randomColour draws a cosmetic vehicle colour with each channel
// uniform over {50, ..., 255}, bright enough to stand out against the
// track surface.
func (r *RaceTrack) randomColour() color.RGBA {
	channel := func() uint8 {
		return uint8(50 + int(r.rng.Rand()*206.0))
	}
	return color.RGBA{R: channel(), G: channel(), B: channel(), A: 0xFF}
}

// CurrentTimeStep returns the last TimeStep of the environment
func (r *RaceTrack) CurrentTimeStep() ts.TimeStep {
	return r.lastStep
}

// Track returns the immutable track geometry the vehicle races on
func (r *RaceTrack) Track() *Track {
	return r.track
}

// Position returns the vehicle's position in world coordinates
func (r *RaceTrack) Position() r2.Vec {
	return r.position
}

// Velocity returns the vehicle's displacement over the last tick
func (r *RaceTrack) Velocity() r2.Vec {
	return r.position.Sub(r.prevPosition)
}

// Heading returns the vehicle's heading in degrees. Headings are
// unbounded; a vehicle that turns full circle has its heading grow by
// 360.
func (r *RaceTrack) Heading() float64 {
	return r.heading
}

// Speed returns the vehicle's speed in world units per tick
func (r *RaceTrack) Speed() float64 {
	return r.speed
}

// Colour returns the vehicle's cosmetic colour for rendering
func (r *RaceTrack) Colour() color.RGBA {
	return r.colour
}

// Crashed reports whether the vehicle left the drivable corridor on
// the most recent tick
func (r *RaceTrack) Crashed() bool {
	return r.crashed
}

// CrossedGate reports whether the vehicle crossed its expected gate on
// the most recent tick
func (r *RaceTrack) CrossedGate() bool {
	return r.crossedGate
}

// NextGate returns the index of the gate the vehicle must cross next
func (r *RaceTrack) NextGate() int {
	return r.nextGate
}

// StepsSinceGate returns the number of ticks since the vehicle last
// crossed a gate
func (r *RaceTrack) StepsSinceGate() int {
	return r.stepsSinceGate
}

// StepsSinceImprovement returns the number of consecutive ticks for
// which fitness progress has not improved
func (r *RaceTrack) StepsSinceImprovement() int {
	return r.stepsSinceImprovement
}

// Distance returns the cumulative distance traveled this episode
func (r *RaceTrack) Distance() float64 {
	return r.distance
}

// Lifetime returns the number of ticks the vehicle has survived this
// episode
func (r *RaceTrack) Lifetime() int {
	return r.lifetime
}

// DiscountSpec returns the discounting specification of the
// environment
func (r *RaceTrack) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{r.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment. Every observation component is bounded in [0, 1] by
// construction.
func (r *RaceTrack) ObservationSpec() environment.Spec {
	dims := len(r.track.cfg.SensorAngles) + 1
	shape := mat.NewVecDense(dims, nil)
	lowerBound := mat.NewVecDense(dims, nil)

	ones := make([]float64, dims)
	for i := range ones {
		ones[i] = 1.0
	}
	upperBound := mat.NewVecDense(dims, ones)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (r *RaceTrack) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{steerBounds.Min,
		throttleBounds.Min, brakeBounds.Min})
	upperBound := mat.NewVecDense(ActionDims, []float64{steerBounds.Max,
		throttleBounds.Max, brakeBounds.Max})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}

func (r *RaceTrack) String() string {
	return fmt.Sprintf("RaceTrack  |  position (%.2f, %.2f)  |  heading "+
		"%.2f deg  |  speed %.2f  |  next gate %d", r.position.X,
		r.position.Y, r.heading, r.speed, r.nextGate)
}
