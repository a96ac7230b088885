package racetrack

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goracer/environment"
	ts "github.com/samuelfneumann/goracer/timestep"
	"github.com/samuelfneumann/goracer/utils/floatutils"
)

const (
	// CrashPenalty is the default reward for leaving the drivable
	// corridor. A crash ends the episode and the crash tick's reward
	// is exactly this value, with no other terms.
	CrashPenalty float64 = -200.0

	// GateBonus is the default reward for crossing the expected gate
	GateBonus float64 = 200.0

	// AlignmentWeight scales the component of the vehicle's velocity
	// along the local centerline tangent. Only forward alignment is
	// rewarded; driving against the tangent earns nothing.
	AlignmentWeight float64 = 0.05

	// ForwardWeight scales the raw speed reward
	ForwardWeight float64 = 0.05

	// SurvivalBonus is the default reward for surviving a tick on the
	// corridor
	SurvivalBonus float64 = 0.02

	// SpinPenalty is the default reward for steering hard while
	// nearly stopped, discouraging policies that spin in place to
	// farm the survival bonus
	SpinPenalty float64 = -0.5

	// SpinSpeedCeiling and SpinSteerFloor bound the anti-spin
	// penalty: it applies when speed is below the ceiling while the
	// magnitude of the clamped steer exceeds the floor
	SpinSpeedCeiling float64 = 1.0
	SpinSteerFloor   float64 = 0.5

	// StagnationSteps is the default number of consecutive
	// non-improving ticks after which an episode is cut off
	StagnationSteps int = 100

	// EpisodeSteps is the default episode step limit
	EpisodeSteps int = 1500
)

// tangentEpsilon keeps the alignment reward finite on degenerate
// tangents
const tangentEpsilon float64 = 1e-6

// Weights are the signed reward weights of a Drive task. The reward
// for a non-crashing tick is
//
//	max(0, alignment·Alignment) + speed·Forward + Survival
//	  + Spin (when spinning in place) + Gate (when crossing a gate)
//
// and a crashing tick's reward is exactly Crash.
type Weights struct {
	Crash     float64
	Gate      float64
	Alignment float64
	Forward   float64
	Survival  float64
	Spin      float64
}

// DefaultWeights returns the standard racing reward weights
func DefaultWeights() Weights {
	return Weights{
		Crash:     CrashPenalty,
		Gate:      GateBonus,
		Alignment: AlignmentWeight,
		Forward:   ForwardWeight,
		Survival:  SurvivalBonus,
		Spin:      SpinPenalty,
	}
}

// raceTask is implemented by Tasks that need access to the vehicle and
// track state of the RaceTrack they reward. New registers such tasks
// with the environment it constructs.
type raceTask interface {
	environment.Task
	registerEnv(*RaceTrack)
}

// Drive implements the standard racing Task: drive the circuit fast
// and forward, crossing the progress gates in order. Rewards favor
// speed and alignment with the centerline, gate crossings earn a
// large bonus, crashing is punished and terminal, and episodes are
// cut off after a step limit or when fitness progress stagnates.
//
// Drive must be registered with a RaceTrack environment before its
// GetReward or AtGoal methods are called; New performs the
// registration.
type Drive struct {
	environment.Starter
	env *RaceTrack

	weights         Weights
	stagnationSteps int

	crashEnder      environment.Ender
	stagnationEnder environment.Ender
	stepEnder       environment.Ender
}

// NewDrive returns a new Drive task with the default reward weights.
// The starter determines spawn offsets, episodeSteps bounds the
// episode length, and stagnationSteps is the number of consecutive
// non-improving ticks after which the episode is cut off.
func NewDrive(s environment.Starter, episodeSteps,
	stagnationSteps int) *Drive {
	return NewWeightedDrive(s, episodeSteps, stagnationSteps,
		DefaultWeights())
}

// NewWeightedDrive returns a new Drive task with custom reward weights
func NewWeightedDrive(s environment.Starter, episodeSteps,
	stagnationSteps int, w Weights) *Drive {
	return &Drive{
		Starter:         s,
		weights:         w,
		stagnationSteps: stagnationSteps,
		stepEnder:       environment.NewStepLimit(episodeSteps),
	}
}

// registerEnv gives the task access to the environment it rewards and
// installs the enders that watch the environment's crash and
// stagnation state.
func (d *Drive) registerEnv(env *RaceTrack) {
	d.env = env
	d.crashEnder = environment.NewFunctionEnder(
		func(*mat.VecDense) bool { return env.Crashed() },
		ts.TerminalStateReached,
	)
	d.stagnationEnder = environment.NewFunctionEnder(
		func(*mat.VecDense) bool {
			return env.StepsSinceImprovement() > d.stagnationSteps
		},
		ts.Timeout,
	)
}

// GetReward returns the reward for the most recent tick. The state and
// nextState arguments are ignored in favor of the registered
// environment's vehicle and track state; the action argument supplies
// the clamped steer for the anti-spin penalty.
func (d *Drive) GetReward(_, action, _ mat.Vector) float64 {
	if d.env == nil {
		panic("getReward: Drive task is not registered with an environment")
	}

	if d.env.Crashed() {
		return d.weights.Crash
	}

	track := d.env.Track()
	tangent := track.tangentAt(track.nearestIndex(d.env.Position()))
	alignment := dot(d.env.Velocity(), tangent) / (norm(tangent) + tangentEpsilon)

	reward := floatutils.Max(0, alignment*d.weights.Alignment)
	reward += d.env.Speed() * d.weights.Forward
	reward += d.weights.Survival

	if d.env.Speed() < SpinSpeedCeiling &&
		math.Abs(action.AtVec(0)) > SpinSteerFloor {
		reward += d.weights.Spin
	}

	if d.env.CrossedGate() {
		reward += d.weights.Gate
	}
	return reward
}

// AtGoal reports whether the vehicle crossed its expected gate on the
// most recent tick. A racing episode has no terminal goal state; gate
// crossings are the per-tick notion of progress.
func (d *Drive) AtGoal(mat.Matrix) bool {
	if d.env == nil {
		panic("atGoal: Drive task is not registered with an environment")
	}
	return d.env.CrossedGate()
}

// Min returns the minimum attainable reward over all timesteps
func (d *Drive) Min() float64 {
	return d.weights.Crash
}

// Max returns the maximum attainable reward over all timesteps: a
// gate crossing at top speed, fully aligned with the centerline
func (d *Drive) Max() float64 {
	maxSpeed := MaxSpeed
	if d.env != nil {
		maxSpeed = d.env.track.cfg.MaxSpeed
	}
	return d.weights.Gate + maxSpeed*(d.weights.Alignment+d.weights.Forward) +
		d.weights.Survival
}

// RewardSpec returns the reward specification of the Task
func (d *Drive) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{d.Min()})
	upperBound := mat.NewVecDense(1, []float64{d.Max()})

	return environment.NewSpec(shape, environment.Reward, lowerBound,
		upperBound, environment.Continuous)
}

// End determines if a timestep is the last in its episode, checking
// the crash, stagnation, and step-limit enders in that order and
// modifying the TimeStep's StepType and EndType on the first that
// fires. Crashes end episodes terminally; stagnation and the step
// limit are cutoffs.
func (d *Drive) End(t *ts.TimeStep) bool {
	if d.crashEnder != nil && d.crashEnder.End(t) {
		return true
	}
	if d.stagnationEnder != nil && d.stagnationEnder.End(t) {
		return true
	}
	return d.stepEnder.End(t)
}
