// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/goracer/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when and how episodes end. An Ender inspects the
// most recent TimeStep and, if the episode should end, modifies the
// TimeStep in place so that its StepType is timestep.Last and its
// EndType records why the episode ended.
type Ender interface {
	// End takes a pointer to a TimeStep and returns whether the
	// episode ended at this step, modifying the TimeStep if so
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme and termination scheme for some
// environment. A Task determines what an agent should accomplish in an
// environment: which transitions are rewarded, which states start
// episodes, and which steps end them.
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for a transition from state to
	// nextState under action
	GetReward(state, action, nextState mat.Vector) float64

	// AtGoal returns whether the argument state is a goal state
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	// over all timesteps
	Min() float64
	Max() float64

	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a
// Task to complete. Reset begins a new episode, returning its first
// TimeStep. Step takes an action, returning the next TimeStep, whether
// that step was the last in the episode, and any error. Once a step is
// the last in its episode, further calls to Step return an error until
// Reset is called.
type Environment interface {
	Task

	Reset() (ts.TimeStep, error)
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)

	// CurrentTimeStep returns the last TimeStep of the environment
	CurrentTimeStep() ts.TimeStep

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
