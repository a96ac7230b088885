// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either a
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes the reason an episode ended. Episodes may end due
// to reaching an environmental terminal state or by being cut off,
// e.g. at a step limit. The distinction matters to algorithms that
// treat cutoffs differently from true terminations when bootstrapping.
type EndType int

const (
	// TerminalStateReached denotes that an episode ended because the
	// environment reached a terminal state
	TerminalStateReached EndType = iota

	// Timeout denotes that an episode was cut off, e.g. by a step
	// limit or some other condition outside the environmental state
	Timeout

	// Nil denotes that an episode has not yet ended
	Nil
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
	endType     EndType
}

// New constructs a new TimeStep. TimeSteps are constructed with a Nil
// EndType; Enders set the EndType when they end an episode.
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{t, r, d, o, n, Nil}
}

// SetEnd sets the reason for which the TimeStep ended its episode
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// End returns the reason for which the TimeStep ended its episode,
// or Nil if the TimeStep did not end an episode
func (t *TimeStep) End() EndType {
	return t.endType
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}
