package experiment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/goracer/timestep"
)

// Controller selects the action to take on each timestep of an
// experiment. Controllers decide, Environments simulate: a Controller
// may be a scripted driving policy, a replay of recorded actions, or
// an adapter around a learned policy.
type Controller interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
}

// ControllerFunc adapts an ordinary function to the Controller
// interface
type ControllerFunc func(t ts.TimeStep) *mat.VecDense

// SelectAction calls the wrapped function
func (f ControllerFunc) SelectAction(t ts.TimeStep) *mat.VecDense {
	return f(t)
}
