// Package checkpointer implements periodic saving of objects during
// an experiment
package checkpointer

import (
	ts "github.com/samuelfneumann/goracer/timestep"
)

// Savable is an object that can save a snapshot of itself to a file
type Savable interface {
	Save(filename string) error
}

// SavableFunc adapts an ordinary function to the Savable interface
type SavableFunc func(filename string) error

// Save calls the wrapped function
func (f SavableFunc) Save(filename string) error {
	return f(filename)
}

// Checkpointer saves snapshots of Savable objects based on
// timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
