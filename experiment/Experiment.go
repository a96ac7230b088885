// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"github.com/samuelfneumann/goracer/environment/envconfig"
	"github.com/samuelfneumann/goracer/experiment/checkpointer"
	"github.com/samuelfneumann/goracer/experiment/tracker"
	ts "github.com/samuelfneumann/goracer/timestep"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments will track environment TimeSteps, caching each TimeStep
// in RAM to be later saved to disk. The Save() function
// will then take all cached data and save it to disk. This is usually
// performed after an experiment has been run. The Run() method will
// run all episodes until the maximum timestep limit is reached, or some
// other ending condition is reached. The RunEpisode() function will
// run a single episode.
//
// In order to save data, Experiments use Trackers. Trackers determine
// which data generated during the experiment is saved. Experiments will
// send each TimeStep to Trackers using the Tracker's Track() method.
// The Tracker then determines which data from the TimeStep it caches
// and saves. New Trackers can be registered with an Experiment through
// the constructor or through an Experiment's Register() function.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Tracks current timestep by sending it to Trackers
	track(ts.TimeStep)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running) experiment.
	// Useful if you want to track data only after a specified event.
	Register(t tracker.Tracker)

	// Saves snapshots of registered objects periodically
	checkpoint(ts.TimeStep) error
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type
	MaxSteps uint
	EnvConf  envconfig.Config
}

// CreateExp returns the experiment described by the Config, driven by
// the given Controller, tracking data with the given Trackers and
// saving snapshots with the given Checkpointers
func (c Config) CreateExp(seed uint64, controller Controller,
	t []tracker.Tracker, check []checkpointer.Checkpointer) (Experiment,
	error) {
	env, _, err := c.EnvConf.Create(seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %v",
			err)
	}

	switch c.Type {
	case OnlineExp:
		exp := NewOnline(env, controller, c.MaxSteps, t...)
		for _, ch := range check {
			exp.RegisterCheckpointer(ch)
		}
		return exp, nil
	}

	panic(fmt.Sprintf("createExp: no such experiment type %v", c.Type))
}
