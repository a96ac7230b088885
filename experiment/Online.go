package experiment

import (
	"fmt"
	"time"

	env "github.com/samuelfneumann/goracer/environment"
	"github.com/samuelfneumann/goracer/experiment/checkpointer"
	"github.com/samuelfneumann/goracer/experiment/tracker"
	ts "github.com/samuelfneumann/goracer/timestep"
	"github.com/samuelfneumann/goracer/utils/progressbar"
)

// Online is an Experiment that runs a Controller online only. No
// offline evaluation is performed.
type Online struct {
	env.Environment
	Controller
	maxSteps      uint
	currentSteps  uint
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	progress      *progressbar.ProgressBar
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given controller. The steps parameter determines
// how many timesteps the experiment is run for, and the t parameter
// is a sequence of tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, c Controller, steps uint,
	t ...tracker.Tracker) *Online {
	return &Online{e, c, steps, 0, t, nil, nil}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RegisterCheckpointer registers a checkpointer.Checkpointer with an
// Experiment so that snapshots are saved while the experiment runs
func (o *Online) RegisterCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// TrackProgress attaches a progress bar of the given character width
// to the experiment. The bar is displayed when Run() begins and
// closed when Run() returns.
func (o *Online) TrackProgress(width int) {
	o.progress = progressbar.NewProgressBar(width, int(o.maxSteps),
		time.Second, false)
}

// RunEpisode runs a single episode of the experiment, returning
// whether the experiment's timestep limit has been reached
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: could not reset "+
			"environment: %v", err)
	}
	o.track(step)

	// Run the next timestep
	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Controller.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: could not step "+
				"environment: %v", err)
		}

		// Cache the environment step in each Tracker
		o.track(step)

		// Save any snapshots that have come due
		if err := o.checkpoint(step); err != nil {
			return false, fmt.Errorf("runEpisode: could not checkpoint: %v",
				err)
		}

		if o.progress != nil {
			o.progress.Increment()
		}
	}

	// Return whether or not the max timestep limit has been reached
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	if o.progress != nil {
		o.progress.Display()
		defer o.progress.Close()
	}

	ended := false
	for !ended {
		var err error
		ended, err = o.RunEpisode()
		if err != nil {
			return err
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track tracks the current timestep by caching its data in each tracker
func (o *Online) track(step ts.TimeStep) {
	for _, t := range o.trackers {
		t.Track(step)
	}
}

// checkpoint offers the current timestep to each checkpointer
func (o *Online) checkpoint(step ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(step); err != nil {
			return err
		}
	}
	return nil
}
