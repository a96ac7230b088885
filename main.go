package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/goracer/environment"
	"github.com/samuelfneumann/goracer/environment/racetrack"
	"github.com/samuelfneumann/goracer/experiment"
	"github.com/samuelfneumann/goracer/experiment/tracker"
	ts "github.com/samuelfneumann/goracer/timestep"
)

func main() {
	var seed uint64 = 192382

	// Create the track
	track, err := racetrack.NewTrack(racetrack.DefaultConfig())
	if err != nil {
		panic(err)
	}

	// Spawn each episode uniformly within two offsets of the starting
	// line
	bounds := r1.Interval{Min: 0.0, Max: 2.0}
	s := environment.NewUniformStarter([]r1.Interval{bounds}, seed)

	task := racetrack.NewDrive(s, 1500, racetrack.StagnationSteps)
	env, _, err := racetrack.New(track, task, 1.0, seed)
	if err != nil {
		panic(err)
	}

	// A scripted driver: steer toward the diagonal ray with more
	// room, brake when the forward ray gets short
	driver := experiment.ControllerFunc(func(step ts.TimeStep) *mat.VecDense {
		obs := step.Observation
		left, forward, right := obs.AtVec(1), obs.AtVec(3), obs.AtVec(5)

		action := racetrack.Action{
			Steer:    2.5 * (right - left),
			Throttle: 1.0,
		}
		if forward < 0.15 {
			action.Throttle = 0.0
			action.Brake = 1.0
		}
		return action.Vector()
	})

	// Experiment
	returns := tracker.NewReturn("./data.bin")
	e := experiment.NewOnline(env, driver, 100_000, returns)
	e.TrackProgress(65)

	if err := e.Run(); err != nil {
		panic(err)
	}
	if err := e.Save(); err != nil {
		panic(err)
	}

	data, err := tracker.LoadData("./data.bin")
	if err != nil {
		panic(err)
	}
	if len(data) > 10 {
		data = data[len(data)-10:]
	}
	fmt.Println(data)
}
