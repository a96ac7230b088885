// Package envconfig provides configuration structs for configuring
// environments with default track layouts and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/goracer/environment"
	"github.com/samuelfneumann/goracer/environment/racetrack"
	ts "github.com/samuelfneumann/goracer/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	RaceTrack EnvName = "RaceTrack"
)

// TaskName stores the tasks that can be configured with this package.
// The tasks that can be used with each environment are as follows:
//
//	Environment			Task
//	RaceTrack			Drive
type TaskName string

// Tasks available for configuration
const (
	Drive TaskName = "Drive"
)

// Config implements a specific configuration of a specific environment
// and specific task. Not all environments can have all tasks.
type Config struct {
	Environment      EnvName
	Task             TaskName
	MaxSpawnOffset   float64
	EpisodeCutoff    uint
	StagnationCutoff uint
	Discount         float64
}

// NewConfig returns a new environment Config. A zero stagnationCutoff
// selects the default cutoff of the configured task.
func NewConfig(envName EnvName, taskName TaskName, maxSpawnOffset float64,
	episodeCutoff, stagnationCutoff uint, discount float64) Config {
	return Config{
		Environment:      envName,
		Task:             taskName,
		MaxSpawnOffset:   maxSpawnOffset,
		EpisodeCutoff:    episodeCutoff,
		StagnationCutoff: stagnationCutoff,
		Discount:         discount,
	}
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	switch c.Environment {
	case RaceTrack:
		return CreateRaceTrack(c.Task, c.MaxSpawnOffset,
			int(c.EpisodeCutoff), int(c.StagnationCutoff), seed, c.Discount)
	}

	panic(fmt.Sprintf("create: cannot create environment %v, no such "+
		"environment", c.Environment))
}

// CreateRaceTrack is a factory for creating the RaceTrack environment
// with the default track layout and default task parameters. A zero
// stagnationCutoff selects the task's default.
func CreateRaceTrack(taskName TaskName, maxSpawnOffset float64, cutoff,
	stagnationCutoff int, seed uint64, discount float64) (env.Environment,
	ts.TimeStep, error) {
	track, err := racetrack.NewTrack(racetrack.DefaultConfig())
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createRaceTrack: %v", err)
	}

	s := racetrack.UniformSpawn(maxSpawnOffset, seed)
	if stagnationCutoff <= 0 {
		stagnationCutoff = racetrack.StagnationSteps
	}

	var task env.Task
	switch taskName {
	case Drive:
		task = racetrack.NewDrive(s, cutoff, stagnationCutoff)

	default:
		panic(fmt.Sprintf("createRaceTrack: RaceTrack environment has "+
			"no task %v", taskName))
	}

	return racetrack.New(track, task, discount, seed)
}
