package experiment

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goracer/environment/envconfig"
	"github.com/samuelfneumann/goracer/environment/racetrack"
	"github.com/samuelfneumann/goracer/experiment/checkpointer"
	"github.com/samuelfneumann/goracer/experiment/tracker"
	ts "github.com/samuelfneumann/goracer/timestep"
)

// idleController selects the all-zero action on every timestep
func idleController() Controller {
	return ControllerFunc(func(ts.TimeStep) *mat.VecDense {
		return mat.NewVecDense(racetrack.ActionDims, nil)
	})
}

func newTestEnvironment(t *testing.T, cutoff int) *racetrack.RaceTrack {
	t.Helper()

	track, err := racetrack.NewTrack(racetrack.DefaultConfig())
	if err != nil {
		t.Fatalf("could not create track: %v", err)
	}

	task := racetrack.NewDrive(racetrack.FixedSpawn(1), cutoff,
		racetrack.StagnationSteps)
	environment, _, err := racetrack.New(track, task, 1.0, 42)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	return environment
}

func TestOnlineRunsToStepLimit(t *testing.T) {
	lengthFile := filepath.Join(t.TempDir(), "lengths.bin")
	returnFile := filepath.Join(t.TempDir(), "returns.bin")

	environment := newTestEnvironment(t, 50)
	exp := NewOnline(environment, idleController(), 120,
		tracker.NewEpisodeLength(lengthFile), tracker.NewReturn(returnFile))

	if err := exp.Run(); err != nil {
		t.Fatalf("could not run experiment: %v", err)
	}
	if err := exp.Save(); err != nil {
		t.Fatalf("could not save experiment data: %v", err)
	}

	// An idle vehicle never crashes and never improves its fitness, so
	// each episode runs to the 50 step cutoff. 120 total steps leave
	// the third episode unfinished, and unfinished episodes are not
	// saved.
	lengths, err := tracker.LoadData(lengthFile)
	if err != nil {
		t.Fatalf("could not load episode lengths: %v", err)
	}
	if len(lengths) != 2 || lengths[0] != 50 || lengths[1] != 50 {
		t.Errorf("expected two episodes of length 50, got %v", lengths)
	}

	// The idle vehicle earns exactly the survival bonus each tick
	returns, err := tracker.LoadData(returnFile)
	if err != nil {
		t.Fatalf("could not load returns: %v", err)
	}
	expected := 50 * racetrack.SurvivalBonus
	if len(returns) != 2 {
		t.Fatalf("expected two episodic returns, got %v", returns)
	}
	for i := range returns {
		if math.Abs(returns[i]-expected) > 1e-9 {
			t.Errorf("episode %v: expected return %v, got %v", i, expected,
				returns[i])
		}
	}
}

func TestOnlineRegister(t *testing.T) {
	lengthFile := filepath.Join(t.TempDir(), "lengths.bin")

	environment := newTestEnvironment(t, 50)
	exp := NewOnline(environment, idleController(), 120)
	exp.Register(tracker.NewEpisodeLength(lengthFile))

	limitReached, err := exp.RunEpisode()
	if err != nil {
		t.Fatalf("could not run episode: %v", err)
	}
	if limitReached {
		t.Error("expected the step limit to remain unreached after " +
			"one episode")
	}
	if err := exp.Save(); err != nil {
		t.Fatalf("could not save experiment data: %v", err)
	}

	lengths, err := tracker.LoadData(lengthFile)
	if err != nil {
		t.Fatalf("could not load episode lengths: %v", err)
	}
	if len(lengths) != 1 || lengths[0] != 50 {
		t.Errorf("expected one episode of length 50, got %v", lengths)
	}
}

func TestOnlineCheckpoints(t *testing.T) {
	environment := newTestEnvironment(t, 50)
	exp := NewOnline(environment, idleController(), 120)

	var saved int
	exp.RegisterCheckpointer(checkpointer.NewNStep(10,
		checkpointer.SavableFunc(func(string) error {
			saved++
			return nil
		}), checkpointer.FileTimer("frame", ".png")))

	if _, err := exp.RunEpisode(); err != nil {
		t.Fatalf("could not run episode: %v", err)
	}

	// Steps 10, 20, 30, 40 and 50 come due during a 50 step episode
	if saved != 5 {
		t.Errorf("expected 5 checkpoints, got %v", saved)
	}
}

func TestCreateExp(t *testing.T) {
	lengthFile := filepath.Join(t.TempDir(), "lengths.bin")

	envConf := envconfig.NewConfig(envconfig.RaceTrack, envconfig.Drive,
		2.0, 50, 0, 1.0)
	conf := Config{Type: OnlineExp, MaxSteps: 60, EnvConf: envConf}

	exp, err := conf.CreateExp(14, idleController(),
		[]tracker.Tracker{tracker.NewEpisodeLength(lengthFile)}, nil)
	if err != nil {
		t.Fatalf("could not create experiment: %v", err)
	}

	if err := exp.Run(); err != nil {
		t.Fatalf("could not run experiment: %v", err)
	}
	if err := exp.Save(); err != nil {
		t.Fatalf("could not save experiment data: %v", err)
	}

	lengths, err := tracker.LoadData(lengthFile)
	if err != nil {
		t.Fatalf("could not load episode lengths: %v", err)
	}
	if len(lengths) != 1 || lengths[0] != 50 {
		t.Errorf("expected one episode of length 50, got %v", lengths)
	}
}
