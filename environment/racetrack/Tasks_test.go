package racetrack

import (
	"math"
	"testing"

	ts "github.com/samuelfneumann/goracer/timestep"
)

func TestDriveStraightEarnsProgressReward(t *testing.T) {
	track := newOvalTrack(t)
	vehicle := newVehicle(t, track, 0, 11)

	// The oval's long straightaway lets a full-throttle vehicle run
	// 50 ticks without crashing, earning alignment, speed, and
	// survival reward every tick but never a gate or crash term
	for tick := 1; tick <= 50; tick++ {
		step, last, err := vehicle.Step(Action{Throttle: 1}.Vector())
		if err != nil {
			t.Fatalf("tick %v: could not step: %v", tick, err)
		}
		if last {
			t.Fatalf("tick %v: expected the episode to continue", tick)
		}
		if step.Reward <= 0 || step.Reward >= 1 {
			t.Fatalf("tick %v: expected a small positive reward, got %v",
				tick, step.Reward)
		}
	}

	if math.Abs(vehicle.Distance()-230.8428504722919) > 1e-9 {
		t.Errorf("expected distance 230.8428504722919 after 50 ticks, "+
			"got %v", vehicle.Distance())
	}
	if math.Abs(vehicle.Speed()-7.788921418932812) > 1e-9 {
		t.Errorf("expected speed 7.788921418932812 after 50 ticks, got %v",
			vehicle.Speed())
	}
	if vehicle.Lifetime() != 50 {
		t.Errorf("expected lifetime 50, got %v", vehicle.Lifetime())
	}
	if vehicle.NextGate() != 0 {
		t.Errorf("expected no gate crossings yet, got next gate %v",
			vehicle.NextGate())
	}
}

func TestDrivePenalizesSpinningInPlace(t *testing.T) {
	track := newDefaultTrack(t)
	vehicle := newVehicle(t, track, 0, 11)
	spawn := vehicle.Position()
	spawnHeading := vehicle.Heading()

	// Full steer with no throttle turns the vehicle in place: the
	// survival bonus is swamped by the anti-spin penalty
	for tick := 1; tick <= 10; tick++ {
		step, last, err := vehicle.Step(Action{Steer: 1}.Vector())
		if err != nil {
			t.Fatalf("tick %v: could not step: %v", tick, err)
		}
		if last {
			t.Fatalf("tick %v: expected the episode to continue", tick)
		}
		if math.Abs(step.Reward-(SurvivalBonus+SpinPenalty)) > 1e-12 {
			t.Fatalf("tick %v: expected reward %v, got %v", tick,
				SurvivalBonus+SpinPenalty, step.Reward)
		}
	}

	if vehicle.Speed() != 0 || vehicle.Position() != spawn {
		t.Error("expected a spinning vehicle to stay in place")
	}
	if math.Abs(vehicle.Heading()-spawnHeading-10*SteerGain) > 1e-9 {
		t.Errorf("expected the heading to advance %v degrees, got %v",
			10*SteerGain, vehicle.Heading()-spawnHeading)
	}
}

func TestDriveCrashIsTerminal(t *testing.T) {
	track := newDefaultTrack(t)
	vehicle := newVehicle(t, track, 0, 11)

	// Full throttle with no steering runs straight off the default
	// track's first curve
	var step ts.TimeStep
	var last bool
	var err error
	ticks := 0
	for !last {
		step, last, err = vehicle.Step(Action{Throttle: 1}.Vector())
		if err != nil {
			t.Fatalf("could not step: %v", err)
		}
		ticks++
		if ticks > 100 {
			t.Fatal("expected the vehicle to crash within 100 ticks")
		}
	}

	if ticks != 29 {
		t.Errorf("expected the crash on tick 29, got tick %v", ticks)
	}
	if step.Reward != CrashPenalty {
		t.Errorf("expected the crash reward to be exactly %v, got %v",
			CrashPenalty, step.Reward)
	}
	if !step.Last() || step.End() != ts.TerminalStateReached {
		t.Errorf("expected a terminal Last step, got %v ended by %v",
			step.StepType, step.End())
	}
	if !vehicle.Crashed() {
		t.Error("expected the vehicle to report a crash")
	}
}

func TestDriveStagnationCutsOffEpisodes(t *testing.T) {
	tests := []struct {
		name            string
		stagnationSteps int
		doneTick        int
	}{
		// An idle vehicle improves its fitness once, on the first
		// survival bonus, then stagnates until the cutoff
		{"short", 5, 7},
		{"default", StagnationSteps, 102},
	}

	for _, test := range tests {
		track := newDefaultTrack(t)
		task := NewDrive(FixedSpawn(0), EpisodeSteps, test.stagnationSteps)
		vehicle, _, err := New(track, task, 1.0, 11)
		if err != nil {
			t.Fatalf("%v: could not create vehicle: %v", test.name, err)
		}

		var step ts.TimeStep
		var last bool
		ticks := 0
		for !last {
			step, last, err = vehicle.Step(Action{}.Vector())
			if err != nil {
				t.Fatalf("%v: could not step: %v", test.name, err)
			}
			ticks++
			if ticks > test.doneTick {
				break
			}
		}

		if ticks != test.doneTick {
			t.Errorf("%v: expected the cutoff on tick %v, got tick %v",
				test.name, test.doneTick, ticks)
		}
		if step.End() != ts.Timeout {
			t.Errorf("%v: expected a Timeout cutoff, got %v", test.name,
				step.End())
		}
		if step.Reward != SurvivalBonus {
			t.Errorf("%v: expected the cutoff tick to keep its survival "+
				"bonus %v, got %v", test.name, SurvivalBonus, step.Reward)
		}
	}
}

func TestDriveRewardsGateCrossings(t *testing.T) {
	track := newOvalTrack(t)

	// Spawning one spacing behind the starting line leaves the first
	// gate ahead of the vehicle
	task := NewDrive(FixedSpawn(1), EpisodeSteps, StagnationSteps)
	vehicle, _, err := New(track, task, 1.0, 11)
	if err != nil {
		t.Fatalf("could not create vehicle: %v", err)
	}

	crossings := make(map[int]int) // tick -> gate index after crossing
	for tick := 1; tick <= 42; tick++ {
		step, last, err := vehicle.Step(Action{Throttle: 1}.Vector())
		if err != nil {
			t.Fatalf("tick %v: could not step: %v", tick, err)
		}
		if last {
			t.Fatalf("tick %v: expected the episode to continue", tick)
		}

		if vehicle.CrossedGate() {
			crossings[tick] = vehicle.NextGate()
			if step.Reward <= GateBonus {
				t.Errorf("tick %v: expected the gate bonus on top of the "+
					"progress reward, got %v", tick, step.Reward)
			}
			if !task.AtGoal(nil) {
				t.Errorf("tick %v: expected AtGoal on a crossing tick", tick)
			}
			if vehicle.StepsSinceGate() != 0 {
				t.Errorf("tick %v: expected the gate counter to reset, "+
					"got %v", tick, vehicle.StepsSinceGate())
			}
		} else {
			if step.Reward >= 1 {
				t.Errorf("tick %v: expected no gate bonus, got reward %v",
					tick, step.Reward)
			}
			if task.AtGoal(nil) {
				t.Errorf("tick %v: expected AtGoal only on crossing ticks",
					tick)
			}
		}
	}

	want := map[int]int{13: 1, 42: 2}
	if len(crossings) != len(want) {
		t.Fatalf("expected crossings on ticks 13 and 42, got %v", crossings)
	}
	for tick, gate := range want {
		if crossings[tick] != gate {
			t.Errorf("expected next gate %v after the tick %v crossing, "+
				"got %v", gate, tick, crossings[tick])
		}
	}
	if vehicle.StepsSinceGate() != 0 {
		t.Errorf("expected the gate counter freshly reset on the final "+
			"crossing, got %v", vehicle.StepsSinceGate())
	}
}

func TestWeightedDriveUsesCustomWeights(t *testing.T) {
	track := newOvalTrack(t)
	weights := Weights{
		Crash:    -1.0,
		Gate:     5.0,
		Survival: 1.0,
	}
	task := NewWeightedDrive(FixedSpawn(0), EpisodeSteps, StagnationSteps,
		weights)
	vehicle, _, err := New(track, task, 1.0, 11)
	if err != nil {
		t.Fatalf("could not create vehicle: %v", err)
	}

	// With zero alignment, speed, and spin weights, an idle tick's
	// reward is exactly the custom survival bonus
	for tick := 1; tick <= 3; tick++ {
		step, _, err := vehicle.Step(Action{}.Vector())
		if err != nil {
			t.Fatalf("could not step: %v", err)
		}
		if step.Reward != weights.Survival {
			t.Errorf("tick %v: expected reward %v, got %v", tick,
				weights.Survival, step.Reward)
		}
	}

	if task.Min() != weights.Crash {
		t.Errorf("expected minimum reward %v, got %v", weights.Crash,
			task.Min())
	}
	wantMax := weights.Gate + weights.Survival
	if math.Abs(task.Max()-wantMax) > 1e-12 {
		t.Errorf("expected maximum reward %v, got %v", wantMax, task.Max())
	}
}

func TestDriveRewardBounds(t *testing.T) {
	track := newDefaultTrack(t)
	task := NewDrive(FixedSpawn(0), EpisodeSteps, StagnationSteps)
	if _, _, err := New(track, task, 1.0, 11); err != nil {
		t.Fatalf("could not create vehicle: %v", err)
	}

	if task.Min() != CrashPenalty {
		t.Errorf("expected minimum reward %v, got %v", CrashPenalty,
			task.Min())
	}

	// The best possible tick crosses a gate at top speed, fully
	// aligned with the centerline
	wantMax := GateBonus + MaxSpeed*(AlignmentWeight+ForwardWeight) +
		SurvivalBonus
	if math.Abs(task.Max()-wantMax) > 1e-12 {
		t.Errorf("expected maximum reward %v, got %v", wantMax, task.Max())
	}

	spec := task.RewardSpec()
	if spec.LowerBound.AtVec(0) != task.Min() ||
		spec.UpperBound.AtVec(0) != task.Max() {
		t.Error("expected the reward spec to carry the task's bounds")
	}
}

func TestDrivePanicsWhenUnregistered(t *testing.T) {
	task := NewDrive(FixedSpawn(0), EpisodeSteps, StagnationSteps)

	defer func() {
		if recover() == nil {
			t.Error("expected GetReward to panic on an unregistered task")
		}
	}()
	task.GetReward(nil, Action{}.Vector(), nil)
}
