package environment

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	ts "github.com/samuelfneumann/goracer/timestep"
)

func TestStepLimitEndsAtLimit(t *testing.T) {
	ender := NewStepLimit(3)
	obs := mat.NewVecDense(1, []float64{0.0})

	for n := 0; n < 3; n++ {
		step := ts.New(ts.Mid, 0.0, 1.0, obs, n)
		if ender.End(&step) {
			t.Fatalf("episode ended early at step %d", n)
		}
		if step.Last() {
			t.Fatalf("step %d marked Last before the limit", n)
		}
	}

	step := ts.New(ts.Mid, 0.0, 1.0, obs, 3)
	if !ender.End(&step) {
		t.Fatal("episode did not end at the step limit")
	}
	if !step.Last() {
		t.Error("ended step was not marked Last")
	}
	if step.End() != ts.Timeout {
		t.Errorf("step limit should end with Timeout, got %v", step.End())
	}
}

func TestIntervalLimitEndsOutsideInterval(t *testing.T) {
	limits := []r1.Interval{{Min: -1.0, Max: 1.0}}
	ender := NewIntervalLimit(limits, []int{1}, ts.TerminalStateReached)

	inside := ts.New(ts.Mid, 0.0, 1.0,
		mat.NewVecDense(2, []float64{5.0, 0.5}), 1)
	if ender.End(&inside) {
		t.Error("episode ended with the watched feature inside its interval")
	}

	outside := ts.New(ts.Mid, 0.0, 1.0,
		mat.NewVecDense(2, []float64{0.0, 1.5}), 2)
	if !ender.End(&outside) {
		t.Error("episode did not end with the watched feature outside its " +
			"interval")
	}
	if outside.End() != ts.TerminalStateReached {
		t.Errorf("expected TerminalStateReached, got %v", outside.End())
	}
}

func TestIntervalLimitPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic when limits and indices differ in length")
		}
	}()

	NewIntervalLimit([]r1.Interval{{Min: 0, Max: 1}}, []int{0, 1},
		ts.TerminalStateReached)
}

func TestFunctionEnder(t *testing.T) {
	crashed := false
	ender := NewFunctionEnder(func(*mat.VecDense) bool {
		return crashed
	}, ts.TerminalStateReached)

	step := ts.New(ts.Mid, 0.0, 1.0, mat.NewVecDense(1, nil), 1)
	if ender.End(&step) {
		t.Error("episode ended while the end function returned false")
	}

	crashed = true
	step = ts.New(ts.Mid, 0.0, 1.0, mat.NewVecDense(1, nil), 2)
	if !ender.End(&step) {
		t.Error("episode did not end when the end function returned true")
	}
	if step.End() != ts.TerminalStateReached {
		t.Errorf("expected TerminalStateReached, got %v", step.End())
	}
}

func TestUniformStarterWithinBounds(t *testing.T) {
	bounds := []r1.Interval{
		{Min: -1.0, Max: 1.0},
		{Min: 5.0, Max: 10.0},
	}
	starter := NewUniformStarter(bounds, 42)

	for i := 0; i < 100; i++ {
		start := starter.Start()
		if start.Len() != 2 {
			t.Fatalf("expected start vector of length 2, got %d", start.Len())
		}
		for j, bound := range bounds {
			v := start.AtVec(j)
			if v < bound.Min || v > bound.Max {
				t.Errorf("feature %d = %v outside [%v, %v]", j, v, bound.Min,
					bound.Max)
			}
		}
	}
}

func TestUniformStarterDegenerateInterval(t *testing.T) {
	starter := NewUniformStarter([]r1.Interval{{Min: 2.5, Max: 2.5}}, 13)

	for i := 0; i < 10; i++ {
		if v := starter.Start().AtVec(0); v != 2.5 {
			t.Fatalf("degenerate interval produced %v, want 2.5", v)
		}
	}
}

func TestUniformStarterDeterminism(t *testing.T) {
	bounds := []r1.Interval{{Min: 0.0, Max: 19.0}}
	a := NewUniformStarter(bounds, 1971)
	b := NewUniformStarter(bounds, 1971)

	for i := 0; i < 25; i++ {
		va, vb := a.Start().AtVec(0), b.Start().AtVec(0)
		if va != vb {
			t.Fatalf("same-seed starters diverged at draw %d: %v != %v",
				i, va, vb)
		}
	}
}

func TestCategoricalStarterProducesIntegerFeatures(t *testing.T) {
	starter := NewCategoricalStarter([]int{4, 2}, 1971)

	for i := 0; i < 100; i++ {
		start := starter.Start()
		if start.Len() != 2 {
			t.Fatalf("expected start vector of length 2, got %d", start.Len())
		}

		slot := start.AtVec(0)
		if slot != math.Trunc(slot) || slot < 0 || slot > 3 {
			t.Errorf("feature 0 = %v outside {0, 1, 2, 3}", slot)
		}
		lane := start.AtVec(1)
		if lane != 0 && lane != 1 {
			t.Errorf("feature 1 = %v outside {0, 1}", lane)
		}
	}
}

func TestCategoricalStarterDeterminism(t *testing.T) {
	a := NewCategoricalStarter([]int{10}, 37)
	b := NewCategoricalStarter([]int{10}, 37)

	for i := 0; i < 25; i++ {
		va, vb := a.Start().AtVec(0), b.Start().AtVec(0)
		if va != vb {
			t.Fatalf("same-seed starters diverged at draw %d: %v != %v",
				i, va, vb)
		}
	}
}

func TestNewSpecPanicsOnBoundLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic when bounds do not match the shape length")
		}
	}()

	shape := mat.NewVecDense(3, nil)
	lower := mat.NewVecDense(2, []float64{0, 0})
	upper := mat.NewVecDense(3, []float64{1, 1, 1})
	NewSpec(shape, Observation, lower, upper, Continuous)
}

func TestNewSpecBounds(t *testing.T) {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{math.Inf(-1)})
	upper := mat.NewVecDense(1, []float64{0.45})

	spec := NewSpec(shape, Reward, lower, upper, Continuous)
	if spec.LowerBound.AtVec(0) != math.Inf(-1) {
		t.Errorf("lower bound not preserved: %v", spec.LowerBound.AtVec(0))
	}
	if spec.UpperBound.AtVec(0) != 0.45 {
		t.Errorf("upper bound not preserved: %v", spec.UpperBound.AtVec(0))
	}
	if spec.Type != Reward {
		t.Errorf("spec type not preserved: %v", spec.Type)
	}
}
