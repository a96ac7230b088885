package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, -1.0, 1.0, 0.5},
		{-3.2, -1.0, 1.0, -1.0},
		{7.9, 0.0, 1.0, 1.0},
		{0.0, 0.0, 8.0, 0.0},
		{8.0, 0.0, 8.0, 8.0},
		{-0.001, 0.0, 8.0, 0.0},
	}

	for _, test := range tests {
		got := Clip(test.value, test.min, test.max)
		if got != test.want {
			t.Errorf("Clip(%v, %v, %v) = %v, want %v", test.value, test.min,
				test.max, got, test.want)
		}
	}
}

func TestClipInterval(t *testing.T) {
	interval := r1.Interval{Min: -1.0, Max: 1.0}

	if got := ClipInterval(5.0, interval); got != 1.0 {
		t.Errorf("ClipInterval(5, [-1, 1]) = %v, want 1", got)
	}
	if got := ClipInterval(-5.0, interval); got != -1.0 {
		t.Errorf("ClipInterval(-5, [-1, 1]) = %v, want -1", got)
	}
	if got := ClipInterval(0.25, interval); got != 0.25 {
		t.Errorf("ClipInterval(0.25, [-1, 1]) = %v, want 0.25", got)
	}
}

func TestMax(t *testing.T) {
	if got := Max(0.0, -0.5); got != 0.0 {
		t.Errorf("Max(0, -0.5) = %v, want 0", got)
	}
	if got := Max(1.0, 2.0, -3.0, 1.5); got != 2.0 {
		t.Errorf("Max(1, 2, -3, 1.5) = %v, want 2", got)
	}
}
