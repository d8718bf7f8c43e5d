package tween

import (
	"math"
	"testing"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestTweenReachesEnd(t *testing.T) {
	tw := New(0, 10, 1, InOutQuad)
	val, done := tw.Update(0.5)
	if done {
		t.Fatalf("Tween finished halfway")
	}
	if !near(val, 5) {
		t.Fatalf("InOutQuad midpoint is %v, want 5", val)
	}
	val, done = tw.Update(0.75)
	if !done || val != 10 {
		t.Fatalf("Tween did not finish at end value: %v %v", val, done)
	}
}

func TestZeroDurationTween(t *testing.T) {
	val, done := New(3, 7, 0, nil).Update(0)
	if !done || val != 7 {
		t.Fatalf("Zero duration tween should jump to end, got %v %v", val, done)
	}
}

func TestSequence(t *testing.T) {
	seq := NewSequence(New(0, 8, 0.1, OutQuad), New(8, 0, 0.1, InQuad))
	_, idx, done := seq.Update(0.05)
	if idx != 0 || done {
		t.Fatalf("Sequence should still run first tween, idx=%d done=%v", idx, done)
	}
	_, idx, done = seq.Update(0.1)
	if idx != 1 || done {
		t.Fatalf("Sequence should have moved to second tween, idx=%d done=%v", idx, done)
	}
	val, _, done := seq.Update(1)
	if !done || val != 0 {
		t.Fatalf("Sequence should end at 0, got %v %v", val, done)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"InOutCubic", true},
		{"outquad", true},
		{" Linear ", true},
		{"bounce", false},
	}
	for _, tt := range tests {
		if _, ok := ByName(tt.name); ok != tt.ok {
			t.Fatalf("ByName(%q) ok=%v, want %v", tt.name, ok, tt.ok)
		}
	}
	e, _ := ByName("inoutcubic")
	if e(0) != 0 || !near(e(1), 1) || !near(e(0.5), 0.5) {
		t.Fatalf("InOutCubic endpoints wrong")
	}
}
