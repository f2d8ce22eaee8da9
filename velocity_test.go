package compose

import "testing"

func TestVelocityTrackerEmpty(t *testing.T) {
	vt := NewVelocityTracker1D()
	if v := vt.CalculateVelocity(); v != 0 {
		t.Fatalf("expected 0 velocity for empty tracker, got %v", v)
	}
}

func TestVelocityTrackerSinglePoint(t *testing.T) {
	vt := NewVelocityTracker1D()
	vt.AddDataPoint(0, 0)
	if v := vt.CalculateVelocity(); v != 0 {
		t.Fatalf("expected 0 velocity for single sample, got %v", v)
	}
}

func TestVelocityTrackerConstantVelocity(t *testing.T) {
	vt := NewVelocityTracker1D()
	vt.AddDataPoint(0, 0)
	vt.AddDataPoint(10, 100)
	vt.AddDataPoint(20, 200)
	vt.AddDataPoint(30, 300)

	v := vt.CalculateVelocity()
	// 100 units / 10ms == 10000 units/sec.
	if v < 9000 || v > 11000 {
		t.Fatalf("expected ~10000 units/sec, got %v", v)
	}
}

func TestVelocityTrackerReset(t *testing.T) {
	vt := NewVelocityTracker1D()
	vt.AddDataPoint(0, 0)
	vt.AddDataPoint(10, 100)
	vt.Reset()
	if v := vt.CalculateVelocity(); v != 0 {
		t.Fatalf("expected 0 velocity after reset, got %v", v)
	}
}

func TestVelocityTrackerNegativeVelocity(t *testing.T) {
	vt := NewVelocityTracker1D()
	vt.AddDataPoint(0, 300)
	vt.AddDataPoint(10, 200)
	vt.AddDataPoint(20, 100)
	vt.AddDataPoint(30, 0)

	if v := vt.CalculateVelocity(); v >= 0 {
		t.Fatalf("expected negative velocity, got %v", v)
	}
}

func TestVelocityTrackerMaxCap(t *testing.T) {
	vt := NewVelocityTracker1D()
	vt.AddDataPoint(0, 0)
	vt.AddDataPoint(10, 1000)

	v := vt.CalculateVelocityWithMax(500)
	if v != 500 {
		t.Fatalf("expected capped velocity of 500, got %v", v)
	}
}

func TestVelocityTrackerStoppedGapReturnsZero(t *testing.T) {
	vt := NewVelocityTracker1D()
	vt.AddDataPoint(0, 0)
	vt.AddDataPoint(10, 100)
	// A gap far beyond the stopped cutoff: the pointer sat still.
	vt.AddDataPoint(200, 100)

	if v := vt.CalculateVelocity(); v != 0 {
		t.Fatalf("expected 0 velocity after a long stopped gap, got %v", v)
	}
}

func TestVelocityTrackerOldSamplesIgnored(t *testing.T) {
	vt := NewVelocityTracker1D()
	// Far outside the horizon: should not influence the result at all.
	vt.AddDataPoint(0, 10000)
	vt.AddDataPoint(500, 20)
	vt.AddDataPoint(510, 40)
	vt.AddDataPoint(520, 60)

	v := vt.CalculateVelocity()
	if v < 1000 || v > 3000 {
		t.Fatalf("expected a velocity derived from the recent window only, got %v", v)
	}
}

func TestDifferentialVelocityTracker(t *testing.T) {
	vt := NewDifferentialVelocityTracker1D()
	vt.AddDataPoint(0, 10)
	vt.AddDataPoint(10, 10)
	vt.AddDataPoint(20, 10)

	v := vt.CalculateVelocity()
	if v < 900 || v > 1100 {
		t.Fatalf("expected ~1000 units/sec from constant 10-unit deltas every 10ms, got %v", v)
	}
}

func TestVelocityTrackerTwoSampleFlick(t *testing.T) {
	vt := NewVelocityTracker1D()
	vt.AddDataPoint(0, 0)
	vt.AddDataPoint(10, 100)

	v := vt.CalculateVelocity()
	if v < 9000 || v > 11000 {
		t.Fatalf("two-sample flick velocity = %v, want ~10000 units/sec", v)
	}
}
