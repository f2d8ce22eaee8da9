package compose

import (
	"context"
	"math"
	"sync/atomic"
)

// MinFlingVelocity is the smallest velocity (units/sec) that starts a fling;
// below it, a release is treated as a plain stop rather than a fling.
const MinFlingVelocity = 1.0

// DefaultFlingFriction is Android's ViewConfiguration.getScrollFriction()
// default, a widely-tuned starting point for scroll feel.
const DefaultFlingFriction = 0.015

// boundaryEpsilon is the largest difference between requested and consumed
// scroll delta that is still treated as "fully consumed" rather than a
// boundary hit, absorbing floating-point noise from the decay curve.
const boundaryEpsilon = 0.5

// FlingCalculator converts an initial velocity into a decay duration and a
// value-at-time curve: an exponential decay with the friction
// parameterization Android's scroller uses. |velocity| decreases
// monotonically and reaches MinFlingVelocity at Duration().
type FlingCalculator struct {
	friction float64
	density  float64
	decel    float64 // velocity decay rate per second, derived from friction
}

// NewFlingCalculator builds a calculator for the given friction coefficient
// and display density (density scales physical constants to pixels).
func NewFlingCalculator(friction, density float64) FlingCalculator {
	if friction <= 0 {
		friction = DefaultFlingFriction
	}
	if density <= 0 {
		density = 1
	}
	// A higher friction decays faster; 8 is a shape constant chosen so the
	// default friction produces flings lasting several hundred milliseconds
	// at typical flick velocities.
	return FlingCalculator{friction: friction, density: density, decel: friction * 8 / density}
}

// Duration returns how long (in nanoseconds) a fling started at velocity
// takes to decay to MinFlingVelocity.
func (f FlingCalculator) Duration(velocity float64) int64 {
	v := math.Abs(velocity)
	if v <= MinFlingVelocity || f.decel <= 0 {
		return 0
	}
	seconds := math.Log(v/MinFlingVelocity) / f.decel
	return int64(seconds * 1e9)
}

// Distance returns the total signed distance a fling started at velocity
// travels before stopping.
func (f FlingCalculator) Distance(velocity float64) float64 {
	if f.decel <= 0 {
		return 0
	}
	return velocity / f.decel
}

// ValueAtTime returns the position at playTimeNanos along a fling that
// started at initialValue with initialVelocity.
func (f FlingCalculator) ValueAtTime(playTimeNanos int64, initialValue, initialVelocity float64) float64 {
	v := f.velocityAtTime(playTimeNanos, initialVelocity)
	sign := 1.0
	if initialVelocity < 0 {
		sign = -1.0
	}
	if f.decel <= 0 {
		return initialValue
	}
	traveled := (math.Abs(initialVelocity) - math.Abs(v)) / f.decel
	return initialValue + sign*traveled
}

func (f FlingCalculator) velocityAtTime(playTimeNanos int64, initialVelocity float64) float64 {
	if f.decel <= 0 {
		return 0
	}
	seconds := float64(playTimeNanos) / 1e9
	decayed := math.Abs(initialVelocity) * math.Exp(-f.decel*seconds)
	if decayed < MinFlingVelocity {
		decayed = 0
	}
	if initialVelocity < 0 {
		return -decayed
	}
	return decayed
}

// AbsVelocityThreshold is the |velocity| below which a fling is considered
// finished even if it hasn't reached Duration() yet.
func (f FlingCalculator) AbsVelocityThreshold() float64 { return MinFlingVelocity }

// FlingAnimationState tracks one in-flight fling's progress, driven by a
// FrameClock frame callback loop.
type FlingAnimationState struct {
	initialValue    float64
	lastValue       float64
	initialVelocity float64
	startFrameNanos int64
	calc            FlingCalculator
	running         atomic.Bool
}

// FlingAnimation drives a FlingAnimationState across frames, delivering
// per-frame deltas to onScroll and a final callback to onEnd once the fling
// finishes naturally, is cancelled by a boundary hit, or never starts
// because the release velocity is below MinFlingVelocity.
type FlingAnimation struct {
	clock *FrameClock
	state *FlingAnimationState
}

// NewFlingAnimation creates a FlingAnimation driven by clock.
func NewFlingAnimation(clock *FrameClock) *FlingAnimation {
	return &FlingAnimation{clock: clock}
}

// StartFling begins a new fling, cancelling any in-flight one, and runs the
// frame-by-frame drive loop on its own goroutine — WithFrameNanos blocks its
// caller until the clock's owner calls NextFrame, so it must never be called
// from within a NextFrame dispatch itself. onScroll is called with
// the delta since the previous frame and must return how much of it was
// actually consumed (e.g. clamped by scroll bounds); if the consumed amount
// differs from the requested delta by more than boundaryEpsilon, the fling
// stops (a boundary was hit). onEnd is always called exactly once, whether
// the fling ran to completion, hit a boundary, was cancelled, or never
// started. ctx ends the fling early if cancelled before it finishes
// naturally.
func (f *FlingAnimation) StartFling(ctx context.Context, initialValue, velocity, density float64, onScroll func(delta float64) float64, onEnd func()) {
	if f.state != nil {
		f.state.running.Store(false)
	}
	if math.Abs(velocity) < MinFlingVelocity {
		if onEnd != nil {
			onEnd()
		}
		return
	}

	calc := NewFlingCalculator(DefaultFlingFriction, density)
	state := &FlingAnimationState{
		initialValue:    initialValue,
		lastValue:       initialValue,
		initialVelocity: velocity,
		calc:            calc,
	}
	state.running.Store(true)
	f.state = state
	duration := calc.Duration(velocity)

	go func() {
		for {
			if ctx.Err() != nil {
				state.running.Store(false)
			}
			if !state.running.Load() {
				if onEnd != nil {
					onEnd()
				}
				return
			}

			var playTime int64
			f.clock.WithFrameNanos(func(frameNanos int64) {
				if state.startFrameNanos == 0 {
					state.startFrameNanos = frameNanos
				}
				playTime = frameNanos - state.startFrameNanos
			})

			newValue := calc.ValueAtTime(playTime, state.initialValue, state.initialVelocity)
			delta := newValue - state.lastValue

			var consumed float64
			if onScroll != nil {
				consumed = onScroll(delta)
			} else {
				consumed = delta
			}
			state.lastValue += consumed

			hitBoundary := math.Abs(delta-consumed) > boundaryEpsilon
			v := calc.velocityAtTime(playTime, velocity)
			finished := hitBoundary || playTime >= duration || math.Abs(v) < calc.AbsVelocityThreshold()

			if finished {
				state.running.Store(false)
			}
		}
	}()
}

// Cancel stops any in-flight fling; its onEnd callback still fires, on its
// own goroutine, the next time its drive loop observes running == false.
func (f *FlingAnimation) Cancel() {
	if f.state != nil {
		f.state.running.Store(false)
	}
}
