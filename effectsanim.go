package compose

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimatedFloat drives a MutableState[float64] from its current value to a
// target over a fixed duration, advanced one frame at a time via a
// FrameClock. Writing through MutableState.Set means every recomposition
// this animation touches participates in the same invalidation machinery as
// any other state write.
type AnimatedFloat struct {
	state  *MutableState[float64]
	tween  *gween.Tween
	Done   bool
}

// AnimateFloat starts (or restarts) state's tween toward to over duration
// seconds using fn for easing, driven by calling Tick once per frame (e.g.
// from a LaunchedEffect's WithFrameNanos loop).
func AnimateFloat(state *MutableState[float64], to float64, duration float32, fn ease.TweenFunc) *AnimatedFloat {
	return &AnimatedFloat{
		state: state,
		tween: gween.New(float32(state.Get()), float32(to), duration, fn),
	}
}

// Tick advances the tween by dt seconds and writes the new value into the
// underlying MutableState.
func (a *AnimatedFloat) Tick(dt float32) {
	if a.Done {
		return
	}
	val, finished := a.tween.Update(dt)
	a.state.Set(float64(val))
	a.Done = finished
}

// AnimatedOffset drives two MutableState[float64] cells (X and Y) together,
// as a single tween pair, mirroring TweenPosition's two-field grouping.
type AnimatedOffset struct {
	x, y *MutableState[float64]
	tx, ty *gween.Tween
	Done bool
}

// AnimateOffset starts a tween moving (x, y) toward (toX, toY) over
// duration seconds.
func AnimateOffset(x, y *MutableState[float64], toX, toY float64, duration float32, fn ease.TweenFunc) *AnimatedOffset {
	return &AnimatedOffset{
		x: x, y: y,
		tx: gween.New(float32(x.Get()), float32(toX), duration, fn),
		ty: gween.New(float32(y.Get()), float32(toY), duration, fn),
	}
}

// Tick advances both tweens by dt seconds and writes their values back.
func (a *AnimatedOffset) Tick(dt float32) {
	if a.Done {
		return
	}
	vx, doneX := a.tx.Update(dt)
	vy, doneY := a.ty.Update(dt)
	a.x.Set(float64(vx))
	a.y.Set(float64(vy))
	a.Done = doneX && doneY
}

// RunOnClock calls tick once per frame on clock, from the second frame on,
// with the seconds elapsed since the previous frame, until tick returns
// true, blocking the calling goroutine —
// intended to be launched from a LaunchedEffect's own goroutine, never from
// the composition thread directly.
func RunOnClock(clock *FrameClock, tick func(dt float32) bool) {
	var lastNanos int64
	first := true
	for {
		var frameNanos int64
		clock.WithFrameNanos(func(n int64) { frameNanos = n })
		if first {
			lastNanos = frameNanos
			first = false
			continue
		}
		dt := float32(frameNanos-lastNanos) / 1e9
		lastNanos = frameNanos
		if tick(dt) {
			return
		}
	}
}
