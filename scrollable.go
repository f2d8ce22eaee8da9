package compose

import "context"

// ScrollableState tracks one scroll container's offset, accepts drag deltas
// during an active drag, and hands off to a FlingAnimation once the drag
// ends with residual velocity — the usual press-drag-release-fling pipeline
// a scrollable list or viewport needs.
type ScrollableState struct {
	offset   float64
	min, max float64

	velocity *VelocityTracker1D
	fling    *FlingAnimation

	OnOffsetChanged func(offset float64)
}

// NewScrollableState creates scroll state bounded to [min, max], driven by
// clock for its fling phase.
func NewScrollableState(clock *FrameClock, min, max float64) *ScrollableState {
	return &ScrollableState{
		min: min, max: max,
		velocity: NewDifferentialVelocityTracker1D(),
		fling:    NewFlingAnimation(clock),
	}
}

// Offset returns the current scroll offset.
func (s *ScrollableState) Offset() float64 { return s.offset }

// ScrollBy adds delta to the offset, clamping the result to [min, max], and
// returns the amount actually consumed — the same "requested vs consumed"
// contract FlingAnimation's onScroll expects, so ScrollBy can be passed
// straight through.
func (s *ScrollableState) ScrollBy(delta float64) float64 {
	before := s.offset
	s.offset = clamp(s.offset+delta, s.min, s.max)
	consumed := s.offset - before
	if consumed != 0 && s.OnOffsetChanged != nil {
		s.OnOffsetChanged(s.offset)
	}
	return consumed
}

// OnDragSample feeds one drag delta at timeMs into the velocity tracker and
// applies it as an immediate scroll, mirroring how a real scrollable
// consumes drag deltas as they arrive rather than buffering them for the
// eventual fling.
func (s *ScrollableState) OnDragSample(timeMs, delta float64) {
	s.velocity.AddDataPoint(timeMs, delta)
	s.ScrollBy(delta)
}

// OnDragEnd starts a fling using the velocity accumulated during the drag,
// at the given display density.
func (s *ScrollableState) OnDragEnd(ctx context.Context, density float64) {
	v := s.velocity.CalculateVelocity()
	s.velocity.Reset()
	s.fling.StartFling(ctx, s.offset, v, density, s.ScrollBy, nil)
}

// StopFling cancels any fling in progress, e.g. because a new drag started.
func (s *ScrollableState) StopFling() {
	s.fling.Cancel()
}
