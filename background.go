package compose

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BackgroundScope groups concurrent background work (decoding an image,
// fetching data for a widget to render once loaded) under a single
// cancellation and error boundary, so a composable that starts several
// unrelated background tasks can wait on or cancel them together instead of
// managing each goroutine by hand.
type BackgroundScope struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewBackgroundScope derives a scope from parent: cancelling parent, or any
// task returning a non-nil error, cancels every other task in the scope.
func NewBackgroundScope(parent context.Context) *BackgroundScope {
	g, ctx := errgroup.WithContext(parent)
	return &BackgroundScope{group: g, ctx: ctx}
}

// Launch runs task on its own goroutine within the scope. task should select
// on ctx.Done() (the scope's own derived context) to exit promptly if a
// sibling task fails or the scope is cancelled.
func (s *BackgroundScope) Launch(task func(ctx context.Context) error) {
	s.group.Go(func() error {
		return task(s.ctx)
	})
}

// LaunchThen runs work on its own goroutine and, once it returns, posts
// continuation onto clock so it runs on the composition thread during the
// next frame drain — the bridge for background IO whose result must land
// back in composition state.
func (s *BackgroundScope) LaunchThen(clock *FrameClock, work func(ctx context.Context) error, continuation func(err error)) {
	s.group.Go(func() error {
		err := work(s.ctx)
		if continuation != nil {
			go clock.WithFrameNanos(func(int64) { continuation(err) })
		}
		return err
	})
}

// Wait blocks until every launched task has returned, and returns the first
// non-nil error any of them produced.
func (s *BackgroundScope) Wait() error {
	return s.group.Wait()
}

// Context returns the scope's derived context, cancelled once any launched
// task fails or the scope's parent is cancelled.
func (s *BackgroundScope) Context() context.Context {
	return s.ctx
}
