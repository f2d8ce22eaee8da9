package compose

// syntheticPointerEvent is a single queued synthetic pointer event, in root
// coordinates, consumed on the next ProcessPointer or frame drain — the same
// path real input takes, so scripted interaction tests exercise hit testing
// and dispatch identically to a live pointer.
type syntheticPointerEvent struct {
	eventType PointerEventType
	x, y      float64
	button    MouseButton
}

// InjectPress queues a synthetic pointer press at (x, y) with the left
// button. The event is dispatched before the next real event or frame.
func (r *Renderer) InjectPress(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{
		eventType: PointerEventDown, x: x, y: y, button: MouseButtonLeft,
	})
}

// InjectMove queues a synthetic pointer move to (x, y) with the button still
// held. Use between InjectPress and InjectRelease to simulate a drag.
func (r *Renderer) InjectMove(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{
		eventType: PointerEventMove, x: x, y: y, button: MouseButtonLeft,
	})
}

// InjectRelease queues a synthetic pointer release at (x, y).
func (r *Renderer) InjectRelease(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{
		eventType: PointerEventUp, x: x, y: y, button: MouseButtonLeft,
	})
}

// injectedPointerID keeps synthetic events on their own pointer so they never
// interleave with a real pointer's delta history.
const injectedPointerID PointerId = -1

func (r *Renderer) drainInjected(timeNanos int64) {
	if len(r.injectQueue) == 0 || r.processor == nil {
		return
	}
	queue := r.injectQueue
	r.injectQueue = nil
	for _, ev := range queue {
		r.processor.Process(injectedPointerID, ev.eventType, ev.x, ev.y, ev.button, timeNanos)
	}
}
