package compose

// PointerPass identifies which direction an event is traveling through a hit
// path during one dispatch. The three-pass model lets an ancestor
// observe a descendant's gesture outcome (Final) after having had first
// notice of the raw event (Initial), with the descendant's own handling
// (Main) sandwiched between.
type PointerPass uint8

const (
	PointerPassInitial PointerPass = iota
	PointerPassMain
	PointerPassFinal
)

// PointerEventType identifies what changed about a pointer.
type PointerEventType uint8

const (
	PointerEventMove PointerEventType = iota
	PointerEventDown
	PointerEventUp
	PointerEventCancel
)

// PointerId distinguishes simultaneous pointers (multi-touch, or mouse plus
// touch).
type PointerId int

// PointerEvent describes one pointer's state at a moment in time. X and Y
// are in the root's coordinate space for every node along the path; handlers
// receive root-relative bounds to compare them against.
type PointerEvent struct {
	ID       PointerId
	Type     PointerEventType
	X, Y     float64
	DeltaX, DeltaY float64
	Button   MouseButton
	Pressed  bool
	TimeNanos int64

	consumed bool
}

// Consume marks the event as handled, so ancestors observing it on the Final
// pass know a descendant already acted on it.
func (e *PointerEvent) Consume() { e.consumed = true }

// Consumed reports whether some node along the path already consumed this
// event.
func (e *PointerEvent) Consumed() bool { return e.consumed }

// pointerHistory is the per-pointer state the change producer needs to
// compute deltas and down/up edges.
type pointerHistory struct {
	x, y     float64
	pressed  bool
	hasPrior bool
}

// HitPathTracker caches each active pointer's hit path (the node ids it hit
// on its most recent Down, innermost-first) so that Move/Up events for a
// pointer that has moved off its originally-hit nodes still dispatch along
// the path it started on — matching pointer-capture semantics — until an Up
// or Cancel clears it.
type HitPathTracker struct {
	paths map[PointerId][]NodeId
}

func newHitPathTracker() *HitPathTracker {
	return &HitPathTracker{paths: make(map[PointerId][]NodeId)}
}

// AddHitPath records path as the active hit path for pointer.
func (t *HitPathTracker) AddHitPath(pointer PointerId, path []NodeId) {
	t.paths[pointer] = path
}

// RemoveHitPath clears the cached path for pointer (called on Up/Cancel).
func (t *HitPathTracker) RemoveHitPath(pointer PointerId) {
	delete(t.paths, pointer)
}

// PathFor returns the cached hit path for pointer, if any.
func (t *HitPathTracker) PathFor(pointer PointerId) ([]NodeId, bool) {
	p, ok := t.paths[pointer]
	return p, ok
}

// DispatchChanges sends event along path's Initial pass (root to leaf), then
// Main pass (the leaf only), then Final pass (leaf back to root), calling
// dispatch for each (node, pass) in turn. This is the same
// outside-in-then-inside-out shape a gesture-recognizer chain needs to let
// an ancestor scrollable claim a gesture its descendant didn't consume.
func (t *HitPathTracker) DispatchChanges(path []NodeId, event *PointerEvent, dispatch func(NodeId, *PointerEvent, PointerPass)) {
	for _, id := range path {
		dispatch(id, event, PointerPassInitial)
	}
	if len(path) > 0 {
		dispatch(path[len(path)-1], event, PointerPassMain)
	}
	for i := len(path) - 1; i >= 0; i-- {
		dispatch(path[i], event, PointerPassFinal)
	}
}

// ProcessResult summarizes the outcome of one PointerInputEventProcessor
// pass, for a caller that wants to know whether to keep driving e.g. a
// surrounding scroll container.
type ProcessResult struct {
	Dispatched     bool
	MovementConsumed bool
	ChangeConsumed   bool
}

// PointerInputEventProcessor is the top-level pointer dispatch entry point:
// it hit-tests new Down (and hover) events against the tree, maintains each
// pointer's cached hit path across subsequent Move/Up events, and dispatches
// through each hit node's PointerInputModifierNode handlers via the
// Initial/Main/Final pass model.
type PointerInputEventProcessor struct {
	store      *NodeStore
	root       NodeId
	tracker    *HitPathTracker
	history    map[PointerId]pointerHistory
	processing bool
}

// NewPointerInputEventProcessor creates a processor dispatching hit tests
// against root within store.
func NewPointerInputEventProcessor(store *NodeStore, root NodeId) *PointerInputEventProcessor {
	return &PointerInputEventProcessor{
		store:   store,
		root:    root,
		tracker: newHitPathTracker(),
		history: make(map[PointerId]pointerHistory),
	}
}

// Process feeds one raw pointer sample through hit-testing and dispatch. x/y
// are in root's coordinate space. Re-entrant calls (from within a handler
// invoked by this same call) are ignored.
func (p *PointerInputEventProcessor) Process(id PointerId, eventType PointerEventType, x, y float64, button MouseButton, timeNanos int64) ProcessResult {
	if p.processing {
		return ProcessResult{}
	}
	p.processing = true
	defer func() { p.processing = false }()

	prior, hadPrior := p.history[id]
	pressed := eventType == PointerEventDown || (eventType == PointerEventMove && prior.pressed)
	if eventType == PointerEventUp || eventType == PointerEventCancel {
		pressed = false
	}

	dx, dy := 0.0, 0.0
	if hadPrior {
		dx, dy = x-prior.x, y-prior.y
	}

	isHover := !pressed && !(hadPrior && prior.pressed)

	var path []NodeId
	if eventType == PointerEventDown || (isHover && eventType == PointerEventMove) {
		results := HitTest(p.store, p.root, x, y)
		path = make([]NodeId, len(results))
		for i, r := range results {
			// HitTest returns innermost-first; dispatch paths are
			// root-to-leaf, so reverse.
			path[len(results)-1-i] = r.NodeID
		}
		if len(path) > 0 {
			p.tracker.AddHitPath(id, path)
		} else {
			p.tracker.RemoveHitPath(id)
		}
	} else if cached, ok := p.tracker.PathFor(id); ok {
		path = cached
	}

	event := &PointerEvent{
		ID: id, Type: eventType, X: x, Y: y, DeltaX: dx, DeltaY: dy,
		Button: button, Pressed: pressed, TimeNanos: timeNanos,
	}

	dispatched := false
	if len(path) > 0 {
		dispatched = true
		p.tracker.DispatchChanges(path, event, func(nodeID NodeId, ev *PointerEvent, pass PointerPass) {
			node := p.store.Get(nodeID)
			if node == nil {
				debugWarnf("pointer dispatch: node %d missing from registry; event dropped", nodeID)
				return
			}
			// Handlers see the event in root coordinates, so their bounds
			// must be root-relative as well.
			pos, _ := AbsolutePosition(p.store, p.root, nodeID)
			bounds := Rect{X: pos.X, Y: pos.Y, Width: node.lastSize.Width, Height: node.lastSize.Height}
			node.chain.ForEachNodeWithCapability(CapPointerInput, func(mn ModifierNode) {
				if pn, ok := mn.(PointerInputModifierNode); ok {
					pn.OnPointerEvent(ev, pass, bounds)
				}
			})
		})
	}

	if eventType == PointerEventUp || eventType == PointerEventCancel {
		p.tracker.RemoveHitPath(id)
		delete(p.history, id)
	} else {
		p.history[id] = pointerHistory{x: x, y: y, pressed: pressed, hasPrior: true}
	}

	return ProcessResult{Dispatched: dispatched, MovementConsumed: event.consumed, ChangeConsumed: event.consumed}
}

// Cancel clears all cached pointer history and hit paths, e.g. when the
// surrounding window loses input focus.
func (p *PointerInputEventProcessor) Cancel() {
	if p.processing {
		return
	}
	p.tracker = newHitPathTracker()
	p.history = make(map[PointerId]pointerHistory)
}
