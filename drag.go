package compose

import "math"

// DragPhase identifies where in a drag gesture's lifecycle an OnDrag
// callback fires.
type DragPhase uint8

const (
	DragStart DragPhase = iota
	DragMove
	DragEnd
	DragCancel
)

// dragDeadZone is the slop threshold, in local units, a pointer must travel
// from its down position before a press is promoted to a drag. Without it, a
// stationary tap registers as a zero-length drag merely from sub-pixel
// jitter.
const dragDeadZone = 4.0

// DragState is the per-node gesture state a DraggableElement's node keeps
// across pointer events.
type DragState struct {
	down       bool
	dragging   bool
	startX, startY float64
	lastX, lastY   float64
}

// DraggableElement recognizes a press-move-release drag gesture on its node,
// applying a slop threshold before committing to "dragging" so an
// accidental sub-pixel move while tapping doesn't fire spurious drag events.
type DraggableElement struct {
	OnDrag func(phase DragPhase, totalDX, totalDY, deltaDX, deltaDY float64)
}

func (e DraggableElement) Capabilities() Capability { return CapPointerInput }
func (e DraggableElement) Create() ModifierNode      { return &draggableNode{DraggableElement: e} }
func (e DraggableElement) Update(n ModifierNode) {
	n.(*draggableNode).DraggableElement = e
}
func (e DraggableElement) Equal(ModifierElement) bool {
	// Handlers are closures; always refresh via Update rather than reuse.
	return false
}

type draggableNode struct {
	baseNode
	DraggableElement
	state DragState
}

func (n *draggableNode) Capabilities() Capability { return CapPointerInput }

func (n *draggableNode) OnPointerEvent(event *PointerEvent, pass PointerPass, bounds Rect) {
	if pass != PointerPassMain {
		return
	}
	s := &n.state
	switch event.Type {
	case PointerEventDown:
		s.down = true
		s.dragging = false
		s.startX, s.startY = event.X, event.Y
		s.lastX, s.lastY = event.X, event.Y
	case PointerEventMove:
		if !s.down {
			return
		}
		if !s.dragging {
			dx, dy := event.X-s.startX, event.Y-s.startY
			if math.Hypot(dx, dy) <= dragDeadZone {
				return
			}
			s.dragging = true
			if n.OnDrag != nil {
				n.OnDrag(DragStart, 0, 0, 0, 0)
			}
		}
		deltaDX, deltaDY := event.X-s.lastX, event.Y-s.lastY
		s.lastX, s.lastY = event.X, event.Y
		if n.OnDrag != nil {
			n.OnDrag(DragMove, event.X-s.startX, event.Y-s.startY, deltaDX, deltaDY)
		}
		event.Consume()
	case PointerEventUp:
		if s.dragging && n.OnDrag != nil {
			n.OnDrag(DragEnd, event.X-s.startX, event.Y-s.startY, event.X-s.lastX, event.Y-s.lastY)
		}
		s.down = false
		s.dragging = false
	case PointerEventCancel:
		if s.dragging && n.OnDrag != nil {
			n.OnDrag(DragCancel, event.X-s.startX, event.Y-s.startY, 0, 0)
		}
		s.down = false
		s.dragging = false
	}
}
