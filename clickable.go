package compose

// ClickableElement recognizes a press-then-release-within-bounds click on
// its node. A press that drifts out of bounds before release, or a Cancel,
// arms nothing; the handler fires on the Main pass of the releasing Up.
type ClickableElement struct {
	OnClick func()
	Label   string
}

func (e ClickableElement) Capabilities() Capability { return CapPointerInput | CapSemantics }
func (e ClickableElement) Create() ModifierNode     { return &clickableNode{ClickableElement: e} }
func (e ClickableElement) Update(n ModifierNode) {
	n.(*clickableNode).ClickableElement = e
}
func (e ClickableElement) Equal(ModifierElement) bool {
	// Handlers are closures; always refresh via Update rather than reuse.
	return false
}

type clickableNode struct {
	baseNode
	ClickableElement
	pressed bool
}

func (n *clickableNode) Capabilities() Capability { return CapPointerInput | CapSemantics }

func (n *clickableNode) OnPointerEvent(event *PointerEvent, pass PointerPass, bounds Rect) {
	if pass != PointerPassMain {
		return
	}
	switch event.Type {
	case PointerEventDown:
		n.pressed = bounds.Contains(event.X, event.Y)
	case PointerEventMove:
		if n.pressed && !bounds.Contains(event.X, event.Y) {
			n.pressed = false
		}
	case PointerEventUp:
		if n.pressed && bounds.Contains(event.X, event.Y) && !event.Consumed() {
			if n.OnClick != nil {
				n.OnClick()
			}
			event.Consume()
		}
		n.pressed = false
	case PointerEventCancel:
		n.pressed = false
	}
}

func (n *clickableNode) ApplySemantics(sn *SemanticsNode) {
	if n.Label != "" {
		sn.Label = n.Label
	}
	sn.Role = RoleButton
}
