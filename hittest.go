package compose

// HitTestResult is one node along a hit path, innermost (topmost-drawn)
// first, together with the point in that node's own local coordinate space.
type HitTestResult struct {
	NodeID         NodeId
	LocalX, LocalY float64
}

// hitTester walks a LayoutNode tree to find the pointer-input nodes under a
// point,
// reusing the same clip semantics a real renderer's painter-order hit test
// applies: a ClipToBoundsElement stops the walk from finding descendants
// outside the clipped area, exactly as it stops them from being drawn there.
type hitTester struct {
	store *NodeStore
}

// HitTest returns the nodes with a pointer-input modifier under (x, y) in
// root's coordinate space, along the topmost branch that contains the point;
// nodes without pointer input are not returned. Results are ordered
// innermost-first (the node painted on top is first), the order
// pointer dispatch's Initial/Main/Final passes expect.
func HitTest(store *NodeStore, root NodeId, x, y float64) []HitTestResult {
	t := &hitTester{store: store}
	var out []HitTestResult
	t.walk(root, x, y, &out)
	return out
}

// walk receives (x, y) relative to where the parent placed this node's box,
// before the node's own box offset is applied.
func (t *hitTester) walk(id NodeId, x, y float64, out *[]HitTestResult) bool {
	node := t.store.Get(id)
	if node == nil {
		return false
	}

	// Into box-local space: undo the node's own accumulated box offset.
	x -= node.lastBoxOffset.X
	y -= node.lastBoxOffset.Y

	bounds := Rect{Width: node.lastSize.Width, Height: node.lastSize.Height}
	inBounds := ContainsRounded(bounds, nodeCornerRadii(node), x, y)

	if nodeClipsToBounds(node) && !inBounds {
		return false
	}

	// Children live in content space (box-local plus the content inset).
	cx, cy := x-node.lastInset.X, y-node.lastInset.Y

	// Children are painted after (on top of) their parent, so to report
	// innermost-first we visit children first, in reverse composition order
	// (last-placed child is topmost), and only fall back to this node itself
	// if no child claimed the point.
	hitChild := false
	for i := len(node.children) - 1; i >= 0; i-- {
		childID := node.children[i]
		offset := node.lastPlacements[childID]
		if t.walk(childID, cx-offset.X, cy-offset.Y, out) {
			hitChild = true
			break
		}
	}

	if hitChild {
		if inBounds && node.chain.Capabilities()&CapPointerInput != 0 {
			*out = append(*out, HitTestResult{NodeID: id, LocalX: x, LocalY: y})
		}
		return true
	}

	interactable := node.chain.Capabilities()&CapPointerInput != 0
	if inBounds && interactable {
		*out = append(*out, HitTestResult{NodeID: id, LocalX: x, LocalY: y})
		return true
	}
	return inBounds
}
