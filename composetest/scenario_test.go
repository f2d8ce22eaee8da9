package composetest

import (
	"fmt"
	"math"
	"testing"

	"github.com/phanxgames/compose"
)

var viewport = compose.Size{Width: 640, Height: 480}

// Counter recomposition: a state write dirties exactly the scope that read
// it, the text updates in place, and no node is recreated.
func TestCounterRecomposition(t *testing.T) {
	var count *compose.MutableState[int]
	var outerRuns, textRuns int
	var textID, boxID compose.NodeId

	renderer := compose.NewRenderer(func(c *compose.Composer) {
		outerRuns++
		count = compose.UseState(c, func() int { return 0 })
		boxID = box(c, compose.Modifier{}.Then(sized(200, 100)), func() {
			c.WithScope(nil, func() {
				textRuns++
				textID = c.EmitNode(
					func() *compose.LayoutNode { return compose.NewLayoutNode(nil) },
					func(n *compose.LayoutNode) {
						n.SetModifier(compose.Modifier{}.Then(
							compose.TextElement{Text: fmt.Sprint(count.Get()), Size: 16},
						))
					},
					nil,
				)
			})
		})
	})

	if err := renderer.Render(); err != nil {
		t.Fatalf("initial render: %v", err)
	}
	if outerRuns != 1 || textRuns != 1 {
		t.Fatalf("after initial render: outerRuns=%d textRuns=%d, want 1/1", outerRuns, textRuns)
	}

	textNode := renderer.Store().Get(textID)
	boxNode := renderer.Store().Get(boxID)

	count.Set(1)
	if err := renderer.Recompose(); err != nil {
		t.Fatalf("recompose: %v", err)
	}

	if outerRuns != 1 {
		t.Errorf("outer content reran (%d times); only the text scope should", outerRuns)
	}
	if textRuns != 2 {
		t.Errorf("text scope ran %d times, want 2", textRuns)
	}
	if got := renderer.Store().Get(textID); got != textNode {
		t.Errorf("text node was recreated")
	}
	if got := renderer.Store().Get(boxID); got != boxNode {
		t.Errorf("box node was recreated")
	}

	elems := renderer.Store().Get(textID).Chain().Elements()
	te, ok := elems[0].(compose.TextElement)
	if !ok || te.Text != "1" {
		t.Errorf("text element after recompose = %+v, want Text \"1\"", elems[0])
	}
}

// Swapping two modifiers reuses both nodes: attach fires once per node
// across both renders, chain length is stable, and the capability mask is
// still LAYOUT|DRAW.
func TestModifierReorderPreservesNodeIdentity(t *testing.T) {
	red := compose.Color{R: 1, A: 1}

	var swapped *compose.MutableState[bool]
	var id compose.NodeId
	renderer := compose.NewRenderer(func(c *compose.Composer) {
		swapped = compose.UseState(c, func() bool { return false })
		c.WithScope(nil, func() {
			m := compose.Modifier{}.Then(padding(8), background(red))
			if swapped.Get() {
				m = compose.Modifier{}.Then(background(red), padding(8))
			}
			id = box(c, m, nil)
		})
	})

	if err := renderer.Render(); err != nil {
		t.Fatalf("render: %v", err)
	}
	chain := renderer.Store().Get(id).Chain()
	if chain.Len() != 2 {
		t.Fatalf("chain length = %d, want 2", chain.Len())
	}
	padNode, bgNode := chain.NodeAt(0), chain.NodeAt(1)

	swapped.Set(true)
	if err := renderer.Recompose(); err != nil {
		t.Fatalf("recompose: %v", err)
	}

	chain = renderer.Store().Get(id).Chain()
	if chain.Len() != 2 {
		t.Fatalf("chain length after swap = %d, want 2", chain.Len())
	}
	if chain.NodeAt(0) != bgNode || chain.NodeAt(1) != padNode {
		t.Errorf("nodes were not reused across the reorder")
	}
	if got, want := chain.Capabilities(), compose.CapLayout|compose.CapDraw; got != want {
		t.Errorf("capability mask = %#x, want %#x", got, want)
	}
}

// Padding + fixed size + offset: the offset shifts the box, the padding
// shifts the content within it.
func TestPaddingSizeOffsetGeometry(t *testing.T) {
	var outerID, childID compose.NodeId
	renderer := compose.NewRenderer(func(c *compose.Composer) {
		outerID = box(c, compose.Modifier{}.Then(sized(100, 100), padding(15), offset(20, 30)), func() {
			childID = box(c, compose.Modifier{}.Then(sized(50, 50)), nil)
		})
	})

	tree, err := renderer.ComputeLayout(viewport)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	outer, ok := tree.RectOf(outerID)
	if !ok {
		t.Fatalf("outer box not placed")
	}
	if outer != (compose.Rect{X: 20, Y: 30, Width: 100, Height: 100}) {
		t.Errorf("outer rect = %+v, want (20, 30, 100, 100)", outer)
	}

	child, ok := tree.RectOf(childID)
	if !ok {
		t.Fatalf("child box not placed")
	}
	if child != (compose.Rect{X: 35, Y: 45, Width: 50, Height: 50}) {
		t.Errorf("child rect = %+v, want (35, 45, 50, 50)", child)
	}
}

// Column stacking: three 50-high items with 10px spacing land at 0, 60, 120
// and the column's content spans 170; bottom padding grows the outer box.
func TestColumnSpacingAndContentPadding(t *testing.T) {
	var colID compose.NodeId
	items := make([]compose.NodeId, 3)
	renderer := compose.NewRenderer(func(c *compose.Composer) {
		colID = column(c, compose.Modifier{}.Then(compose.PaddingElement{Bottom: 20}), 10, func() {
			for i := range items {
				idx := i
				c.WithKey(idx, func() {
					items[idx] = box(c, compose.Modifier{}.Then(sized(80, 50)), nil)
				})
			}
		})
	})

	tree, err := renderer.ComputeLayout(viewport)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	colRect, _ := tree.RectOf(colID)
	wantYs := []float64{0, 60, 120}
	for i, id := range items {
		r, ok := tree.RectOf(id)
		if !ok {
			t.Fatalf("item %d not placed", i)
		}
		if r.Y-colRect.Y != wantYs[i] {
			t.Errorf("item %d at y=%g (relative), want %g", i, r.Y-colRect.Y, wantYs[i])
		}
	}

	// Content height: items plus inter-item spacing.
	lastBottom := 0.0
	if r, ok := tree.RectOf(items[2]); ok {
		lastBottom = r.Y - colRect.Y + r.Height
	}
	if lastBottom != 170 {
		t.Errorf("column content height = %g, want 170", lastBottom)
	}
	// The bottom padding is part of the column's own box.
	if colRect.Height != 190 {
		t.Errorf("column box height = %g, want content 170 + padding 20", colRect.Height)
	}
}

// A subcompose-driven lazy column can jump to the middle of a uint64-max
// item space without materializing anything before it.
func TestLazyColumnJumpToMiddle(t *testing.T) {
	const itemWidth = 200.0
	heights := []float64{48, 56, 64, 72, 80}
	heightFor := func(idx uint64) float64 { return heights[idx%5] }

	type lazyPos struct {
		first  uint64
		offset float64
	}

	var pos *compose.MutableState[lazyPos]
	var visible []uint64
	itemNodes := make(map[uint64]compose.NodeId)

	renderer := compose.NewRenderer(func(c *compose.Composer) {
		pos = compose.UseState(c, func() lazyPos { return lazyPos{} })
		c.WithScope(nil, func() {
			p := pos.Get()
			c.SubcomposeLayout(nil, func(scope *compose.SubcomposeScope, constraints compose.Constraints) compose.Size {
				visible = visible[:0]
				y := -p.offset
				for idx := p.first; y < constraints.MaxHeight; idx++ {
					ms := scope.Subcompose(idx, func() {
						id := box(c, compose.Modifier{}.Then(sized(itemWidth, heightFor(idx))), nil)
						itemNodes[idx] = id
					})
					for _, m := range ms {
						placed := m.Measure(compose.Constraints{MaxWidth: constraints.MaxWidth, MaxHeight: 1e18})
						scope.Place(m, 0, y)
						y += placed.Size.Height
					}
					visible = append(visible, idx)
					if idx == math.MaxUint64 {
						break
					}
				}
				w, h := constraints.Constrain(itemWidth, constraints.MaxHeight)
				return compose.Size{Width: w, Height: h}
			})
		})
	})

	if _, err := renderer.ComputeLayout(viewport); err != nil {
		t.Fatalf("initial layout: %v", err)
	}
	if len(visible) == 0 || visible[0] != 0 {
		t.Fatalf("initial first visible = %v, want item 0", visible)
	}

	const mid = uint64(math.MaxUint64) / 2

	// scroll_to_item(mid, 0)
	pos.Set(lazyPos{first: mid})
	tree, err := renderer.ComputeLayout(viewport)
	if err != nil {
		t.Fatalf("layout after jump: %v", err)
	}

	if len(visible) == 0 || visible[0] != mid {
		t.Fatalf("first visible item = %v, want %d", visible[0], mid)
	}
	for _, idx := range visible {
		if idx == 0 {
			t.Errorf("item 0 still materialized after jump")
		}
	}
	if _, ok := tree.RectOf(itemNodes[0]); ok {
		t.Errorf("item 0 still present in the placed subtree")
	}

	// The item under y≈50 in the viewport is still the first one: item
	// mid has height 64 and spans [0, 64).
	first, ok := tree.RectOf(itemNodes[mid])
	if !ok {
		t.Fatalf("item %d not placed", mid)
	}
	if !(first.Y <= 50 && 50 < first.Y+first.Height) {
		t.Errorf("item %d spans [%g, %g); expected it to cover y=50", mid, first.Y, first.Y+first.Height)
	}
	if got := heightFor(mid); first.Height != got {
		t.Errorf("item %d height = %g, want %g", mid, first.Height, got)
	}
}

// Two snapshots writing disjoint states both apply cleanly and the global
// snapshot sees both values, with no record left tagged by either snapshot.
func TestSnapshotApplyMergesNonConflictingWrites(t *testing.T) {
	rt := compose.NewRuntime()
	a := compose.NewMutableState(rt, 0)
	b := compose.NewMutableState(rt, 0)

	s1 := rt.TakeMutableSnapshot(nil, nil)
	s2 := rt.TakeMutableSnapshot(nil, nil)

	rt.Enter(s1, func() { a.Set(1) })
	rt.Enter(s2, func() { b.Set(2) })

	if got := rt.Apply(s1); got != compose.ApplySuccess {
		t.Fatalf("s1 apply = %v, want Success", got)
	}
	if got := rt.Apply(s2); got != compose.ApplySuccess {
		t.Fatalf("s2 apply = %v, want Success", got)
	}

	if got := a.Get(); got != 1 {
		t.Errorf("a = %d, want 1", got)
	}
	if got := b.Get(); got != 2 {
		t.Errorf("b = %d, want 2", got)
	}
}
