package compose

import (
	"testing"
	"time"
)

// buildTree wires nodes into a store directly, bypassing composition, so
// layout math can be tested in isolation.
func buildTree(t *testing.T, build func(store *NodeStore, insert func(parent NodeId, node *LayoutNode) NodeId)) *NodeStore {
	t.Helper()
	store := NewNodeStore()
	next := NodeId(0)
	insert := func(parent NodeId, node *LayoutNode) NodeId {
		next++
		store.Insert(next, node, parent)
		return next
	}
	build(store, insert)
	return store
}

func TestConstraintsConstrain(t *testing.T) {
	c := Constraints{MinWidth: 10, MaxWidth: 100, MinHeight: 20, MaxHeight: 200}
	tests := []struct {
		w, h, wantW, wantH float64
	}{
		{50, 50, 50, 50},
		{5, 5, 10, 20},
		{500, 500, 100, 200},
	}
	for _, tt := range tests {
		if w, h := c.Constrain(tt.w, tt.h); w != tt.wantW || h != tt.wantH {
			t.Errorf("Constrain(%g, %g) = (%g, %g), want (%g, %g)", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestSizeModifierForcesSize(t *testing.T) {
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		n := NewLayoutNode(nil)
		n.SetModifier(Modifier{}.Then(SizeElement{Width: 80, Height: 60, HasWidth: true, HasHeight: true}))
		insert(0, n)
	})

	tree := ComputeLayout(store, store.Root(), Loose())
	if got := tree.Root().Rect; got != (Rect{Width: 80, Height: 60}) {
		t.Errorf("rect = %+v, want 80x60 at origin", got)
	}
}

func TestPaddingGrowsBoxAndInsetsChild(t *testing.T) {
	var parent, child NodeId
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		p := NewLayoutNode(nil)
		p.SetModifier(Modifier{}.Then(PaddingElement{Left: 20, Top: 20, Right: 20, Bottom: 20}))
		parent = insert(0, p)

		ch := NewLayoutNode(nil)
		ch.SetModifier(Modifier{}.Then(SizeElement{Width: 50, Height: 50, HasWidth: true, HasHeight: true}))
		child = insert(parent, ch)
	})

	tree := ComputeLayout(store, store.Root(), Loose())

	outer, _ := tree.RectOf(parent)
	if outer != (Rect{X: 0, Y: 0, Width: 90, Height: 90}) {
		t.Errorf("outer rect = %+v, want (0, 0, 90, 90)", outer)
	}
	inner, _ := tree.RectOf(child)
	if inner != (Rect{X: 20, Y: 20, Width: 50, Height: 50}) {
		t.Errorf("child rect = %+v, want (20, 20, 50, 50)", inner)
	}
}

func TestOffsetShiftsBoxNotChildren(t *testing.T) {
	var parent, child NodeId
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		p := NewLayoutNode(nil)
		p.SetModifier(Modifier{}.Then(
			PaddingElement{Left: 10, Top: 10, Right: 10, Bottom: 10},
			OffsetElement{X: 20, Y: 30},
		))
		parent = insert(0, p)

		ch := NewLayoutNode(nil)
		ch.SetModifier(Modifier{}.Then(SizeElement{Width: 40, Height: 40, HasWidth: true, HasHeight: true}))
		child = insert(parent, ch)
	})

	tree := ComputeLayout(store, store.Root(), Loose())

	outer, _ := tree.RectOf(parent)
	if outer != (Rect{X: 20, Y: 30, Width: 60, Height: 60}) {
		t.Errorf("outer rect = %+v, want (20, 30, 60, 60)", outer)
	}
	inner, _ := tree.RectOf(child)
	if inner != (Rect{X: 30, Y: 40, Width: 40, Height: 40}) {
		t.Errorf("child rect = %+v, want (30, 40, 40, 40)", inner)
	}
}

func TestOffsetReorderingIsInvariant(t *testing.T) {
	measure := func(elements ...ModifierElement) Rect {
		store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
			n := NewLayoutNode(nil)
			n.SetModifier(Modifier{}.Then(elements...))
			insert(0, n)
		})
		tree := ComputeLayout(store, store.Root(), Loose())
		return tree.Root().Rect
	}

	size := SizeElement{Width: 30, Height: 30, HasWidth: true, HasHeight: true}
	a := measure(size, OffsetElement{X: 5, Y: 6}, OffsetElement{X: 7, Y: 8})
	b := measure(size, OffsetElement{X: 7, Y: 8}, OffsetElement{X: 5, Y: 6})
	if a != b {
		t.Errorf("offset reorder changed placement: %+v vs %+v", a, b)
	}
	if a != (Rect{X: 12, Y: 14, Width: 30, Height: 30}) {
		t.Errorf("rect = %+v, want offsets summed to (12, 14)", a)
	}
}

func TestColumnPolicyStacksWithSpacing(t *testing.T) {
	var col NodeId
	items := make([]NodeId, 3)
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		c := NewLayoutNode(ColumnMeasurePolicy(10))
		col = insert(0, c)
		for i := range items {
			n := NewLayoutNode(nil)
			n.SetModifier(Modifier{}.Then(SizeElement{Width: 80, Height: 50, HasWidth: true, HasHeight: true}))
			items[i] = insert(col, n)
		}
	})

	tree := ComputeLayout(store, store.Root(), Loose())
	wantY := []float64{0, 60, 120}
	for i, id := range items {
		r, _ := tree.RectOf(id)
		if r.Y != wantY[i] {
			t.Errorf("item %d at y=%g, want %g", i, r.Y, wantY[i])
		}
	}
	colRect, _ := tree.RectOf(col)
	if colRect.Height != 170 {
		t.Errorf("column height = %g, want 170", colRect.Height)
	}
	if colRect.Width != 80 {
		t.Errorf("column width = %g, want widest child 80", colRect.Width)
	}
}

func TestRowPolicyStacksHorizontally(t *testing.T) {
	items := make([]NodeId, 2)
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		row := insert(0, NewLayoutNode(RowMeasurePolicy(5)))
		for i := range items {
			n := NewLayoutNode(nil)
			n.SetModifier(Modifier{}.Then(SizeElement{Width: 30, Height: 20, HasWidth: true, HasHeight: true}))
			items[i] = insert(row, n)
		}
	})

	tree := ComputeLayout(store, store.Root(), Loose())
	first, _ := tree.RectOf(items[0])
	second, _ := tree.RectOf(items[1])
	if first.X != 0 || second.X != 35 {
		t.Errorf("row items at x=%g, %g; want 0, 35", first.X, second.X)
	}
}

func TestAbsolutePositionMatchesLayoutTree(t *testing.T) {
	var parent, child NodeId
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		p := NewLayoutNode(nil)
		p.SetModifier(Modifier{}.Then(PaddingElement{Left: 15, Top: 15, Right: 15, Bottom: 15}, OffsetElement{X: 5, Y: 5}))
		parent = insert(0, p)
		ch := NewLayoutNode(nil)
		ch.SetModifier(Modifier{}.Then(SizeElement{Width: 10, Height: 10, HasWidth: true, HasHeight: true}))
		child = insert(parent, ch)
	})

	tree := ComputeLayout(store, store.Root(), Loose())

	pos, ok := AbsolutePosition(store, store.Root(), child)
	if !ok {
		t.Fatal("child not found from root")
	}
	want, _ := tree.RectOf(child)
	if pos.X != want.X || pos.Y != want.Y {
		t.Errorf("AbsolutePosition = %+v, want (%g, %g)", pos, want.X, want.Y)
	}

	if _, ok := AbsolutePosition(store, child, parent); ok {
		t.Error("an ancestor should not resolve from a descendant")
	}
}

func TestAccumulatedOffsetEqualsSumOfLocals(t *testing.T) {
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		n := NewLayoutNode(nil)
		n.SetModifier(Modifier{}.Then(
			OffsetElement{X: 1, Y: 2},
			PaddingElement{Left: 3, Top: 4},
			OffsetElement{X: 5, Y: 6},
		))
		insert(0, n)
	})

	p := measureNode(store, store.Root(), Loose())
	if p.AccumulatedOffset != (Vec2{X: 6, Y: 8}) {
		t.Errorf("accumulated box offset = %+v, want sum of offsets (6, 8)", p.AccumulatedOffset)
	}
	if p.ContentInset != (Vec2{X: 3, Y: 4}) {
		t.Errorf("content inset = %+v, want the padding (3, 4)", p.ContentInset)
	}
}

func TestMeasureBudgetSkipsSubtreeNotPass(t *testing.T) {
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		root := insert(0, NewLayoutNode(ColumnMeasurePolicy(0)))
		for i := 0; i < 3; i++ {
			n := NewLayoutNode(nil)
			n.SetModifier(Modifier{}.Then(SizeElement{Width: 10, Height: 10, HasWidth: true, HasHeight: true}))
			insert(root, n)
		}
	})

	// An already-expired budget must still produce a tree, just without
	// fresh measurements.
	tree := ComputeLayoutBudgeted(store, store.Root(), Loose(), time.Nanosecond)
	if tree.Root() == nil {
		t.Fatal("budgeted layout returned no tree")
	}

	// A generous budget measures normally.
	tree = ComputeLayoutBudgeted(store, store.Root(), Loose(), time.Minute)
	if got := tree.Root().Rect.Height; got != 30 {
		t.Errorf("root height = %g, want 30", got)
	}
}
