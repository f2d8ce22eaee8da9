package compose

import "testing"

func clickableTree(t *testing.T, onClick func()) *NodeStore {
	t.Helper()
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		n := NewLayoutNode(nil)
		n.SetModifier(Modifier{}.Then(
			SizeElement{Width: 100, Height: 40, HasWidth: true, HasHeight: true},
			ClickableElement{OnClick: onClick, Label: "Go"},
		))
		insert(0, n)
	})
	ComputeLayout(store, store.Root(), Loose())
	return store
}

func TestClickFiresOnReleaseInBounds(t *testing.T) {
	clicks := 0
	store := clickableTree(t, func() { clicks++ })
	proc := NewPointerInputEventProcessor(store, store.Root())

	proc.Process(1, PointerEventDown, 50, 20, MouseButtonLeft, 0)
	proc.Process(1, PointerEventUp, 52, 22, MouseButtonLeft, 1e6)
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestClickCancelledByLeavingBounds(t *testing.T) {
	clicks := 0
	store := clickableTree(t, func() { clicks++ })
	proc := NewPointerInputEventProcessor(store, store.Root())

	proc.Process(1, PointerEventDown, 50, 20, MouseButtonLeft, 0)
	proc.Process(1, PointerEventMove, 300, 300, MouseButtonLeft, 1e6)
	proc.Process(1, PointerEventUp, 50, 20, MouseButtonLeft, 2e6)
	if clicks != 0 {
		t.Errorf("clicks = %d after leaving bounds mid-press, want 0", clicks)
	}
}

func TestClickCancelledByCancelEvent(t *testing.T) {
	clicks := 0
	store := clickableTree(t, func() { clicks++ })
	proc := NewPointerInputEventProcessor(store, store.Root())

	proc.Process(1, PointerEventDown, 50, 20, MouseButtonLeft, 0)
	proc.Process(1, PointerEventCancel, 50, 20, MouseButtonLeft, 1e6)
	proc.Process(1, PointerEventDown, 50, 20, MouseButtonLeft, 2e6)
	proc.Process(1, PointerEventUp, 50, 20, MouseButtonLeft, 3e6)
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1 (only the second press completes)", clicks)
	}
}

func TestClickableContributesButtonSemantics(t *testing.T) {
	store := clickableTree(t, nil)
	tree := ComputeLayout(store, store.Root(), Loose())
	sem := BuildSemanticsTree(store, tree)
	if sem == nil || sem.Label != "Go" || sem.Role != RoleButton {
		t.Errorf("semantics = %+v, want label Go with button role", sem)
	}
}
