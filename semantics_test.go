package compose

import "testing"

func TestSemanticsTreeLiftsNonSemanticWrappers(t *testing.T) {
	var buttonID NodeId
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		root := insert(0, NewLayoutNode(ColumnMeasurePolicy(0)))

		// A purely structural wrapper with no semantics of its own.
		wrapper := insert(root, NewLayoutNode(nil))

		button := NewLayoutNode(nil)
		button.SetModifier(Modifier{}.Then(
			SizeElement{Width: 40, Height: 20, HasWidth: true, HasHeight: true},
			SemanticsElement{Label: "Submit", Role: RoleButton},
		))
		buttonID = insert(wrapper, button)
	})

	tree := ComputeLayout(store, store.Root(), Loose())
	sem := BuildSemanticsTree(store, tree)
	if sem == nil {
		t.Fatal("no semantics tree")
	}

	// The wrapper contributes nothing; the button hangs off the root.
	if len(sem.Children) != 1 {
		t.Fatalf("root semantics children = %d, want 1", len(sem.Children))
	}
	btn := sem.Children[0]
	if btn.NodeID != buttonID || btn.Label != "Submit" || btn.Role != RoleButton {
		t.Errorf("button semantics = %+v", btn)
	}
	if btn.Bounds.Width != 40 || btn.Bounds.Height != 20 {
		t.Errorf("button bounds = %+v", btn.Bounds)
	}
}

func TestSemanticsMergeLaterWins(t *testing.T) {
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		root := insert(0, NewLayoutNode(nil))
		n := NewLayoutNode(nil)
		n.SetModifier(Modifier{}.Then(
			SemanticsElement{Label: "first", Role: RoleText},
			SemanticsElement{Label: "second"},
		))
		insert(root, n)
	})

	tree := ComputeLayout(store, store.Root(), Loose())
	sem := BuildSemanticsTree(store, tree)
	if len(sem.Children) != 1 {
		t.Fatalf("semantics children = %d", len(sem.Children))
	}
	node := sem.Children[0]
	if node.Label != "second" {
		t.Errorf("label = %q, want the later element's", node.Label)
	}
	if node.Role != RoleText {
		t.Errorf("role = %v, want the earlier element's surviving", node.Role)
	}
}

func TestTextContributesSemantics(t *testing.T) {
	store := buildTree(t, func(store *NodeStore, insert func(NodeId, *LayoutNode) NodeId) {
		root := insert(0, NewLayoutNode(nil))
		n := NewLayoutNode(nil)
		n.SetModifier(Modifier{}.Then(TextElement{Text: "hello", Size: 12}))
		insert(root, n)
	})

	tree := ComputeLayout(store, store.Root(), Loose())
	sem := BuildSemanticsTree(store, tree)
	if len(sem.Children) != 1 {
		t.Fatalf("semantics children = %d", len(sem.Children))
	}
	if got := sem.Children[0]; got.Label != "hello" || got.Role != RoleText {
		t.Errorf("text semantics = %+v", got)
	}
}
