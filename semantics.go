package compose

// SemanticsRole describes what kind of interactive element a semantics node
// announces itself as.
type SemanticsRole uint8

const (
	RoleNone SemanticsRole = iota
	RoleButton
	RoleCheckbox
	RoleSlider
	RoleText
	RoleImage
)

// SemanticsNode is one node in the accessibility tree produced from a placed
// layout tree. Properties are merged in chain order when several semantics
// modifiers sit on one layout node; later modifiers win for scalar fields.
type SemanticsNode struct {
	NodeID   NodeId
	Bounds   Rect
	Label    string
	Role     SemanticsRole
	Disabled bool
	Children []*SemanticsNode
}

// BuildSemanticsTree walks the placed layout tree and produces the semantics
// tree for it. Layout nodes without any semantics-capable modifier do not
// appear themselves; their descendants are lifted to the nearest semantic
// ancestor, so purely structural wrappers don't clutter the tree.
func BuildSemanticsTree(store *NodeStore, tree *LayoutTree) *SemanticsNode {
	if tree == nil || tree.Root() == nil {
		return nil
	}
	root := &SemanticsNode{NodeID: tree.Root().NodeID, Bounds: tree.Root().Rect}
	if node := store.Get(root.NodeID); node != nil {
		node.chain.ForEachNodeWithCapability(CapSemantics, func(mn ModifierNode) {
			if s, ok := mn.(SemanticsModifierNode); ok {
				s.ApplySemantics(root)
			}
		})
	}
	collectSemantics(store, tree.Root(), root)
	return root
}

func collectSemantics(store *NodeStore, box *LayoutBox, parent *SemanticsNode) {
	for _, child := range box.Children {
		node := store.Get(child.NodeID)
		if node == nil {
			continue
		}
		if node.chain.Capabilities()&CapSemantics != 0 {
			sn := &SemanticsNode{NodeID: child.NodeID, Bounds: child.Rect}
			node.chain.ForEachNodeWithCapability(CapSemantics, func(mn ModifierNode) {
				if s, ok := mn.(SemanticsModifierNode); ok {
					s.ApplySemantics(sn)
				}
			})
			parent.Children = append(parent.Children, sn)
			collectSemantics(store, child, sn)
		} else {
			collectSemantics(store, child, parent)
		}
	}
}

// SemanticsElement attaches a label and role to its node in the semantics
// tree.
type SemanticsElement struct {
	Label    string
	Role     SemanticsRole
	Disabled bool
}

func (e SemanticsElement) Capabilities() Capability { return CapSemantics }
func (e SemanticsElement) Create() ModifierNode     { return &semanticsNode{SemanticsElement: e} }
func (e SemanticsElement) Update(n ModifierNode)    { n.(*semanticsNode).SemanticsElement = e }
func (e SemanticsElement) Equal(other ModifierElement) bool {
	o, ok := other.(SemanticsElement)
	return ok && o == e
}

type semanticsNode struct {
	baseNode
	SemanticsElement
}

func (n *semanticsNode) Capabilities() Capability { return CapSemantics }

func (n *semanticsNode) ApplySemantics(sn *SemanticsNode) {
	if n.Label != "" {
		sn.Label = n.Label
	}
	if n.Role != RoleNone {
		sn.Role = n.Role
	}
	if n.Disabled {
		sn.Disabled = true
	}
}
