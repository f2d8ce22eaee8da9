package compose

// LayoutNodeContext carries invalidation signals shared between a LayoutNode
// and whatever owns its measure/placement lifecycle. It is a plain mutable
// struct rather than a channel or callback list: a single composition thread
// reads and writes it directly.
type LayoutNodeContext struct {
	needsMeasure bool
	needsPlace   bool
}

// RequestRemeasure marks the owning node as needing another measure pass
// before the next frame. Only this context's flag is set; ancestors are not
// marked.
func (c *LayoutNodeContext) RequestRemeasure() { c.needsMeasure = true }

// RequestRelayout marks the owning node as needing re-placement without a
// full remeasure.
func (c *LayoutNodeContext) RequestRelayout() { c.needsPlace = true }

// LayoutNode is the retained tree node the composer emits and the measure/
// layout/draw pipeline walks. One LayoutNode exists per EmitNode call
// site that is still live; its ModifierNodeChain and MeasurePolicy are
// reconciled in place across recompositions rather than rebuilt.
type LayoutNode struct {
	id     NodeId
	parent NodeId
	hasParent bool
	children []NodeId

	chain         *ModifierNodeChain
	measurePolicy MeasurePolicy

	context *LayoutNodeContext

	// The last* fields are populated by the most recent measure pass and read
	// back by placement, hit-testing, and scene building. lastSize is the
	// node's outer (head-coordinator) size; lastBoxOffset shifts the whole box
	// relative to where the parent placed it (offset modifiers); lastInset
	// shifts the node's content within the box (padding modifiers).
	lastSize       Size
	lastBoxOffset  Vec2
	lastInset      Vec2
	lastPlacements map[NodeId]Vec2 // children placements, keyed by id, relative to the content origin

	// userData lets widget code stash arbitrary per-node state (e.g. a
	// pointer-input gesture state machine) without the core needing to know
	// its shape.
	userData any
}

// NewLayoutNode creates a node with an empty modifier chain and the given
// intrinsic measurement policy. Widget code never constructs these directly;
// Composer.EmitNode's init callback does.
func NewLayoutNode(policy MeasurePolicy) *LayoutNode {
	if policy == nil {
		policy = SingleChildMeasurePolicy()
	}
	return &LayoutNode{
		chain:         newModifierNodeChain(),
		measurePolicy: policy,
		context:       &LayoutNodeContext{},
	}
}

// ID returns this node's stable identity.
func (n *LayoutNode) ID() NodeId { return n.id }

// Context returns the node's invalidation-signal context.
func (n *LayoutNode) Context() *LayoutNodeContext { return n.context }

// SetModifier reconciles m against the node's existing chain.
func (n *LayoutNode) SetModifier(m Modifier) {
	n.chain.UpdateFromSlice(m)
}

// SetMeasurePolicy replaces the node's intrinsic measurement behavior, used
// when a widget's policy depends on props that changed this recomposition.
func (n *LayoutNode) SetMeasurePolicy(policy MeasurePolicy) {
	if policy != nil {
		n.measurePolicy = policy
	}
}

// Chain exposes the node's reconciled modifier chain for traversal by the
// scene builder and pointer dispatch.
func (n *LayoutNode) Chain() *ModifierNodeChain { return n.chain }

// LastSize returns the size computed by the most recent measure pass.
func (n *LayoutNode) LastSize() Size { return n.lastSize }

// UserData returns the per-node opaque slot widget code may use.
func (n *LayoutNode) UserData() any { return n.userData }

// SetUserData stores an opaque value on the node.
func (n *LayoutNode) SetUserData(v any) { n.userData = v }

// Children returns the ids of this node's children in composition order.
func (n *LayoutNode) Children() []NodeId { return n.children }

// Parent returns this node's parent id and whether it has one (the root node
// does not).
func (n *LayoutNode) Parent() (NodeId, bool) { return n.parent, n.hasParent }

// NodeStore is the concrete, map-backed node registry behind the Applier
// interface.
// Composition owns exactly one NodeStore; external readers (pointer
// dispatch, the scene builder) borrow it through short-lived method calls
// rather than holding long-lived references into it.
type NodeStore struct {
	nodes map[NodeId]*LayoutNode
	root  NodeId
}

// NewNodeStore creates an empty node registry.
func NewNodeStore() *NodeStore {
	return &NodeStore{nodes: make(map[NodeId]*LayoutNode)}
}

// Insert registers node under id as a child of parent (or as the root, if
// parent is the zero NodeId and no root is set yet), satisfying the
// Composer.Applier contract.
func (s *NodeStore) Insert(id NodeId, node *LayoutNode, parent NodeId) {
	node.id = id
	s.nodes[id] = node
	if p, ok := s.nodes[parent]; ok {
		p.children = append(p.children, id)
		node.parent = parent
		node.hasParent = true
	} else if s.root == 0 {
		s.root = id
	}
	debugCheckTreeDepth(s, id)
}

// Remove detaches id from its parent's child list, disposes its modifier
// chain (firing OnDetach on every live node), and recursively removes its
// children — orphan GC as described in "Lifecycle".
func (s *NodeStore) Remove(id NodeId) {
	node, ok := s.nodes[id]
	if !ok {
		return
	}
	if node.hasParent {
		if p, ok := s.nodes[node.parent]; ok {
			p.children = removeNodeID(p.children, id)
		}
	}
	s.removeSubtree(id)
}

func (s *NodeStore) removeSubtree(id NodeId) {
	node, ok := s.nodes[id]
	if !ok {
		return
	}
	for _, child := range node.children {
		s.removeSubtree(child)
	}
	node.chain.Detach()
	delete(s.nodes, id)
	if s.root == id {
		s.root = 0
	}
}

// Get returns the node registered under id, or nil.
func (s *NodeStore) Get(id NodeId) *LayoutNode {
	return s.nodes[id]
}

// Root returns the id of the outermost emitted node, or 0 if composition has
// not emitted any node yet.
func (s *NodeStore) Root() NodeId { return s.root }

func removeNodeID(ids []NodeId, target NodeId) []NodeId {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

var _ Applier = (*NodeStore)(nil)
