package compose

// subcomposeSlot is the retained state for one slot id of a SubcomposeLayout:
// its own slot table, so each slot reconciles independently of its siblings,
// and the node ids its content emitted on the most recent pass.
type subcomposeSlot struct {
	table *SlotTable
	nodes []NodeId
	used  bool
}

// SubcomposeState is the remembered backing store of one SubcomposeLayout
// call site, keyed by the caller's slot ids. Slots not subcomposed during a
// measure pass are disposed at the end of that pass, nodes included.
type SubcomposeState struct {
	slots map[any]*subcomposeSlot
}

func newSubcomposeState() *SubcomposeState {
	return &SubcomposeState{slots: make(map[any]*subcomposeSlot)}
}

// SubcomposeScope is handed to a SubcomposeLayout policy during measurement.
// It can run content for a slot id (composing it into the layout node's
// children on demand) and place the resulting measurables, and nothing else:
// the composer itself stays out of reach of measure-time code.
type SubcomposeScope struct {
	c      *Composer
	store  *NodeStore
	nodeID NodeId
	state  *SubcomposeState
	inner  *MeasureScope
}

// Subcompose runs content under the given slot id, reusing the slot's
// retained composition from previous passes, and returns one Measurable per
// node the content emitted, in emission order. Calling Subcompose twice with
// the same slot id in one pass returns the already-composed result.
func (s *SubcomposeScope) Subcompose(slotID any, content func()) []Measurable {
	slot, ok := s.state.slots[slotID]
	if !ok {
		slot = &subcomposeSlot{table: NewSlotTable()}
		s.state.slots[slotID] = slot
	}
	if !slot.used {
		slot.used = true
		s.c.SubcomposeIn(slot.table, s.nodeID, func() {
			slot.table.Rewind()
			content()
			for _, id := range slot.table.Flush() {
				s.c.applier.Remove(id)
			}
		})
		slot.nodes = slot.table.NodeIDs()
	}

	out := make([]Measurable, len(slot.nodes))
	for i, id := range slot.nodes {
		out[i] = layoutChildMeasurable{store: s.store, id: id}
	}
	return out
}

// Place records where child lands relative to this layout node's content
// origin, exactly as a MeasurePolicy's scope.Place would.
func (s *SubcomposeScope) Place(child Measurable, x, y float64) {
	s.inner.Place(child, x, y)
}

// SubcomposeLayout emits a layout node whose children are composed during
// measurement rather than composition, so the set of children can depend on
// the incoming constraints — the mechanism a lazy list uses to materialize
// only the items that fit the viewport. policy runs on every measure pass;
// slots it does not subcompose are torn down, their nodes removed.
func (c *Composer) SubcomposeLayout(modifier Modifier, policy func(scope *SubcomposeScope, constraints Constraints) Size) NodeId {
	state := Remember(c, newSubcomposeState)
	store, _ := c.applier.(*NodeStore)

	return c.EmitNode(
		func() *LayoutNode { return NewLayoutNode(nil) },
		func(n *LayoutNode) {
			n.SetModifier(modifier)
			id := n.ID()
			n.SetMeasurePolicy(func(ms *MeasureScope, _ []Measurable, constraints Constraints) Size {
				for _, slot := range state.slots {
					slot.used = false
				}
				scope := &SubcomposeScope{c: c, store: store, nodeID: id, state: state, inner: ms}
				size := policy(scope, constraints)
				for slotID, slot := range state.slots {
					if !slot.used {
						for _, nodeID := range slot.nodes {
							c.applier.Remove(nodeID)
						}
						delete(state.slots, slotID)
					}
				}
				return size
			})
		},
		nil,
	)
}
