package compose

// ModifierNodeChain reconciles a Modifier's element list into a list of
// live ModifierNodes, reusing nodes across recompositions wherever the
// element at a position still compares equal.
type ModifierNodeChain struct {
	nodes    []ModifierNode
	elements []ModifierElement

	capMask     Capability
	invalidated Capability
}

func newModifierNodeChain() *ModifierNodeChain {
	return &ModifierNodeChain{}
}

// UpdateFromSlice reconciles elements against the chain's current nodes.
// Matching is positional first, refined by equality: an element equal to the
// one previously at its position updates that node in place; otherwise the
// remaining unmatched nodes are searched for an equal element, so a reordered
// modifier list moves its nodes rather than recreating them. Only elements
// with no equal counterpart anywhere create fresh nodes, and only nodes whose
// element vanished are detached.
func (c *ModifierNodeChain) UpdateFromSlice(elements Modifier) {
	oldNodes, oldElems := c.nodes, c.elements
	used := make([]bool, len(oldNodes))
	newNodes := make([]ModifierNode, 0, len(elements))

	for i, el := range elements {
		match := -1
		if i < len(oldElems) && !used[i] && el.Equal(oldElems[i]) {
			match = i
		} else {
			for j := range oldElems {
				if !used[j] && el.Equal(oldElems[j]) {
					match = j
					break
				}
			}
		}
		if match >= 0 {
			used[match] = true
			el.Update(oldNodes[match])
			newNodes = append(newNodes, oldNodes[match])
			continue
		}
		n := el.Create()
		n.OnAttach()
		newNodes = append(newNodes, n)
		c.invalidated |= el.Capabilities()
	}

	for j, n := range oldNodes {
		if !used[j] {
			n.OnDetach()
			c.invalidated |= n.Capabilities()
		}
	}

	c.nodes = newNodes
	c.elements = append(c.elements[:0], elements...)
	c.capMask = 0
	for _, n := range c.nodes {
		c.capMask |= n.Capabilities()
	}
}

// Capabilities returns the union of every live node's capability mask.
func (c *ModifierNodeChain) Capabilities() Capability {
	return c.capMask
}

// Len returns the number of live nodes in the chain.
func (c *ModifierNodeChain) Len() int { return len(c.nodes) }

// NodeAt returns the live node at position i, outermost first.
func (c *ModifierNodeChain) NodeAt(i int) ModifierNode { return c.nodes[i] }

// Elements returns a copy of the element list the chain last reconciled
// against.
func (c *ModifierNodeChain) Elements() []ModifierElement {
	return append([]ModifierElement(nil), c.elements...)
}

// ForEachNodeWithCapability visits, in chain order, every node whose
// capability mask overlaps mask. The chain-wide aggregate mask lets this
// short-circuit entirely when nothing in the chain matches.
func (c *ModifierNodeChain) ForEachNodeWithCapability(mask Capability, visit func(ModifierNode)) {
	if c.capMask&mask == 0 {
		return
	}
	for _, n := range c.nodes {
		if n.Capabilities()&mask != 0 {
			visit(n)
		}
	}
}

// nodesWithCapability collects, in chain order, every node whose capability
// mask overlaps mask.
func (c *ModifierNodeChain) nodesWithCapability(mask Capability) []ModifierNode {
	if c.capMask&mask == 0 {
		return nil
	}
	var out []ModifierNode
	for _, n := range c.nodes {
		if n.Capabilities()&mask != 0 {
			out = append(out, n)
		}
	}
	return out
}

// TakeInvalidations drains and returns the capability mask of everything
// that changed since the last call, so the owner can decide whether layout,
// draw, or pointer dispatch needs to rerun.
func (c *ModifierNodeChain) TakeInvalidations() Capability {
	out := c.invalidated
	c.invalidated = 0
	return out
}

// Detach tears the whole chain down, firing OnDetach on every node exactly
// once. Called when the owning LayoutNode is removed.
func (c *ModifierNodeChain) Detach() {
	for _, n := range c.nodes {
		n.OnDetach()
	}
	c.nodes = nil
	c.elements = nil
	c.capMask = 0
}
