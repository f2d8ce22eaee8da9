package compose

// Capability is a bitmask identifying what a ModifierNode participates in,
// letting the chain and its traversers skip nodes that don't care about a
// given pass without a type switch.
type Capability uint8

const (
	CapLayout Capability = 1 << iota
	CapDraw
	CapPointerInput
	CapSemantics
	CapModifierLocals
	CapFocus
)

func (c Capability) Has(mask Capability) bool { return c&mask != 0 }

// ModifierElement is a plain-data descriptor: it knows how to create a fresh
// ModifierNode, how to refresh an existing one with its own latest values,
// and how to compare itself against another element for reconciliation
//. Elements are immutable values; the chain owns the nodes.
type ModifierElement interface {
	Create() ModifierNode
	Update(node ModifierNode)
	Capabilities() Capability
	// Equal reports value equality against another element at the same
	// chain position. A mismatched type or a false result forces a replace.
	Equal(other ModifierElement) bool
}

// Modifier is an ordered list of ModifierElements, applied outside-in —
// element 0 is outermost. Widget code builds one with Then and hands it to
// EmitNode.
type Modifier []ModifierElement

// Then appends elements to m, returning a new Modifier (m is not mutated).
func (m Modifier) Then(elements ...ModifierElement) Modifier {
	out := make(Modifier, 0, len(m)+len(elements))
	out = append(out, m...)
	out = append(out, elements...)
	return out
}

// Capabilities returns the union of every element's capability mask.
func (m Modifier) Capabilities() Capability {
	var caps Capability
	for _, e := range m {
		caps |= e.Capabilities()
	}
	return caps
}
