package compose

import "runtime"

// Phase is the stage of work the composer is currently performing.
type Phase uint8

const (
	PhaseComposition Phase = iota
	PhaseMeasure
	PhaseLayout
	PhaseDraw
	PhaseIdle
)

func (p Phase) String() string {
	switch p {
	case PhaseComposition:
		return "Composition"
	case PhaseMeasure:
		return "Measure"
	case PhaseLayout:
		return "Layout"
	case PhaseDraw:
		return "Draw"
	default:
		return "Idle"
	}
}

// Applier is the sole bridge between composition and the node tree it
// builds. EmitNode talks to it exclusively; nothing else in the
// composer package mutates the tree directly.
type Applier interface {
	Insert(id NodeId, node *LayoutNode, parent NodeId)
	Remove(id NodeId)
	Get(id NodeId) *LayoutNode
}

// Composer drives one composition: it owns a SlotTable, talks to an Applier
// to build the node tree, and tracks RecomposeScopes so state writes
// schedule exactly the groups that read them.
type Composer struct {
	rt      *Runtime
	table   *SlotTable
	applier Applier
	observer *SnapshotStateObserver

	phase Phase

	scopeStack []*RecomposeScope
	allScopes  map[int]*RecomposeScope

	nodeStack  []NodeId
	nextNodeID NodeId
}

// NewComposer creates a composer bound to rt's state system and applier,
// with a fresh root slot table.
func NewComposer(rt *Runtime, applier Applier) *Composer {
	return &Composer{
		rt:        rt,
		table:     NewSlotTable(),
		applier:   applier,
		observer:  newSnapshotStateObserver(rt),
		phase:     PhaseIdle,
		allScopes: make(map[int]*RecomposeScope),
	}
}

func (c *Composer) Phase() Phase { return c.phase }

func (c *Composer) allocNodeID() NodeId {
	c.nextNodeID++
	return c.nextNodeID
}

// Render is the top-level entrypoint: it rewinds the slot table to the
// start, opens a root group keyed by rootKey, runs content against whatever
// the previous render left behind, and flushes anything no longer emitted,
// disposing the corresponding nodes. Calling Render again with the same
// content reconciles rather than rebuilds: remembered values, states, and
// emitted nodes all survive in place.
func (c *Composer) Render(rootKey any, content func()) (err error) {
	c.phase = PhaseComposition
	defer func() { c.phase = PhaseIdle }()
	defer func() {
		if r := recover(); r != nil {
			if ne, ok := r.(*NodeError); ok {
				err = ne
				return
			}
			panic(r)
		}
	}()

	c.table.Rewind()
	c.table.BeginGroup(rootKey)
	content()
	c.disposeNodes(c.table.FinalizeCurrentGroup())
	c.table.EndGroup()
	c.disposeNodes(c.table.Flush())
	return nil
}

// Composable wraps body in a group keyed by its caller's source location,
// standing in for the call-site key a compiled composition framework would
// derive automatically.
func (c *Composer) Composable(body func()) {
	_, file, line, _ := runtime.Caller(1)
	c.WithGroup(callSiteKey{file, line}, body)
}

type callSiteKey struct {
	file string
	line int
}

// WithGroup introduces a positional (or, if key carries caller-assigned
// identity, keyed) group and runs body inside it.
func (c *Composer) WithGroup(key any, body func()) {
	c.table.BeginGroup(key)
	body()
	c.disposeNodes(c.table.FinalizeCurrentGroup())
	c.table.EndGroup()
}

// WithKey is WithGroup with a caller-supplied disambiguation key, typically
// used inside a loop emitting a variable number of children.
func (c *Composer) WithKey(key any, body func()) {
	c.WithGroup(key, body)
}

// WithScope runs body as a RecomposeScope: state reads during body register
// a dependency on this scope, and inputs (if provided) gate whether the
// scope can be skipped on a later recomposition pass with identical inputs.
func (c *Composer) WithScope(inputs []any, body func()) {
	tag, scope := c.currentOrNewScope()
	if scope.skippable(inputs) && !scope.dirty {
		c.table.SkipCurrentGroup()
		return
	}
	scope.inputs = inputs
	scope.dirty = false
	scope.run = func() { c.enterScopeGroup(tag, scope, body) }
	c.enterScopeGroup(tag, scope, body)
}

// enterScopeGroup opens (or re-enters) the group belonging to scope,
// executes body with scope active for dependency tracking, and closes the
// group. Both the initial composition and ProcessInvalidScopes replay use
// this same path, so a recomposed scope registers fresh dependencies.
func (c *Composer) enterScopeGroup(tag int, scope *RecomposeScope, body func()) {
	c.table.BeginGroup(tag)
	c.table.TagCurrentGroupScope(tag)
	c.observer.enter(scope)
	c.scopeStack = append(c.scopeStack, scope)
	body()
	c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
	c.observer.leave()
	c.disposeNodes(c.table.FinalizeCurrentGroup())
	c.table.EndGroup()
}

// currentOrNewScope reads (or allocates) a value slot holding this call
// site's scope tag, via the same AllocValueSlot mechanics every other slot
// uses, so the cursor always advances exactly one slot regardless of
// whether the tag already existed.
func (c *Composer) currentOrNewScope() (int, *RecomposeScope) {
	v := c.table.AllocValueSlot(func() any { return c.table.NextScopeTag() })
	tag := v.(int)
	scope, ok := c.allScopes[tag]
	if !ok {
		scope = newRecomposeScope(tag, nil)
		c.allScopes[tag] = scope
	}
	return tag, scope
}

// EmitNode records a node slot for the cursor's position: it constructs the
// node via init on first visit (inserting it into the applier as a child of
// whatever node is current on the node stack) or rebinds the existing one on
// later visits. children, if non-nil, runs with the emitted node pushed as
// the current parent.
func (c *Composer) EmitNode(init func() *LayoutNode, update func(*LayoutNode), children func()) NodeId {
	var parent NodeId
	if len(c.nodeStack) > 0 {
		parent = c.nodeStack[len(c.nodeStack)-1]
	}

	var id NodeId
	if existing, ok := c.table.PeekNode(); ok {
		id = existing
		c.table.AdvanceAfterNodeRead()
		if update != nil {
			if n := c.applier.Get(id); n != nil {
				update(n)
			}
		}
	} else {
		id = c.allocNodeID()
		node := init()
		c.applier.Insert(id, node, parent)
		c.table.RecordNode(id)
		if update != nil {
			update(node)
		}
	}

	if children != nil {
		c.nodeStack = append(c.nodeStack, id)
		children()
		c.nodeStack = c.nodeStack[:len(c.nodeStack)-1]
	}
	return id
}

func (c *Composer) disposeNodes(ids []NodeId) {
	for _, id := range ids {
		c.applier.Remove(id)
	}
}

// SubcomposeIn runs body against host's slot table instead of the
// composer's own, switching the composer into the Measure phase for the
// duration — used by SubcomposeLayout to produce children on demand while
// measuring.
func (c *Composer) SubcomposeIn(host *SlotTable, parentNode NodeId, body func()) {
	prevTable, prevPhase, prevStack := c.table, c.phase, c.nodeStack
	c.table = host
	c.phase = PhaseMeasure
	c.nodeStack = []NodeId{parentNode}
	defer func() {
		c.table = prevTable
		c.phase = prevPhase
		c.nodeStack = prevStack
	}()
	body()
}

// ProcessInvalidScopes reruns every scope marked dirty since the last call,
// in ascending slot-table order (scope tags are assigned in composition
// order, so sorting by tag approximates position order). It returns true if
// rerunning produced newly dirty scopes, signaling the caller to call again.
func (c *Composer) ProcessInvalidScopes() bool {
	dirty := c.observer.takeDirty()
	if len(dirty) == 0 {
		return false
	}
	sortScopesByTag(dirty)

	c.phase = PhaseComposition
	defer func() { c.phase = PhaseIdle }()

	for _, scope := range dirty {
		if !c.table.BeginRecomposeAtScope(scope.tag) {
			continue // the scope's group was removed by an enclosing recomposition
		}
		if scope.run != nil {
			scope.run()
		}
		scope.dirty = false
		c.table.EndRecompose()
	}
	return c.observer.hasDirty()
}

func sortScopesByTag(scopes []*RecomposeScope) {
	for i := 1; i < len(scopes); i++ {
		for j := i; j > 0 && scopes[j-1].tag > scopes[j].tag; j-- {
			scopes[j-1], scopes[j] = scopes[j], scopes[j-1]
		}
	}
}

// Runtime returns the snapshot runtime this composer reads and writes state
// through.
func (c *Composer) Runtime() *Runtime { return c.rt }

// Remember returns the value produced by init on this call site's first
// composition, and that same value (never re-running init) on every later
// pass over the same slot.
func Remember[T any](c *Composer, init func() T) T {
	v := c.table.Remember(func() any { return init() })
	return v.(T)
}

// UseState remembers a MutableState cell seeded by init. Reads through the
// returned state register the enclosing recompose scope as a dependent;
// writes schedule every dependent scope for recomposition.
func UseState[T any](c *Composer, init func() T) *MutableState[T] {
	return Remember(c, func() *MutableState[T] {
		return NewMutableState(c.rt, init())
	})
}
