package compose

// Renderer is the surface a platform driver talks to: one composition, its
// node tree, its pointer dispatch, and its frame clock, behind four calls —
// compute layout, build the scene, feed pointer input, pump frames. The
// driver owns the window and the GPU; the Renderer owns everything reactive.
type Renderer struct {
	rt        *Runtime
	composer  *Composer
	store     *NodeStore
	processor *PointerInputEventProcessor

	viewport Size
	content  func(*Composer)
	rendered bool

	injectQueue []syntheticPointerEvent
}

// NewRenderer creates a renderer running content against a fresh runtime,
// composer, and node store.
func NewRenderer(content func(*Composer)) *Renderer {
	rt := NewRuntime()
	store := NewNodeStore()
	r := &Renderer{
		rt:      rt,
		store:   store,
		content: content,
	}
	r.composer = NewComposer(rt, store)
	return r
}

// Composer exposes the renderer's composer, e.g. for tests that drive
// composition directly.
func (r *Renderer) Composer() *Composer { return r.composer }

// Store exposes the renderer's node registry.
func (r *Renderer) Store() *NodeStore { return r.store }

// Runtime exposes the renderer's snapshot runtime.
func (r *Renderer) Runtime() *Runtime { return r.rt }

// RootNode returns the id of the composition's outermost emitted node.
func (r *Renderer) RootNode() NodeId { return r.store.Root() }

// Render runs the initial composition (or a full re-render) of the
// renderer's content.
func (r *Renderer) Render() error {
	err := r.composer.Render("root", func() { r.content(r.composer) })
	if err != nil {
		return err
	}
	r.rendered = true
	if r.processor == nil && r.store.Root() != 0 {
		r.processor = NewPointerInputEventProcessor(r.store, r.store.Root())
	}
	return nil
}

// Recompose drains dirty scopes until composition reaches a fixpoint,
// running the initial render first if it has not happened yet.
func (r *Renderer) Recompose() error {
	if !r.rendered {
		return r.Render()
	}
	for r.composer.ProcessInvalidScopes() {
	}
	return nil
}

// ComputeLayout recomposes anything dirty, then measures and places the tree
// against the given viewport size. The viewport bounds the root (maximum
// constraints) without forcing it: a fixed-size root keeps its own size.
func (r *Renderer) ComputeLayout(viewport Size) (*LayoutTree, error) {
	if err := r.Recompose(); err != nil {
		return nil, err
	}
	r.viewport = viewport
	root := r.store.Root()
	if root == 0 {
		return &LayoutTree{}, nil
	}
	constraints := Constraints{MaxWidth: viewport.Width, MaxHeight: viewport.Height}
	return ComputeLayout(r.store, root, constraints), nil
}

// BuildScene flattens the most recently laid-out tree into draw order. Call
// after ComputeLayout.
func (r *Renderer) BuildScene() Scene {
	root := r.store.Root()
	if root == 0 {
		return Scene{}
	}
	return BuildScene(r.store, root, Vec2{}, IdentityLayer())
}

// ProcessPointer feeds one pointer sample through hit testing and dispatch.
// Any synthetic events queued via Inject* are drained first, in order.
func (r *Renderer) ProcessPointer(id PointerId, eventType PointerEventType, x, y float64, button MouseButton, timeNanos int64) ProcessResult {
	r.drainInjected(timeNanos)
	if r.processor == nil {
		return ProcessResult{}
	}
	return r.processor.Process(id, eventType, x, y, button, timeNanos)
}

// DrainFrameCallbacks delivers frameTimeNanos to every frame waiter queued
// since the previous drain, in FIFO order, then processes any recompositions
// their callbacks scheduled.
func (r *Renderer) DrainFrameCallbacks(frameTimeNanos int64) error {
	r.drainInjected(frameTimeNanos)
	r.rt.FrameClock().NextFrame(frameTimeNanos)
	return r.Recompose()
}
