package compose

// ModifierNode is the runtime counterpart of a ModifierElement, reused
// across recompositions as long as its element keeps matching by type and
// equality. OnAttach/OnDetach each fire exactly once across the
// node's lifetime in the chain.
type ModifierNode interface {
	Capabilities() Capability
	OnAttach()
	OnDetach()
}

// LayoutModifierNode participates in measurement: it may shrink the
// constraints passed to its wrapped content and/or add a placement offset
// (padding, size, offset modifiers).
type LayoutModifierNode interface {
	ModifierNode
	MeasureLayout(ctx *MeasureContext, wrapped Measurable, constraints Constraints) ModifierMeasureResult
}

// DrawModifierNode contributes draw commands for its node's bounds.
type DrawModifierNode interface {
	ModifierNode
	Draw(scope *DrawScope, bounds Rect)
}

// PointerInputModifierNode observes pointer events passing through its
// node during hit-path dispatch.
type PointerInputModifierNode interface {
	ModifierNode
	OnPointerEvent(event *PointerEvent, pass PointerPass, bounds Rect)
}

// SemanticsModifierNode contributes to the accessibility semantics tree.
type SemanticsModifierNode interface {
	ModifierNode
	ApplySemantics(node *SemanticsNode)
}

// GraphicsLayerModifierNode installs a GraphicsLayer (alpha/scale/
// translation) that composes with its ancestors' layers during scene
// building.
type GraphicsLayerModifierNode interface {
	ModifierNode
	Layer() GraphicsLayer
}

// boundsClipper is implemented by nodes that clip both drawing and hit
// testing to their node's bounds.
type boundsClipper interface {
	ClipsToBounds() bool
}

// cornerShaper is implemented by nodes that give their node a rounded-corner
// shape, applied to both painting and hit testing.
type cornerShaper interface {
	CornerShape() CornerRadii
}

// baseNode provides no-op OnAttach/OnDetach for nodes that don't need
// lifecycle hooks.
type baseNode struct{}

func (baseNode) OnAttach() {}
func (baseNode) OnDetach() {}

// --- built-in modifiers -----------------------------------------------

// PaddingElement insets its wrapped content by fixed amounts on each side.
type PaddingElement struct {
	Left, Top, Right, Bottom float64
}

func (e PaddingElement) Capabilities() Capability { return CapLayout }
func (e PaddingElement) Create() ModifierNode      { return &paddingNode{PaddingElement: e} }
func (e PaddingElement) Update(n ModifierNode)      { n.(*paddingNode).PaddingElement = e }
func (e PaddingElement) Equal(other ModifierElement) bool {
	o, ok := other.(PaddingElement)
	return ok && o == e
}

type paddingNode struct {
	baseNode
	PaddingElement
}

func (n *paddingNode) Capabilities() Capability { return CapLayout }

func (n *paddingNode) MeasureLayout(ctx *MeasureContext, wrapped Measurable, constraints Constraints) ModifierMeasureResult {
	horiz, vert := n.Left+n.Right, n.Top+n.Bottom
	inner := Constraints{
		MinWidth:  max(0, constraints.MinWidth-horiz),
		MaxWidth:  max(0, constraints.MaxWidth-horiz),
		MinHeight: max(0, constraints.MinHeight-vert),
		MaxHeight: max(0, constraints.MaxHeight-vert),
	}
	p := ctx.MeasureWrapped(wrapped, inner)
	w, h := constraints.Constrain(p.Size.Width+horiz, p.Size.Height+vert)
	return ModifierMeasureResult{Size: Size{w, h}, InsetX: n.Left, InsetY: n.Top}
}

// OffsetElement shifts its wrapped content without affecting its own
// reported size contribution beyond the shift.
type OffsetElement struct {
	X, Y float64
}

func (e OffsetElement) Capabilities() Capability { return CapLayout }
func (e OffsetElement) Create() ModifierNode      { return &offsetNode{OffsetElement: e} }
func (e OffsetElement) Update(n ModifierNode)      { n.(*offsetNode).OffsetElement = e }
func (e OffsetElement) Equal(other ModifierElement) bool {
	o, ok := other.(OffsetElement)
	return ok && o == e
}

type offsetNode struct {
	baseNode
	OffsetElement
}

func (n *offsetNode) Capabilities() Capability { return CapLayout }

func (n *offsetNode) MeasureLayout(ctx *MeasureContext, wrapped Measurable, constraints Constraints) ModifierMeasureResult {
	p := ctx.MeasureWrapped(wrapped, constraints)
	return ModifierMeasureResult{Size: p.Size, OffsetX: n.X, OffsetY: n.Y}
}

// SizeElement forces its wrapped content's reported size, leaving
// measurement of the content itself tightly constrained to match.
type SizeElement struct {
	Width, Height       float64
	HasWidth, HasHeight bool
}

func (e SizeElement) Capabilities() Capability { return CapLayout }
func (e SizeElement) Create() ModifierNode      { return &sizeNode{SizeElement: e} }
func (e SizeElement) Update(n ModifierNode)      { n.(*sizeNode).SizeElement = e }
func (e SizeElement) Equal(other ModifierElement) bool {
	o, ok := other.(SizeElement)
	return ok && o == e
}

type sizeNode struct {
	baseNode
	SizeElement
}

func (n *sizeNode) Capabilities() Capability { return CapLayout }

func (n *sizeNode) MeasureLayout(ctx *MeasureContext, wrapped Measurable, constraints Constraints) ModifierMeasureResult {
	inner := constraints
	if n.HasWidth {
		inner.MinWidth, inner.MaxWidth = n.Width, n.Width
	}
	if n.HasHeight {
		inner.MinHeight, inner.MaxHeight = n.Height, n.Height
	}
	p := ctx.MeasureWrapped(wrapped, inner)
	size := p.Size
	if n.HasWidth {
		size.Width = n.Width
	}
	if n.HasHeight {
		size.Height = n.Height
	}
	w, h := constraints.Constrain(size.Width, size.Height)
	return ModifierMeasureResult{Size: Size{w, h}}
}

// BackgroundElement paints a solid-color rectangle behind its node's
// content, at the node's own bounds. Corners, if non-zero, round the fill
// and the node's hit shape.
type BackgroundElement struct {
	Color   Color
	Corners CornerRadii
}

func (e BackgroundElement) Capabilities() Capability { return CapDraw }
func (e BackgroundElement) Create() ModifierNode     { return &backgroundNode{BackgroundElement: e} }
func (e BackgroundElement) Update(n ModifierNode)    { n.(*backgroundNode).BackgroundElement = e }
func (e BackgroundElement) Equal(other ModifierElement) bool {
	o, ok := other.(BackgroundElement)
	return ok && o == e
}

type backgroundNode struct {
	baseNode
	BackgroundElement
}

func (n *backgroundNode) Capabilities() Capability { return CapDraw }
func (n *backgroundNode) CornerShape() CornerRadii { return n.Corners }

func (n *backgroundNode) Draw(scope *DrawScope, bounds Rect) {
	scope.DrawBehind(DrawShape{Rect: bounds, Corners: n.Corners, Brush: SolidBrush(n.Color)})
}

// RoundedCornersElement gives its node a rounded-corner shape without
// painting anything itself: backgrounds on the same chain pick the radii up
// for their fill, and the node's hit region applies them as quarter-circle
// tests.
type RoundedCornersElement struct {
	Radii CornerRadii
}

func (e RoundedCornersElement) Capabilities() Capability { return CapDraw | CapModifierLocals }
func (e RoundedCornersElement) Create() ModifierNode {
	return &roundedCornersNode{RoundedCornersElement: e}
}
func (e RoundedCornersElement) Update(n ModifierNode) {
	n.(*roundedCornersNode).RoundedCornersElement = e
}
func (e RoundedCornersElement) Equal(other ModifierElement) bool {
	o, ok := other.(RoundedCornersElement)
	return ok && o == e
}

type roundedCornersNode struct {
	baseNode
	RoundedCornersElement
}

func (n *roundedCornersNode) Capabilities() Capability { return CapDraw | CapModifierLocals }
func (n *roundedCornersNode) CornerShape() CornerRadii { return n.Radii }

// BorderElement strokes the node's bounds on top of its content: four edge
// rectangles emitted in the overlay phase, so the border stays visible over
// whatever the children painted.
type BorderElement struct {
	Width float64
	Color Color
}

func (e BorderElement) Capabilities() Capability { return CapDraw }
func (e BorderElement) Create() ModifierNode     { return &borderNode{BorderElement: e} }
func (e BorderElement) Update(n ModifierNode)    { n.(*borderNode).BorderElement = e }
func (e BorderElement) Equal(other ModifierElement) bool {
	o, ok := other.(BorderElement)
	return ok && o == e
}

type borderNode struct {
	baseNode
	BorderElement
}

func (n *borderNode) Capabilities() Capability { return CapDraw }

func (n *borderNode) Draw(scope *DrawScope, bounds Rect) {
	w := n.Width
	if w <= 0 || w*2 > bounds.Width || w*2 > bounds.Height {
		return
	}
	brush := SolidBrush(n.Color)
	scope.DrawOverlay(DrawShape{Rect: Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: w}, Brush: brush})
	scope.DrawOverlay(DrawShape{Rect: Rect{X: bounds.X, Y: bounds.Y + bounds.Height - w, Width: bounds.Width, Height: w}, Brush: brush})
	scope.DrawOverlay(DrawShape{Rect: Rect{X: bounds.X, Y: bounds.Y + w, Width: w, Height: bounds.Height - 2*w}, Brush: brush})
	scope.DrawOverlay(DrawShape{Rect: Rect{X: bounds.X + bounds.Width - w, Y: bounds.Y + w, Width: w, Height: bounds.Height - 2*w}, Brush: brush})
}

// ClipToBoundsElement clips both drawing and hit testing to its node's
// bounds.
type ClipToBoundsElement struct{}

func (e ClipToBoundsElement) Capabilities() Capability { return CapDraw | CapModifierLocals }
func (e ClipToBoundsElement) Create() ModifierNode      { return &clipToBoundsNode{} }
func (e ClipToBoundsElement) Update(ModifierNode)       {}
func (e ClipToBoundsElement) Equal(other ModifierElement) bool {
	_, ok := other.(ClipToBoundsElement)
	return ok
}

type clipToBoundsNode struct{ baseNode }

func (n *clipToBoundsNode) Capabilities() Capability { return CapDraw | CapModifierLocals }
func (n *clipToBoundsNode) ClipsToBounds() bool      { return true }
func (n *clipToBoundsNode) Draw(*DrawScope, Rect)    {} // clip only; no paint of its own

// PointerInputElement wires a handler into pointer dispatch for its node.
type PointerInputElement struct {
	OnEvent func(event *PointerEvent, pass PointerPass, bounds Rect)
}

func (e PointerInputElement) Capabilities() Capability { return CapPointerInput }
func (e PointerInputElement) Create() ModifierNode      { return &pointerInputNode{PointerInputElement: e} }
func (e PointerInputElement) Update(n ModifierNode) {
	n.(*pointerInputNode).PointerInputElement = e
}
func (e PointerInputElement) Equal(ModifierElement) bool {
	// Handlers are closures and not comparable; pointer-input elements
	// always refresh via Update rather than being treated as unchanged.
	return false
}

type pointerInputNode struct {
	baseNode
	PointerInputElement
}

func (n *pointerInputNode) Capabilities() Capability { return CapPointerInput }
func (n *pointerInputNode) OnPointerEvent(event *PointerEvent, pass PointerPass, bounds Rect) {
	if n.OnEvent != nil {
		n.OnEvent(event, pass, bounds)
	}
}

// GraphicsLayerElement installs an alpha/scale/translation layer.
type GraphicsLayerElement struct {
	Alpha                          float64
	ScaleX, ScaleY                 float64
	TranslationX, TranslationY     float64
}

func (e GraphicsLayerElement) Capabilities() Capability { return CapDraw }
func (e GraphicsLayerElement) Create() ModifierNode {
	return &graphicsLayerNode{GraphicsLayerElement: e}
}
func (e GraphicsLayerElement) Update(n ModifierNode) {
	n.(*graphicsLayerNode).GraphicsLayerElement = e
}
func (e GraphicsLayerElement) Equal(other ModifierElement) bool {
	o, ok := other.(GraphicsLayerElement)
	return ok && o == e
}

type graphicsLayerNode struct {
	baseNode
	GraphicsLayerElement
}

func (n *graphicsLayerNode) Capabilities() Capability { return CapDraw }
func (n *graphicsLayerNode) Draw(*DrawScope, Rect)     {} // contributes a layer only, no paint
func (n *graphicsLayerNode) Layer() GraphicsLayer {
	return GraphicsLayer{Alpha: n.Alpha, ScaleX: n.ScaleX, ScaleY: n.ScaleY, TranslationX: n.TranslationX, TranslationY: n.TranslationY}
}
