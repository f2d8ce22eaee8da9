package compose

import "math"

// BrushKind identifies which paint a Brush applies.
type BrushKind uint8

const (
	BrushSolid BrushKind = iota
	BrushLinearGradient
	BrushRadialGradient
)

// GradientStop is one color stop along a gradient, at position t in [0, 1].
type GradientStop struct {
	T     float64
	Color Color
}

// Brush describes how a DrawShape is painted: a flat color, or a gradient
// sampled along a line (linear) or out from a center point (radial).
type Brush struct {
	Kind  BrushKind
	Solid Color

	// Linear: sampled along the segment (X0,Y0)-(X1,Y1). Radial: sampled by
	// distance from (X0,Y0) out to Radius.
	X0, Y0, X1, Y1 float64
	Radius         float64
	Stops          []GradientStop
}

// SolidBrush returns a flat-color Brush.
func SolidBrush(c Color) Brush { return Brush{Kind: BrushSolid, Solid: c} }

// LinearGradientBrush returns a Brush that samples stops linearly along the
// segment (x0,y0)-(x1,y1).
func LinearGradientBrush(x0, y0, x1, y1 float64, stops []GradientStop) Brush {
	return Brush{Kind: BrushLinearGradient, X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops}
}

// RadialGradientBrush returns a Brush that samples stops by distance from
// (cx,cy) out to radius.
func RadialGradientBrush(cx, cy, radius float64, stops []GradientStop) Brush {
	return Brush{Kind: BrushRadialGradient, X0: cx, Y0: cy, Radius: radius, Stops: stops}
}

// SampleAt evaluates the brush at the given point in the same coordinate
// space as its own control points, clamping to the first/last stop outside
// the gradient's defined range.
func (b Brush) SampleAt(x, y float64) Color {
	switch b.Kind {
	case BrushLinearGradient:
		dx, dy := b.X1-b.X0, b.Y1-b.Y0
		length2 := dx*dx + dy*dy
		var t float64
		if length2 > 0 {
			t = ((x-b.X0)*dx + (y-b.Y0)*dy) / length2
		}
		return sampleStops(b.Stops, t)
	case BrushRadialGradient:
		dx, dy := x-b.X0, y-b.Y0
		dist := math.Hypot(dx, dy)
		var t float64
		if b.Radius > 0 {
			t = dist / b.Radius
		}
		return sampleStops(b.Stops, t)
	default:
		return b.Solid
	}
}

func sampleStops(stops []GradientStop, t float64) Color {
	if len(stops) == 0 {
		return ColorTransparent
	}
	if t <= stops[0].T {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.T {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.T {
			span := b.T - a.T
			if span <= 0 {
				return b.Color
			}
			f := (t - a.T) / span
			return Color{
				R: a.Color.R + (b.Color.R-a.Color.R)*f,
				G: a.Color.G + (b.Color.G-a.Color.G)*f,
				B: a.Color.B + (b.Color.B-a.Color.B)*f,
				A: a.Color.A + (b.Color.A-a.Color.A)*f,
			}
		}
	}
	return last.Color
}

// DrawShape is a single painted rectangle (optionally rounded) in a node's
// local coordinate space.
type DrawShape struct {
	Rect    Rect
	Corners CornerRadii
	Brush   Brush
}

// TextDraw is a single run of laid-out text in a node's local coordinate
// space, referencing a cache entry built by a TextLayoutCache.
type TextDraw struct {
	Bounds Rect
	Layout *TextLayoutResult
	Color  Color
	Align  TextAlign
}

// GraphicsLayer is the alpha/scale/translation a node's ancestors (and the
// node itself) contribute to everything drawn beneath it, composed
// multiplicatively for alpha and scale and additively-after-scale for
// translation, mirroring the parent-times-local accumulation an affine
// transform stack uses, specialized to the subset of that transform widget
// code is allowed to touch directly.
type GraphicsLayer struct {
	Alpha                      float64
	ScaleX, ScaleY             float64
	TranslationX, TranslationY float64
}

// IdentityLayer is a layer with no visual effect.
func IdentityLayer() GraphicsLayer {
	return GraphicsLayer{Alpha: 1, ScaleX: 1, ScaleY: 1}
}

// Compose folds child underneath parent: parent.Alpha*child.Alpha,
// parent.Scale*child.Scale, and child's translation scaled by parent's scale
// before parent's own translation is added.
func (parent GraphicsLayer) Compose(child GraphicsLayer) GraphicsLayer {
	return GraphicsLayer{
		Alpha:        parent.Alpha * child.Alpha,
		ScaleX:       parent.ScaleX * child.ScaleX,
		ScaleY:       parent.ScaleY * child.ScaleY,
		TranslationX: parent.TranslationX + parent.ScaleX*child.TranslationX,
		TranslationY: parent.TranslationY + parent.ScaleY*child.TranslationY,
	}
}

// DrawScope accumulates the draw commands contributed by one node's draw-
// capable modifier chain, in two phases: Behind output paints before the
// node's children, Overlay output paints after them. DrawText queues a
// laid-out text run with the node's own content, before children.
type DrawScope struct {
	shapes        []DrawShape
	texts         []TextDraw
	overlayShapes []DrawShape
	overlayTexts  []TextDraw
}

// DrawBehind appends shape to the behind phase: painted under the node's
// children (backgrounds).
func (s *DrawScope) DrawBehind(shape DrawShape) {
	s.shapes = append(s.shapes, shape)
}

// DrawOverlay appends shape to the overlay phase: painted over the node's
// children (borders, focus rings, selection highlights).
func (s *DrawScope) DrawOverlay(shape DrawShape) {
	s.overlayShapes = append(s.overlayShapes, shape)
}

// DrawText appends t to the behind phase's text list.
func (s *DrawScope) DrawText(t TextDraw) {
	s.texts = append(s.texts, t)
}

// DrawTextOverlay appends t to the overlay phase's text list.
func (s *DrawScope) DrawTextOverlay(t TextDraw) {
	s.overlayTexts = append(s.overlayTexts, t)
}

// SceneShape is one fully-resolved shape ready for submission to a renderer:
// its Rect and gradient control points have been translated into scene
// (root-relative) coordinates, and Layer carries the accumulated ancestor
// alpha/scale/translation the renderer must still apply itself — this
// framework does not rasterize. Clip, when non-nil, is the visual clip the
// renderer must apply in scene coordinates.
type SceneShape struct {
	NodeID NodeId
	Shape  DrawShape
	Layer  GraphicsLayer
	ZOrder int
	Clip   *Rect
}

// SceneText is the text-draw analogue of SceneShape.
type SceneText struct {
	NodeID NodeId
	Text   TextDraw
	Layer  GraphicsLayer
	ZOrder int
	Clip   *Rect
}

// HitRegion is one pointer-interactive area of the scene. Bounds are in
// scene coordinates after the node's accumulated layer translation; HitClip
// is the intersection of clipping ancestors' scene bounds without that
// translation.
// The hit clip is tracked separately from the visual clip so draw-only
// clipping never changes what is clickable.
type HitRegion struct {
	NodeID  NodeId
	Bounds  Rect
	Corners CornerRadii
	ZIndex  int
	HitClip *Rect
}

// Scene is the flattened, paint-ordered output of one BuildScene pass: every
// shape and text run in the tree, in back-to-front submission order, plus the
// hit regions of every pointer-interactive node, each tagged with the NodeId
// that produced it so a renderer (or hit testing) can map a visual element
// back to its source node.
type Scene struct {
	Shapes []SceneShape
	Texts  []SceneText
	Hits   []HitRegion
}

// sceneBuilder walks a LayoutNode tree depth-first, accumulating local
// offsets into scene-space origins, ancestor GraphicsLayers into a single
// composed layer per node, and ancestor clips into per-node visual and hit
// clips.
type sceneBuilder struct {
	store     *NodeStore
	scene     Scene
	treeOrder int
}

// BuildScene flattens the subtree rooted at root into paint order. origin
// and layer are typically Vec2{} and IdentityLayer() for a full-tree build.
func BuildScene(store *NodeStore, root NodeId, origin Vec2, layer GraphicsLayer) Scene {
	b := &sceneBuilder{store: store}
	b.walk(root, origin, layer, nil, nil)
	return b.scene
}

// HitTestScene resolves (x, y) against the scene's hit regions front to back
// (descending z) and returns the topmost region containing the point, if
// any. Rounded corners are honored via a quarter-circle test per corner; a
// region's hit clip must also contain the point. Ties on z favor the
// later-pushed region.
func HitTestScene(scene *Scene, x, y float64) (HitRegion, bool) {
	best := -1
	for i, h := range scene.Hits {
		if !ContainsRounded(h.Bounds, h.Corners, x, y) {
			continue
		}
		if h.HitClip != nil && !h.HitClip.Contains(x, y) {
			continue
		}
		if best < 0 || h.ZIndex >= scene.Hits[best].ZIndex {
			best = i
		}
	}
	if best < 0 {
		return HitRegion{}, false
	}
	return scene.Hits[best], true
}

func (b *sceneBuilder) walk(id NodeId, placedAt Vec2, layer GraphicsLayer, visualClip, hitClip *Rect) {
	node := b.store.Get(id)
	if node == nil {
		return
	}

	layer = resolveNodeLayer(node, layer)

	origin := Vec2{X: placedAt.X + node.lastBoxOffset.X, Y: placedAt.Y + node.lastBoxOffset.Y}
	sceneBounds := Rect{X: origin.X, Y: origin.Y, Width: node.lastSize.Width, Height: node.lastSize.Height}

	if nodeClipsToBounds(node) {
		visualClip = intersectClip(visualClip, sceneBounds)
		hitClip = intersectClip(hitClip, sceneBounds)
	}

	// Draw modifiers work in the node's local space; their output is
	// translated into scene space exactly once, below. Behind output is
	// emitted before the child recursion, overlay output after it, so
	// overlays paint on top of everything the subtree drew.
	local := Rect{Width: node.lastSize.Width, Height: node.lastSize.Height}
	scope := &DrawScope{}
	node.chain.ForEachNodeWithCapability(CapDraw, func(mn ModifierNode) {
		if dn, ok := mn.(DrawModifierNode); ok {
			dn.Draw(scope, local)
		}
	})

	corners := nodeCornerRadii(node)

	for _, shape := range scope.shapes {
		if shape.Corners.IsZero() {
			shape.Corners = corners
		}
		b.treeOrder++
		b.scene.Shapes = append(b.scene.Shapes, SceneShape{NodeID: id, Shape: translateShape(shape, origin), Layer: layer, ZOrder: b.treeOrder, Clip: visualClip})
	}
	for _, text := range scope.texts {
		b.treeOrder++
		b.scene.Texts = append(b.scene.Texts, SceneText{NodeID: id, Text: translateText(text, origin), Layer: layer, ZOrder: b.treeOrder, Clip: visualClip})
	}

	if node.chain.Capabilities()&CapPointerInput != 0 {
		b.treeOrder++
		hitBounds := sceneBounds.Translate(layer.TranslationX, layer.TranslationY)
		b.scene.Hits = append(b.scene.Hits, HitRegion{
			NodeID:  id,
			Bounds:  hitBounds,
			Corners: corners,
			ZIndex:  b.treeOrder,
			HitClip: hitClip,
		})
	}

	content := Vec2{X: origin.X + node.lastInset.X, Y: origin.Y + node.lastInset.Y}
	for _, childID := range node.children {
		offset := node.lastPlacements[childID]
		b.walk(childID, Vec2{X: content.X + offset.X, Y: content.Y + offset.Y}, layer, visualClip, hitClip)
	}

	for _, shape := range scope.overlayShapes {
		b.treeOrder++
		b.scene.Shapes = append(b.scene.Shapes, SceneShape{NodeID: id, Shape: translateShape(shape, origin), Layer: layer, ZOrder: b.treeOrder, Clip: visualClip})
	}
	for _, text := range scope.overlayTexts {
		b.treeOrder++
		b.scene.Texts = append(b.scene.Texts, SceneText{NodeID: id, Text: translateText(text, origin), Layer: layer, ZOrder: b.treeOrder, Clip: visualClip})
	}
}

// nodeCornerRadii resolves the corner shape a node's chain declares: the
// last non-zero contribution wins, whether it comes from a dedicated
// RoundedCornersElement or a background carrying its own shape.
func nodeCornerRadii(node *LayoutNode) CornerRadii {
	var radii CornerRadii
	node.chain.ForEachNodeWithCapability(CapDraw|CapModifierLocals, func(mn ModifierNode) {
		if cs, ok := mn.(cornerShaper); ok {
			if r := cs.CornerShape(); !r.IsZero() {
				radii = r
			}
		}
	})
	return radii
}

func nodeClipsToBounds(node *LayoutNode) bool {
	clips := false
	node.chain.ForEachNodeWithCapability(CapDraw|CapModifierLocals, func(mn ModifierNode) {
		if bc, ok := mn.(boundsClipper); ok && bc.ClipsToBounds() {
			clips = true
		}
	})
	return clips
}

func intersectClip(clip *Rect, bounds Rect) *Rect {
	if clip == nil {
		r := bounds
		return &r
	}
	r := clip.Intersection(bounds)
	return &r
}

// resolveNodeLayer folds any GraphicsLayerModifierNode installed on node
// underneath the layer inherited from its ancestors.
func resolveNodeLayer(node *LayoutNode, inherited GraphicsLayer) GraphicsLayer {
	layer := inherited
	node.chain.ForEachNodeWithCapability(CapDraw, func(mn ModifierNode) {
		if gl, ok := mn.(GraphicsLayerModifierNode); ok {
			layer = layer.Compose(gl.Layer())
		}
	})
	return layer
}

func translateShape(s DrawShape, origin Vec2) DrawShape {
	s.Rect = s.Rect.Translate(origin.X, origin.Y)
	switch s.Brush.Kind {
	case BrushLinearGradient:
		s.Brush.X0 += origin.X
		s.Brush.Y0 += origin.Y
		s.Brush.X1 += origin.X
		s.Brush.Y1 += origin.Y
	case BrushRadialGradient:
		s.Brush.X0 += origin.X
		s.Brush.Y0 += origin.Y
	}
	return s
}

func translateText(t TextDraw, origin Vec2) TextDraw {
	t.Bounds = t.Bounds.Translate(origin.X, origin.Y)
	return t
}
