package compose

// Size is a measured width/height pair.
type Size struct {
	Width, Height float64
}

// Constraints bounds the size a Measurable may report.
type Constraints struct {
	MinWidth, MaxWidth   float64
	MinHeight, MaxHeight float64
}

// Loose returns unconstrained constraints (0 to +Inf on both axes).
func Loose() Constraints {
	return Constraints{MaxWidth: posInf, MaxHeight: posInf}
}

// Fixed returns constraints that force exactly the given size.
func Fixed(width, height float64) Constraints {
	return Constraints{MinWidth: width, MaxWidth: width, MinHeight: height, MaxHeight: height}
}

const posInf = 1e18 // stand-in for +Inf that still participates in ordinary arithmetic

// Constrain clamps (w, h) into this Constraints.
func (c Constraints) Constrain(w, h float64) (float64, float64) {
	return clamp(w, c.MinWidth, c.MaxWidth), clamp(h, c.MinHeight, c.MaxHeight)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Measurable is anything a MeasurePolicy can measure and later place: a
// child's outermost coordinator, from the policy's point of view.
type Measurable interface {
	NodeID() NodeId
	Measure(constraints Constraints) Placeable
}

// Placeable is the result of measuring a coordinator: its size, the two
// accumulated offsets contributed by every layout-modifier coordinator
// between it and the node it wraps, and the NodeId it ultimately measures.
//
// AccumulatedOffset moves the node's own box relative to where its parent
// placed it (an offset modifier). ContentInset moves the node's content
// within that box (a padding modifier). Keeping the two apart is what makes
// a padded box draw at its placed position while its children shift inward,
// and an offset box shift wholesale while its children stay put inside it.
type Placeable struct {
	Size              Size
	AccumulatedOffset Vec2
	ContentInset      Vec2
	NodeID            NodeId
}

// MeasureScope is passed to a MeasurePolicy; calls to Place record where
// each child lands relative to this node's own origin. The policy must call
// Place for every child it wants drawn.
type MeasureScope struct {
	placements map[NodeId]Vec2
}

// Place records child's local offset (x, y) relative to the measuring
// node's origin.
func (s *MeasureScope) Place(child Measurable, x, y float64) {
	if s.placements == nil {
		s.placements = make(map[NodeId]Vec2)
	}
	s.placements[child.NodeID()] = Vec2{X: x, Y: y}
}

// MeasurePolicy is the intrinsic measurement behavior of a LayoutNode: given
// its children (already wrapped as Measurables) and the constraints handed
// down from its parent, it measures and places each child via scope.Place
// and returns its own resulting size.
type MeasurePolicy func(scope *MeasureScope, children []Measurable, constraints Constraints) Size

// SingleChildMeasurePolicy is the default box policy: children are measured
// with the incoming maximums but loosened minimums (so a fixed-size child
// inside a tightly-constrained box keeps its own size), stacked at the
// origin, and the box reports the largest child constrained back into the
// incoming bounds.
func SingleChildMeasurePolicy() MeasurePolicy {
	return func(scope *MeasureScope, children []Measurable, constraints Constraints) Size {
		childConstraints := Constraints{MaxWidth: constraints.MaxWidth, MaxHeight: constraints.MaxHeight}
		width, height := 0.0, 0.0
		for _, c := range children {
			p := c.Measure(childConstraints)
			scope.Place(c, 0, 0)
			if p.Size.Width > width {
				width = p.Size.Width
			}
			if p.Size.Height > height {
				height = p.Size.Height
			}
		}
		w, h := constraints.Constrain(width, height)
		return Size{w, h}
	}
}

// ColumnMeasurePolicy stacks children vertically with spacing between each,
// sized to the widest child and the summed height.
func ColumnMeasurePolicy(spacing float64) MeasurePolicy {
	return func(scope *MeasureScope, children []Measurable, constraints Constraints) Size {
		childConstraints := Constraints{MinWidth: 0, MaxWidth: constraints.MaxWidth, MinHeight: 0, MaxHeight: posInf}
		y := 0.0
		width := 0.0
		for i, c := range children {
			p := c.Measure(childConstraints)
			scope.Place(c, 0, y)
			y += p.Size.Height
			if i < len(children)-1 {
				y += spacing
			}
			if p.Size.Width > width {
				width = p.Size.Width
			}
		}
		w, h := constraints.Constrain(width, y)
		return Size{w, h}
	}
}

// RowMeasurePolicy stacks children horizontally with spacing between each.
func RowMeasurePolicy(spacing float64) MeasurePolicy {
	return func(scope *MeasureScope, children []Measurable, constraints Constraints) Size {
		childConstraints := Constraints{MinWidth: 0, MaxWidth: posInf, MinHeight: 0, MaxHeight: constraints.MaxHeight}
		x := 0.0
		height := 0.0
		for i, c := range children {
			p := c.Measure(childConstraints)
			scope.Place(c, x, 0)
			x += p.Size.Width
			if i < len(children)-1 {
				x += spacing
			}
			if p.Size.Height > height {
				height = p.Size.Height
			}
		}
		w, h := constraints.Constrain(x, height)
		return Size{w, h}
	}
}
