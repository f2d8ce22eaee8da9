package compose

// Color is an RGBA color with components in [0, 1], not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorTransparent is the zero value: fully transparent black.
var ColorTransparent = Color{}

// Over blends c over dst using source-over compositing.
func (c Color) Over(dst Color) Color {
	if c.A >= 1 {
		return c
	}
	if c.A <= 0 {
		return dst
	}
	outA := c.A + dst.A*(1-c.A)
	if outA == 0 {
		return ColorTransparent
	}
	blend := func(cs, cd float64) float64 {
		return (cs*c.A + cd*dst.A*(1-c.A)) / outA
	}
	return Color{R: blend(c.R, dst.R), G: blend(c.G, dst.G), B: blend(c.B, dst.B), A: outA}
}

// Vec2 is a 2D vector used for offsets, sizes, and directions.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward — the convention used throughout
// layout and scene building.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap. Adjacent rectangles
// (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Intersection returns the overlapping region of r and other. The result has
// zero width/height (but is not otherwise meaningful) if they do not
// intersect.
func (r Rect) Intersection(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Translate returns r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// CornerRadii describes a rounded-rectangle's four corner radii.
type CornerRadii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float64
}

// IsZero reports whether every corner is sharp (radius 0).
func (c CornerRadii) IsZero() bool {
	return c.TopLeft == 0 && c.TopRight == 0 && c.BottomRight == 0 && c.BottomLeft == 0
}

// ContainsRounded reports whether (x,y) lies inside r once its corners are
// cut by c, testing the four corner regions with a quarter-circle distance
// check and accepting everywhere else unconditionally.
func ContainsRounded(r Rect, c CornerRadii, x, y float64) bool {
	if !r.Contains(x, y) {
		return false
	}
	if c.IsZero() {
		return true
	}
	inQuarterCircle := func(cx, cy, radius float64) bool {
		if radius <= 0 {
			return true
		}
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= radius*radius
	}
	switch {
	case x < r.X+c.TopLeft && y < r.Y+c.TopLeft:
		return inQuarterCircle(r.X+c.TopLeft, r.Y+c.TopLeft, c.TopLeft)
	case x > r.X+r.Width-c.TopRight && y < r.Y+c.TopRight:
		return inQuarterCircle(r.X+r.Width-c.TopRight, r.Y+c.TopRight, c.TopRight)
	case x > r.X+r.Width-c.BottomRight && y > r.Y+r.Height-c.BottomRight:
		return inQuarterCircle(r.X+r.Width-c.BottomRight, r.Y+r.Height-c.BottomRight, c.BottomRight)
	case x < r.X+c.BottomLeft && y > r.Y+r.Height-c.BottomLeft:
		return inQuarterCircle(r.X+c.BottomLeft, r.Y+r.Height-c.BottomLeft, c.BottomLeft)
	default:
		return true
	}
}

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// TextAlign controls horizontal text alignment within a TextDraw.
type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)
