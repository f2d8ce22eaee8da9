package composetest

import (
	"github.com/phanxgames/compose"
)

// box emits a layout node with the default box policy.
func box(c *compose.Composer, m compose.Modifier, children func()) compose.NodeId {
	return c.EmitNode(
		func() *compose.LayoutNode { return compose.NewLayoutNode(nil) },
		func(n *compose.LayoutNode) { n.SetModifier(m) },
		children,
	)
}

// column emits a layout node stacking its children vertically with spacing.
func column(c *compose.Composer, m compose.Modifier, spacing float64, children func()) compose.NodeId {
	return c.EmitNode(
		func() *compose.LayoutNode { return compose.NewLayoutNode(compose.ColumnMeasurePolicy(spacing)) },
		func(n *compose.LayoutNode) { n.SetModifier(m) },
		children,
	)
}

func sized(w, h float64) compose.ModifierElement {
	return compose.SizeElement{Width: w, Height: h, HasWidth: true, HasHeight: true}
}

func padding(all float64) compose.ModifierElement {
	return compose.PaddingElement{Left: all, Top: all, Right: all, Bottom: all}
}

func offset(x, y float64) compose.ModifierElement {
	return compose.OffsetElement{X: x, Y: y}
}

func background(c compose.Color) compose.ModifierElement {
	return compose.BackgroundElement{Color: c}
}
