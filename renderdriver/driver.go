// Package renderdriver is the Ebitengine-backed platform driver for the
// compose core: it pumps the frame clock, translates mouse and touch input
// into pointer events, and submits each frame's Scene to an *ebiten.Image.
//
// The core never imports ebiten; this package is the only place the two
// meet, so the reactive engine stays testable without a window or GPU.
package renderdriver

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/compose"
)

// whitePixel is a 1x1 white image scaled and tinted to draw solid rectangles.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// gradientStripHeight is the strip size, in pixels, used to approximate
// gradient fills. Smaller strips look smoother and cost more draw calls.
const gradientStripHeight = 4.0

// toRGBA converts a compose color (components in [0,1], straight alpha) to
// ebiten's color model.
func toRGBA(c compose.Color) color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(math.Round(v * 255))
	}
	return color.RGBA{R: clamp(c.R * c.A), G: clamp(c.G * c.A), B: clamp(c.B * c.A), A: clamp(c.A)}
}

// layerGeoM builds the ebiten transform for a shape rect under an accumulated
// graphics layer: scale about the origin, then translate.
func layerGeoM(rect compose.Rect, layer compose.GraphicsLayer) ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(rect.Width, rect.Height)
	g.Translate(rect.X, rect.Y)
	g.Scale(layer.ScaleX, layer.ScaleY)
	g.Translate(layer.TranslationX, layer.TranslationY)
	return g
}

// DrawScene submits every shape and text run of scene to dst in z order.
func DrawScene(dst *ebiten.Image, scene compose.Scene) {
	for _, s := range scene.Shapes {
		drawShape(dst, s)
	}
	for _, t := range scene.Texts {
		drawText(dst, t)
	}
}

// drawShape fills the shape's rect. Corner radii are carried by the scene
// contract for hit testing and shader-capable renderers; this quad-based
// driver paints square corners.
func drawShape(dst *ebiten.Image, s compose.SceneShape) {
	target := dst
	if s.Clip != nil {
		sub := clipImage(dst, *s.Clip)
		if sub == nil {
			return
		}
		target = sub
	}

	switch s.Shape.Brush.Kind {
	case compose.BrushSolid:
		c := s.Shape.Brush.Solid
		c.A *= s.Layer.Alpha
		op := &ebiten.DrawImageOptions{}
		op.GeoM = layerGeoM(s.Shape.Rect, s.Layer)
		op.ColorScale.ScaleWithColor(toRGBA(c))
		target.DrawImage(whitePixel, op)
	default:
		// Gradients are approximated as horizontal strips sampled through the
		// brush; renderers with shader support can do better, the contract
		// only fixes the sampling math.
		rect := s.Shape.Rect
		for y := 0.0; y < rect.Height; y += gradientStripHeight {
			h := math.Min(gradientStripHeight, rect.Height-y)
			c := s.Shape.Brush.SampleAt(rect.X+rect.Width/2, rect.Y+y+h/2)
			c.A *= s.Layer.Alpha
			strip := compose.Rect{X: rect.X, Y: rect.Y + y, Width: rect.Width, Height: h}
			op := &ebiten.DrawImageOptions{}
			op.GeoM = layerGeoM(strip, s.Layer)
			op.ColorScale.ScaleWithColor(toRGBA(c))
			target.DrawImage(whitePixel, op)
		}
	}
}

// drawText renders each grapheme cluster as a placeholder block at its
// laid-out X position. A production driver would rasterize through a font
// atlas; the driver's job here is to honor the layout's positions, which is
// what the core guarantees.
func drawText(dst *ebiten.Image, t compose.SceneText) {
	if t.Text.Layout == nil {
		return
	}
	target := dst
	if t.Clip != nil {
		sub := clipImage(dst, *t.Clip)
		if sub == nil {
			return
		}
		target = sub
	}
	run := t.Text.Layout
	c := t.Text.Color
	c.A *= t.Layer.Alpha * 0.85
	for i := 0; i < run.ClusterCount(); i++ {
		x0 := run.OffsetForCursor(i)
		x1 := run.OffsetForCursor(i + 1)
		glyph := compose.Rect{
			X:      t.Text.Bounds.X + x0 + 1,
			Y:      t.Text.Bounds.Y + run.Height*0.15,
			Width:  math.Max(x1-x0-2, 1),
			Height: run.Height * 0.7,
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = layerGeoM(glyph, t.Layer)
		op.ColorScale.ScaleWithColor(toRGBA(c))
		target.DrawImage(whitePixel, op)
	}
}

func clipImage(dst *ebiten.Image, clip compose.Rect) *ebiten.Image {
	x0, y0 := int(clip.X), int(clip.Y)
	x1, y1 := int(clip.X+clip.Width), int(clip.Y+clip.Height)
	b := dst.Bounds()
	if x0 < b.Min.X {
		x0 = b.Min.X
	}
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if x1 > b.Max.X {
		x1 = b.Max.X
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	return dst.SubImage(image.Rect(x0, y0, x1, y1)).(*ebiten.Image)
}

// RunConfig holds optional configuration for [Run].
type RunConfig struct {
	// Title sets the window title. Ignored on platforms without a title bar.
	Title string
	// Width and Height set the window size in device-independent pixels.
	// If zero, defaults to 640x480.
	Width, Height int
	// ClearColor fills the screen before each frame. Zero means black.
	ClearColor compose.Color
}

// Run creates an Ebitengine game loop around renderer: input, frame clock,
// layout, and scene submission per frame. For full control, implement
// [ebiten.Game] yourself and call [Game.Update]/[Game.Draw] directly.
func Run(renderer *compose.Renderer, cfg RunConfig) error {
	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = 640
	}
	if h == 0 {
		h = 480
	}
	ebiten.SetWindowSize(w, h)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	return ebiten.RunGame(NewGame(renderer, w, h, cfg.ClearColor))
}

// Game implements [ebiten.Game] over a compose Renderer.
type Game struct {
	renderer   *compose.Renderer
	w, h       int
	clearColor compose.Color

	frameNanos int64
	mouseDown  bool
	touchIDs   []ebiten.TouchID
}

// NewGame wraps renderer for a caller-managed ebiten game loop.
func NewGame(renderer *compose.Renderer, w, h int, clearColor compose.Color) *Game {
	return &Game{renderer: renderer, w: w, h: h, clearColor: clearColor}
}

func (g *Game) Update() error {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = 60
	}
	g.frameNanos += int64(1e9) / int64(tps)

	g.processMouse()
	g.processTouches()

	return g.renderer.DrainFrameCallbacks(g.frameNanos)
}

func (g *Game) processMouse() {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.mouseDown = true
		g.renderer.ProcessPointer(0, compose.PointerEventDown, fx, fy, compose.MouseButtonLeft, g.frameNanos)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.mouseDown = false
		g.renderer.ProcessPointer(0, compose.PointerEventUp, fx, fy, compose.MouseButtonLeft, g.frameNanos)
	default:
		g.renderer.ProcessPointer(0, compose.PointerEventMove, fx, fy, compose.MouseButtonLeft, g.frameNanos)
	}
}

func (g *Game) processTouches() {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		g.renderer.ProcessPointer(compose.PointerId(id)+1, compose.PointerEventDown, float64(x), float64(y), compose.MouseButtonLeft, g.frameNanos)
	}
	for _, id := range g.touchIDs {
		if inpututil.IsTouchJustReleased(id) {
			continue
		}
		x, y := ebiten.TouchPosition(id)
		g.renderer.ProcessPointer(compose.PointerId(id)+1, compose.PointerEventMove, float64(x), float64(y), compose.MouseButtonLeft, g.frameNanos)
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		g.renderer.ProcessPointer(compose.PointerId(id)+1, compose.PointerEventUp, float64(x), float64(y), compose.MouseButtonLeft, g.frameNanos)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.clearColor.A > 0 {
		screen.Fill(toRGBA(g.clearColor))
	}
	if _, err := g.renderer.ComputeLayout(compose.Size{Width: float64(g.w), Height: float64(g.h)}); err != nil {
		return
	}
	DrawScene(screen, g.renderer.BuildScene())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}
