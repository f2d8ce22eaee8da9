package compose

import (
	"hash/fnv"
	"sort"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/rivo/uniseg"
	"golang.org/x/image/math/fixed"
)

// TextMeasurer supplies horizontal advances for grapheme clusters at a given
// size. The core never rasterizes; a measurer is the only piece of font
// knowledge it needs.
type TextMeasurer interface {
	Advance(cluster string, size float64) float64
	LineHeight(size float64) float64
}

// FixedAdvanceMeasurer is the fallback measurer: every cluster advances by a
// fixed fraction of the text size, the way a monospace layout would. It keeps
// text layout (and every test built on it) deterministic without font files.
type FixedAdvanceMeasurer struct {
	// AdvanceRatio is the per-cluster advance as a fraction of text size.
	// Zero means the 0.6 a typical monospace aspect ratio gives.
	AdvanceRatio float64
}

func (m FixedAdvanceMeasurer) Advance(cluster string, size float64) float64 {
	ratio := m.AdvanceRatio
	if ratio == 0 {
		ratio = 0.6
	}
	return size * ratio
}

func (m FixedAdvanceMeasurer) LineHeight(size float64) float64 {
	return size * 1.25
}

// ShapedMeasurer measures through a real font face via harfbuzz shaping, so
// advances reflect kerning and ligatures rather than a fixed grid.
type ShapedMeasurer struct {
	face   *font.Face
	shaper shaping.HarfbuzzShaper
}

// NewShapedMeasurer wraps face for advance measurement.
func NewShapedMeasurer(face *font.Face) *ShapedMeasurer {
	return &ShapedMeasurer{face: face}
}

func (m *ShapedMeasurer) Advance(cluster string, size float64) float64 {
	runes := []rune(cluster)
	out := m.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Face:      m.face,
		Size:      fixed.I(int(size)),
		Direction: di.DirectionLTR,
		Language:  language.NewLanguage("en"),
		Script:    language.Latin,
	})
	return float64(out.Advance) / 64
}

func (m *ShapedMeasurer) LineHeight(size float64) float64 {
	return size * 1.25
}

// TextLayoutResult is one laid-out single-line run: the text split into
// grapheme clusters with a precomputed X position per cluster, so cursor and
// selection queries never re-measure.
type TextLayoutResult struct {
	Text   string
	Size   float64
	Width  float64
	Height float64

	clusters []string
	// xs[i] is the left edge of cluster i; xs[len(clusters)] is the right
	// edge of the final cluster (== Width).
	xs []float64
}

// ClusterCount returns how many grapheme clusters the text laid out to —
// the number of valid cursor gaps minus one.
func (r *TextLayoutResult) ClusterCount() int { return len(r.clusters) }

// OffsetForCursor returns the X position of the cursor gap before cluster i
// (i == ClusterCount() addresses the gap after the last cluster). O(1).
func (r *TextLayoutResult) OffsetForCursor(i int) float64 {
	if i < 0 {
		return 0
	}
	if i >= len(r.xs) {
		return r.Width
	}
	return r.xs[i]
}

// CursorForX returns the cursor gap nearest to x. O(log n).
func (r *TextLayoutResult) CursorForX(x float64) int {
	if x <= 0 || len(r.clusters) == 0 {
		return 0
	}
	if x >= r.Width {
		return len(r.clusters)
	}
	i := sort.SearchFloat64s(r.xs, x)
	if i > 0 && i < len(r.xs) {
		// snap to the nearer of the two surrounding gaps
		if x-r.xs[i-1] <= r.xs[i]-x {
			return i - 1
		}
	}
	return i
}

// TextLayoutCache lays out text through a TextMeasurer and memoizes the
// results keyed by a hash of (text, size), so re-measuring the same string
// every frame costs a map lookup. A text change hashes differently and lays
// out fresh; stale entries are evicted once the cache outgrows its bound.
type TextLayoutCache struct {
	measurer TextMeasurer
	entries  map[uint64]*TextLayoutResult
	maxSize  int
}

const defaultTextCacheSize = 256

// NewTextLayoutCache creates a cache over measurer; a nil measurer gets the
// FixedAdvanceMeasurer fallback.
func NewTextLayoutCache(measurer TextMeasurer) *TextLayoutCache {
	if measurer == nil {
		measurer = FixedAdvanceMeasurer{}
	}
	return &TextLayoutCache{
		measurer: measurer,
		entries:  make(map[uint64]*TextLayoutResult),
		maxSize:  defaultTextCacheSize,
	}
}

func textLayoutKey(text string, size float64) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	var buf [8]byte
	bits := uint64(size * 64)
	for i := range buf {
		buf[i] = byte(bits >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Layout returns the laid-out run for text at size, computing it on first
// sight and from cache afterward.
func (c *TextLayoutCache) Layout(text string, size float64) *TextLayoutResult {
	key := textLayoutKey(text, size)
	if r, ok := c.entries[key]; ok && r.Text == text {
		return r
	}

	r := &TextLayoutResult{Text: text, Size: size, Height: c.measurer.LineHeight(size)}
	g := uniseg.NewGraphemes(text)
	x := 0.0
	r.xs = append(r.xs, 0)
	for g.Next() {
		cluster := g.Str()
		r.clusters = append(r.clusters, cluster)
		x += c.measurer.Advance(cluster, size)
		r.xs = append(r.xs, x)
	}
	r.Width = x

	if len(c.entries) >= c.maxSize {
		// Wholesale clear rather than LRU bookkeeping: the cache refills with
		// exactly the strings still on screen within one frame.
		c.entries = make(map[uint64]*TextLayoutResult)
	}
	c.entries[key] = r
	return r
}

// TextElement lays out and draws a single-line text run at its node's
// bounds. The node's size comes from the laid-out run, so a text node
// measures to its content.
type TextElement struct {
	Text  string
	Size  float64
	Color Color
	Align TextAlign
	Cache *TextLayoutCache
}

func (e TextElement) Capabilities() Capability { return CapLayout | CapDraw | CapSemantics }
func (e TextElement) Create() ModifierNode     { return &textNode{TextElement: e} }
func (e TextElement) Update(n ModifierNode)    { n.(*textNode).TextElement = e }
func (e TextElement) Equal(other ModifierElement) bool {
	o, ok := other.(TextElement)
	return ok && o.Text == e.Text && o.Size == e.Size && o.Color == e.Color &&
		o.Align == e.Align && o.Cache == e.Cache
}

type textNode struct {
	baseNode
	TextElement
}

func (n *textNode) Capabilities() Capability { return CapLayout | CapDraw | CapSemantics }

func (n *textNode) cache() *TextLayoutCache {
	if n.Cache != nil {
		return n.Cache
	}
	return sharedTextCache
}

var sharedTextCache = NewTextLayoutCache(nil)

func (n *textNode) MeasureLayout(ctx *MeasureContext, wrapped Measurable, constraints Constraints) ModifierMeasureResult {
	ctx.MeasureWrapped(wrapped, Constraints{})
	run := n.cache().Layout(n.Text, n.Size)
	w, h := constraints.Constrain(run.Width, run.Height)
	return ModifierMeasureResult{Size: Size{w, h}}
}

func (n *textNode) Draw(scope *DrawScope, bounds Rect) {
	run := n.cache().Layout(n.Text, n.Size)
	scope.DrawText(TextDraw{Bounds: bounds, Layout: run, Color: n.Color, Align: n.Align})
}

func (n *textNode) ApplySemantics(sn *SemanticsNode) {
	sn.Label = n.Text
	if sn.Role == RoleNone {
		sn.Role = RoleText
	}
}
