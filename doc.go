// Package compose is a declarative UI core: a reactive composition engine, a
// modifier-node chain system, and the measure/layout/draw pipeline binding
// them.
//
// A composition function runs against a [Composer], which records every call
// site in a positional slot table, remembers state across re-executions, and
// emits a retained tree of [LayoutNode]s through an [Applier]. State lives in
// snapshot-aware [MutableState] cells; a write invalidates exactly the
// recompose scopes that read the cell, and [Composer.ProcessInvalidScopes]
// reruns only those.
//
// # Quick start
//
//	renderer := compose.NewRenderer(func(c *compose.Composer) {
//		count := compose.UseState(c, func() int { return 0 })
//		c.WithScope(nil, func() {
//			c.EmitNode(
//				func() *compose.LayoutNode { return compose.NewLayoutNode(nil) },
//				func(n *compose.LayoutNode) {
//					n.SetModifier(compose.Modifier{}.Then(
//						compose.SizeElement{Width: 100, Height: 40, HasWidth: true, HasHeight: true},
//						compose.TextElement{Text: fmt.Sprint(count.Get()), Size: 16},
//					))
//				},
//				nil,
//			)
//		})
//	})
//	tree, _ := renderer.ComputeLayout(compose.Size{Width: 640, Height: 480})
//	scene := renderer.BuildScene()
//
// A platform driver consumes the [Scene] (shapes, text runs, hit regions),
// feeds pointer samples into [Renderer.ProcessPointer], and pumps
// [Renderer.DrainFrameCallbacks] once per display frame. The ebiten-backed
// driver in the renderdriver submodule shows the full loop.
//
// # Modifiers
//
// Widget configuration is an ordered [Modifier] list of plain-data elements
// (padding, size, offset, background, pointer input, semantics). Elements
// reconcile into long-lived [ModifierNode]s on their layout node; a node
// whose element compares equal across recompositions is updated in place,
// keeping gesture state and animation handles alive.
//
// # Concurrency
//
// Composition, layout, scene building, and pointer dispatch for one
// composition are single-threaded and cooperative. The snapshot [Runtime] is
// process-wide and safe for concurrent use. Launched effects and flings run
// on their own goroutines, paced by the [FrameClock].
package compose
