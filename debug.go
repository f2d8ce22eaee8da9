package compose

import (
	"fmt"
	"os"
	"strings"
)

// ---- Debug mode and helpers -------------------------------------------------

// DebugMode gates expensive invariant checks and verbose logging. Warnings
// about recoverable conditions (measure budget overruns, dropped pointer
// dispatches) are printed regardless; DebugMode adds the checks that are too
// costly for release builds.
var DebugMode = false

// debugWarnf prints a warning to stderr. Always on: these report recoverable
// but abnormal conditions the embedder should know about.
func debugWarnf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[compose] warning: "+format+"\n", args...)
}

// debugLogf prints a diagnostic line to stderr when DebugMode is on.
func debugLogf(format string, args ...any) {
	if !DebugMode {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[compose] "+format+"\n", args...)
}

// debugMaxTreeDepth is the depth past which a layout tree is suspicious:
// deep enough that it is almost certainly a recursion bug in widget code, not
// a real UI.
const debugMaxTreeDepth = 64

// debugCheckTreeDepth warns on stderr if the path from id to the root exceeds
// the threshold. It returns immediately unless DebugMode is on.
func debugCheckTreeDepth(store *NodeStore, id NodeId) {
	if !DebugMode {
		return
	}
	depth := 0
	for node := store.Get(id); node != nil && node.hasParent; node = store.Get(node.parent) {
		depth++
		if depth > debugMaxTreeDepth {
			debugWarnf("tree depth exceeds %d at node %d", debugMaxTreeDepth, id)
			return
		}
	}
}

// FormatTree renders the layout-node tree under root as an indented listing
// of ids, sizes, and capability masks, for debugging layout problems.
func FormatTree(store *NodeStore, root NodeId) string {
	var sb strings.Builder
	formatSubtree(store, root, 0, &sb)
	return sb.String()
}

func formatSubtree(store *NodeStore, id NodeId, depth int, sb *strings.Builder) {
	node := store.Get(id)
	if node == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(sb, "node %d size=%gx%g caps=%#x children=%d\n",
		id, node.lastSize.Width, node.lastSize.Height, node.chain.Capabilities(), len(node.children))
	for _, child := range node.children {
		formatSubtree(store, child, depth+1, sb)
	}
}
