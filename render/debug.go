package render

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	nodeCount  int
	drawCount  int
}

// debugLog writes the last frame's stats to the scene logger at debug level.
func (s *Scene) debugLog() {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		zap.Duration("update", s.stats.updateTime),
		zap.Duration("draw", s.stats.drawTime),
		zap.Int("nodes", s.stats.nodeCount),
		zap.Int("draws", s.stats.drawCount),
	)
	if depth := treeDepth(s.root); depth > debugMaxTreeDepth {
		s.logger.Warn("tree too deep", zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugCheckDisposed panics when a disposed node is used in a tree
// operation. Callers only invoke it in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("render debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

const debugMaxTreeDepth = 32

// treeDepth returns the number of levels in the subtree rooted at n.
func treeDepth(n *Node) int {
	deepest := 0
	for _, c := range n.children {
		deepest = max(deepest, treeDepth(c))
	}
	return deepest + 1
}
