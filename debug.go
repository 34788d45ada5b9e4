package lattice

import (
	"fmt"
	"os"
)

// dispatchStats holds per-dispatch retry and eviction metrics.
// Only populated when the handler was built with WithDispatchDebug.
type dispatchStats struct {
	rounds    int
	attempts  int
	evicted   int
	abandoned int
}

// debugLog prints dispatch stats to stderr.
func (h *Handler[E]) debugLog(stats dispatchStats) {
	_, _ = fmt.Fprintf(os.Stderr,
		"[lattice] rounds: %d | attempts: %d | evicted: %d | abandoned: %d\n",
		stats.rounds, stats.attempts, stats.evicted, stats.abandoned)
}
