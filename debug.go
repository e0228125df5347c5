package lunar

import (
	"fmt"
	"io"
	"os"
	"time"
)

// debugStats holds per-frame paint and cache metrics.
// Only populated when the widget is in debug mode.
type debugStats struct {
	paintTime  time.Duration
	painted    bool
	dateEvents int
	cache      CacheStats
	cacheLen   int
}

// debugOut is where debug lines go. Tests swap it out.
var debugOut io.Writer = os.Stderr

// SetDebugMode enables per-frame stats on stderr.
func (w *Widget) SetDebugMode(on bool) {
	w.debug = on
}

// debugLog prints the frame's stats. Frames with no paint and no date change
// are skipped to keep idle windows quiet.
func (w *Widget) debugLog(stats debugStats) {
	if !w.debug || (!stats.painted && stats.dateEvents == 0) {
		return
	}
	_, _ = fmt.Fprintf(debugOut,
		"[lunar] paint: %v | date changes: %d | date: %s\n",
		stats.paintTime, stats.dateEvents, w.date.Format(time.RFC3339))
	_, _ = fmt.Fprintf(debugOut,
		"[lunar] cache: %d entries | hits: %d | misses: %d | evictions: %d\n",
		stats.cacheLen, stats.cache.Hits, stats.cache.Misses, stats.cache.Evictions)
}
