package ingestion

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressTracker writes a single, carriage-return refreshed progress line
// while a batch runs. Records never started are not reported.
type ProgressTracker struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	every   int
	done    int
	failed  int
	pending int
	start   time.Time
	running bool
}

// NewProgressTracker reports to w every `every` finished records out of
// total. An interval below 1 reports every record.
func NewProgressTracker(w io.Writer, total, every int) *ProgressTracker {
	return &ProgressTracker{w: w, total: total, every: max(every, 1)}
}

// Start resets the counters and the clock.
func (t *ProgressTracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done, t.failed, t.pending = 0, 0, 0
	t.start = time.Now()
	t.running = true
}

// Done counts one finished record; ok is false for a failed record.
func (t *ProgressTracker) Done(ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}

	t.done = min(t.done+1, t.total)
	if !ok {
		t.failed++
	}
	if t.pending++; t.pending >= t.every {
		t.pending = 0
		t.writeLine()
	}
}

// Finish writes the final line, terminated with the elapsed time. Totals
// are what actually finished, so a canceled batch stays below 100%.
func (t *ProgressTracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	t.writeLine()
	fmt.Fprintf(t.w, " in %s\n", time.Since(t.start).Round(time.Millisecond))
}

func (t *ProgressTracker) writeLine() {
	var pct, rate float64
	if t.total > 0 {
		pct = 100 * float64(t.done) / float64(t.total)
	}
	if secs := time.Since(t.start).Seconds(); secs > 0 {
		rate = float64(t.done) / secs
	}
	fmt.Fprintf(t.w, "\rProgress: %d/%d (%.1f%%) - %.1f records/s, %d failed",
		t.done, t.total, pct, rate, t.failed)
}
