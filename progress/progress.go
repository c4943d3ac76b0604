// Package progress reports console progress for long sequential stages such
// as embedding every extracted label or splitting a bulk export.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracker reports progress of a long-running stage to a writer, typically
// os.Stderr. It prints at most one line per reportInterval items processed,
// rewriting the line in place. The zero value is unusable; construct with
// NewTracker and call Start before advancing.
type Tracker struct {
	writer         io.Writer
	unit           string
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	started        bool
	mu             sync.Mutex
}

// NewTracker creates a tracker for a stage that processes total items.
// unit names the item in the rate display (e.g. "labels", "parts").
func NewTracker(writer io.Writer, unit string, total, reportInterval int) *Tracker {
	if unit == "" {
		unit = "items"
	}
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &Tracker{
		writer:         writer,
		unit:           unit,
		total:          total,
		reportInterval: reportInterval,
	}
}

// Start resets the tracker and begins timing. Advancing before Start is a
// no-op.
func (p *Tracker) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.current = 0
	p.lastReported = 0
}

// Update sets the current count to an absolute value, capped at total.
func (p *Tracker) Update(current int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(current - p.current)
}

// Increment advances the current count by delta, capped at total.
func (p *Tracker) Increment(delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(delta)
}

// Finish forces the count to total, prints a final line and a trailing
// newline so subsequent output starts on a fresh line.
func (p *Tracker) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}

	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start, or zero if not started.
func (p *Tracker) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}

	return time.Since(p.startTime)
}

// advance moves the count and reports when a full interval has passed.
// Must be called with the lock held.
func (p *Tracker) advance(delta int) {
	if !p.started || delta <= 0 {
		return
	}

	p.current += delta
	if p.current > p.total {
		p.current = p.total
	}

	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// report prints the current progress line. Must be called with the lock held.
func (p *Tracker) report() {
	elapsed := time.Since(p.startTime)
	rate := float64(p.current) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rProgress: %d/%d (%.1f%%) - %.1f %s/s",
		p.current, p.total, percentage, rate, p.unit)
}
