package pricing

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress reports how far a price refresh has come.
type Progress struct {
	writer       io.Writer
	total        int
	done         int
	priced       int
	interval     int
	lastReported int
	startTime    time.Time
	started      bool
	mu           sync.Mutex
}

// NewProgress creates a progress reporter writing to w every interval items.
func NewProgress(w io.Writer, total, interval int) *Progress {
	if w == nil {
		w = io.Discard
	}
	if interval < 1 {
		interval = 1
	}
	return &Progress{writer: w, total: total, interval: interval}
}

// Start resets the counters and starts the clock.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startTime = time.Now()
	p.started = true
	p.done = 0
	p.priced = 0
	p.lastReported = 0
}

// Step records one looked-up part.
func (p *Progress) Step(priced bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	if p.done < p.total {
		p.done++
	}
	if priced {
		p.priced++
	}
	if p.done-p.lastReported >= p.interval {
		p.report()
		p.lastReported = p.done
	}
}

// Finish prints the final line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.done = p.total
	p.report()
	fmt.Fprintln(p.writer)
}

// Elapsed returns the time since Start.
func (p *Progress) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.startTime)
}

// report prints the current state. Must be called with lock held.
func (p *Progress) report() {
	elapsed := time.Since(p.startTime).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.done) / elapsed
	}
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.done) / float64(p.total) * 100.0
	}
	fmt.Fprintf(p.writer, "\rPricing: %d/%d (%.1f%%), %d priced - %.1f parts/s",
		p.done, p.total, percentage, p.priced, rate)
}
