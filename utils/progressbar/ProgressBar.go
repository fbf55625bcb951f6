// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar implements progress bar functionality that must be
// manually managed. The bar is redrawn in place on Increment at most
// once per update interval, and whenever Display is called.
//
// ProgressBar does not use concurrency.
type ProgressBar struct {
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder

	startTime   time.Time
	lastDraw    time.Time
	updateEvery time.Duration
	closed      bool
}

// New returns a new progress bar that is width characters wide, writes
// to out, and reaches 100% after max Increment() calls
func New(out io.Writer, width, max int,
	updateEvery time.Duration) *ProgressBar {
	now := time.Now()
	return &ProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   now,
		lastDraw:    now,
		updateEvery: updateEvery,
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
	if p.currentProgress >= p.maxProgress ||
		time.Since(p.lastDraw) >= p.updateEvery {
		p.Display()
	}
}

// Progress returns the fraction of the bar that is complete
func (p *ProgressBar) Progress() float64 {
	if p.maxProgress <= 0 {
		return 1
	}
	return p.currentProgress / p.maxProgress
}

// String returns the rendered progress bar
func (p *ProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	filled := int(p.Progress() * p.width)
	p.bar.WriteString(strings.Repeat("█", filled))
	p.bar.WriteString(strings.Repeat(" ", int(p.width)-filled))
	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v]", p.Progress()*100,
		time.Since(p.startTime).Truncate(time.Second))

	return p.bar.String()
}

// Display redraws the progress bar in place. Nothing is drawn after
// Close.
func (p *ProgressBar) Display() {
	if p.closed {
		return
	}
	p.lastDraw = time.Now()
	fmt.Fprintf(p.out, "\n\033[1A\033[K%v", p.String())
}

// Close draws the bar a final time and moves to the next line
func (p *ProgressBar) Close() {
	if p.closed {
		return
	}
	p.Display()
	p.closed = true
	fmt.Fprintln(p.out)
}
