// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a concurrent progress bar. The bar is
// redrawn by a background goroutine, so displaying progress does not
// block the process whose progress is measured. Increment may be
// called from any goroutine.
type ProgressBar struct {
	mu sync.Mutex

	// width determines the number of characters wide that the progress
	// bar should be
	width float64

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress float64

	// currentProgress measures the current progress, equivalently it
	// measures the number of times Increment() was called
	currentProgress float64

	// incrementEvent wakes the display goroutine when progress is
	// made, if redrawing at each increment was requested
	incrementEvent chan struct{}

	closeEvent chan struct{}
	closed     bool

	updateEvery       time.Duration
	updateAtIncrement bool

	out io.Writer
}

// NewProgressBar returns a new progress bar that is width characters
// wide and reaches 100% capacity after max Increment() calls. The bar
// is redrawn every updateEvery, and additionally at each Increment()
// call if updateAtIncrement is set.
func NewProgressBar(width, max int, updateEvery time.Duration,
	updateAtIncrement bool) *ProgressBar {
	return &ProgressBar{
		width:             float64(width),
		maxProgress:       float64(max),
		currentProgress:   0,
		incrementEvent:    make(chan struct{}, 1),
		closeEvent:        make(chan struct{}),
		closed:            false,
		updateEvery:       updateEvery,
		updateAtIncrement: updateAtIncrement,
		out:               os.Stdout,
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called. Increments past
// 100% are ignored.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	if p.currentProgress < p.maxProgress && !p.closed {
		p.currentProgress++
	}
	p.mu.Unlock()

	select {
	case p.incrementEvent <- struct{}{}:
	default:
	}
}

// progress returns the current progress counter
func (p *ProgressBar) progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentProgress
}

// Close closes the progress bar so that it will no longer display to
// the screen. This function also cleans up any resources the progress
// bar is using.
func (p *ProgressBar) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		panic("close: close on closed progress bar")
	}
	p.closed = true
	p.mu.Unlock()

	close(p.closeEvent)
	fmt.Fprintln(p.out) // Jump to next line after printed bar
}

// Display displays the progress bar on the screen. It should only be
// called once.
func (p *ProgressBar) Display() {
	go func() {
		tick := time.NewTicker(p.updateEvery)
		defer tick.Stop()

		var elapsedTime time.Duration

		for {
			// Update either whenever Increment() is called or on the
			// update ticker otherwise
			select {
			case <-p.incrementEvent:
				if !p.updateAtIncrement {
					continue
				}

			case <-tick.C:
				elapsedTime += p.updateEvery

			case <-p.closeEvent:
				return
			}

			fmt.Fprintf(p.out, "\n\033[1A\033[K%v",
				p.render(p.progress(), elapsedTime))
		}
	}()
}

// render draws the bar for the given progress counter and elapsed
// time
func (p *ProgressBar) render(currentProgress float64,
	elapsedTime time.Duration) string {
	var bar strings.Builder
	bar.WriteString("|")

	currentProg := currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		bar.WriteString(" ")
	}
	bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		currentProgress/p.maxProgress*100, "%", elapsedTime))

	return bar.String()
}
