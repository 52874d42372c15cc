package sandbox

import (
	"strings"
	"sync"
)

// Capture buffers the diagnostic output of one execution.
//
// A Capture is acquired with BeginCapture and released with Restore. Once
// restored it stops accepting lines, so a script that keeps running after
// its caller gave up cannot write into the result.
type Capture struct {
	mu       sync.Mutex
	lines    []string
	restored bool
}

// BeginCapture starts a new capture.
func BeginCapture() *Capture {
	return &Capture{}
}

// Write appends one line. It is a no-op after Restore.
func (c *Capture) Write(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restored {
		return
	}
	c.lines = append(c.lines, line)
}

// Lines returns a copy of the captured lines in write order.
func (c *Capture) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

// Output returns the captured lines joined by newlines.
func (c *Capture) Output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}

// Restore releases the capture. Safe to call more than once.
func (c *Capture) Restore() {
	c.mu.Lock()
	c.restored = true
	c.mu.Unlock()
}

// Restored reports whether Restore has been called.
func (c *Capture) Restored() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restored
}
