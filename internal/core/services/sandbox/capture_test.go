package sandbox

import (
	"sync"
	"testing"
)

func TestCapture_OrderAndJoin(t *testing.T) {
	c := BeginCapture()
	c.Write("first")
	c.Write("")
	c.Write("third")

	if got, want := c.Output(), "first\n\nthird"; got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
	if got := len(c.Lines()); got != 3 {
		t.Errorf("len(Lines()) = %d, want 3", got)
	}
}

func TestCapture_LinesIsCopy(t *testing.T) {
	c := BeginCapture()
	c.Write("a")
	lines := c.Lines()
	lines[0] = "mutated"

	if got := c.Output(); got != "a" {
		t.Errorf("Output() = %q after mutating Lines()", got)
	}
}

func TestCapture_RestoreDropsLaterWrites(t *testing.T) {
	c := BeginCapture()
	c.Write("kept")
	c.Restore()
	c.Restore()
	c.Write("dropped")

	if !c.Restored() {
		t.Error("Restored() = false after Restore")
	}
	if got := c.Output(); got != "kept" {
		t.Errorf("Output() = %q, want %q", got, "kept")
	}
}

func TestCapture_Empty(t *testing.T) {
	c := BeginCapture()
	if got := c.Output(); got != "" {
		t.Errorf("Output() = %q, want empty", got)
	}
}

func TestCapture_ConcurrentWrites(t *testing.T) {
	c := BeginCapture()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Write("x")
		}()
	}
	wg.Wait()
	if got := len(c.Lines()); got != 50 {
		t.Errorf("len(Lines()) = %d, want 50", got)
	}
}
