// Package fps measures the frame rate of a render loop.
package fps

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Counter averages the frame rate over intervals of at least one second.
// The zero value is not usable; create counters with New.
type Counter struct {
	prefix  string
	printer *message.Printer

	started bool
	t0      float64
	frames  int
	fps     float64
}

// New returns a counter whose titles start with prefix.
func New(prefix string) *Counter {
	return &Counter{
		prefix:  prefix,
		printer: message.NewPrinter(language.English),
	}
}

// Frame records one frame at time now, in seconds, and returns the current
// frame rate. The rate is recomputed once at least a second has passed
// since the last update. changed is true on the first frame and on every
// frame that follows an update; title then holds a new window title.
func (c *Counter) Frame(now float64) (fps float64, title string, changed bool) {
	if !c.started {
		c.started = true
		c.t0 = now
	}

	if now-c.t0 >= 1 {
		c.fps = float64(c.frames) / (now - c.t0)
		c.t0 = now
		c.frames = 0
	}

	if c.frames == 0 {
		title = c.Title()
		changed = true
	}
	c.frames++
	return c.fps, title, changed
}

// FPS returns the most recent frame rate, or 0 before the first update.
func (c *Counter) FPS() float64 {
	return c.fps
}

// Title formats the current frame time and rate, for example
// "primer: 16.67 ms/frame (60.0 FPS)".
func (c *Counter) Title() string {
	var frameTime float64
	if c.fps > 0 {
		frameTime = 1000 / c.fps
	}
	return c.printer.Sprintf("%s: %.2f ms/frame (%.1f FPS)", c.prefix, frameTime, c.fps)
}
