package game

import (
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Headless is a Host with a fixed timestep and no output.
type Headless struct {
	dt        float32
	maxFrames int // 0 = unlimited
	frames    int
	bar       *progressbar.ProgressBar
}

// NewHeadless creates a headless host stepping dt seconds per frame.
// With progress set, a bar is drawn on stderr.
func NewHeadless(dt float32, maxFrames int, progress bool) *Headless {
	h := &Headless{dt: dt, maxFrames: maxFrames}
	if progress {
		if maxFrames > 0 {
			h.bar = progressbar.Default(int64(maxFrames), "simulating")
		} else {
			h.bar = progressbar.Default(-1, "simulating")
		}
	}
	return h
}

// StderrIsTerminal reports whether stderr is interactive.
func StderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// ProcessEvents returns false once the frame cap is reached.
func (h *Headless) ProcessEvents() bool {
	return h.maxFrames <= 0 || h.frames < h.maxFrames
}

// FrameTime returns the fixed timestep.
func (h *Headless) FrameTime() float32 {
	return h.dt
}

// Paused is always false.
func (h *Headless) Paused() bool {
	return false
}

// BeginFrame does nothing.
func (h *Headless) BeginFrame() error {
	return nil
}

// EndFrame counts the frame.
func (h *Headless) EndFrame(HUD) error {
	h.frames++
	if h.bar != nil {
		h.bar.Add(1)
	}
	return nil
}

// Frames returns the number of completed frames.
func (h *Headless) Frames() int {
	return h.frames
}

// Close finishes the progress bar.
func (h *Headless) Close() {
	if h.bar != nil {
		h.bar.Close()
	}
}
