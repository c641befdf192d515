// Package terminal hosts the simulation in a text terminal using tcell.
// Each cell shows the colour of the last particle that landed in it.
package terminal

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/fountain/batch"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
)

// defaultFPS caps redraws when the config leaves the frame rate uncapped.
const defaultFPS = 30

const particleRune = '•'

// Screen is both a game.Host and a batch.Sink.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event

	worldW, worldH float32
	minFrame       time.Duration // 0 = no cap
	last           time.Time
	frameStart     time.Time
	paused         bool
}

// New opens the terminal. Call Close when done.
func New(cfg *config.Config) (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal screen: %w", err)
	}

	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = defaultFPS
	}
	return newScreen(screen, cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, fps), nil
}

// newScreen wraps an initialized tcell screen. fps <= 0 disables the frame cap.
func newScreen(screen tcell.Screen, worldW, worldH float32, fps int) *Screen {
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.HideCursor()
	screen.Clear()

	s := &Screen{
		screen: screen,
		events: make(chan tcell.Event, 100),
		worldW: worldW,
		worldH: worldH,
	}
	if fps > 0 {
		s.minFrame = time.Second / time.Duration(fps)
	}

	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			s.events <- ev
		}
	}()

	return s
}

// ProcessEvents drains pending input. q, Esc and Ctrl-C quit; space pauses.
func (s *Screen) ProcessEvents() bool {
	for {
		select {
		case ev := <-s.events:
			if !s.handleEvent(ev) {
				return false
			}
		default:
			return true
		}
	}
}

func (s *Screen) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				s.paused = !s.paused
			}
		}

	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

// FrameTime returns the seconds since the previous call; the first call returns 0.
func (s *Screen) FrameTime() float32 {
	now := time.Now()
	if s.last.IsZero() {
		s.last = now
		return 0
	}
	dt := now.Sub(s.last)
	s.last = now
	return float32(dt.Seconds())
}

// Paused reports whether the simulation is paused.
func (s *Screen) Paused() bool {
	return s.paused
}

// BeginFrame clears the cell buffer.
func (s *Screen) BeginFrame() error {
	s.frameStart = time.Now()
	s.screen.Clear()
	return nil
}

// Draw implements batch.Sink. Row 0 is reserved for the status line.
func (s *Screen) Draw(points []batch.Point) error {
	cols, rows := s.screen.Size()
	rows-- // status line
	if cols <= 0 || rows <= 0 {
		return nil
	}

	sx := float32(cols) / s.worldW
	sy := float32(rows) / s.worldH
	for i := range points {
		p := points[i]
		cell := batch.Point{X: p.X * sx, Y: p.Y * sy}
		x, y, ok := cell.Screen(cols, rows)
		if !ok {
			continue
		}
		c := p.Color
		style := tcell.StyleDefault.
			Background(tcell.ColorBlack).
			Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		s.screen.SetContent(x, y+1, particleRune, nil, style)
	}
	return nil
}

// EndFrame draws the status line, presents the frame and caps the frame rate.
func (s *Screen) EndFrame(hud game.HUD) error {
	status := fmt.Sprintf(" particles %d/%d  +%d -%d  frame %d  %.2fms  shards %d",
		hud.Particles, hud.Capacity, hud.Spawned, hud.Removed, hud.Frame, hud.FrameTime*1000, hud.Shards)
	if hud.Paused {
		status += "  PAUSED"
	}
	status += "  [space] pause [q] quit"
	s.drawText(0, 0, status, tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow))

	s.screen.Show()

	if s.minFrame > 0 {
		if rest := s.minFrame - time.Since(s.frameStart); rest > 0 {
			time.Sleep(rest)
		}
	}
	return nil
}

func (s *Screen) drawText(x, y int, text string, style tcell.Style) {
	cols, _ := s.screen.Size()
	for _, r := range text {
		if x >= cols {
			return
		}
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.screen.Fini()
}
