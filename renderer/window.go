// Package renderer hosts the simulation in a raylib window.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
)

// Window is a game.Host backed by a raylib window.
type Window struct {
	title  string
	height int32
	paused bool

	points *PointSink
}

// NewWindow opens the window. Call Close when done.
func NewWindow(cfg *config.Config) *Window {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	w := &Window{
		title:  cfg.Screen.Title,
		height: int32(cfg.Screen.Height),
		points: NewPointSink(cfg.Screen.Width, cfg.Screen.Height),
	}
	w.points.Init()
	return w
}

// Sink returns the batch sink drawing into this window.
func (w *Window) Sink() *PointSink {
	return w.points
}

// ProcessEvents handles keyboard input and reports whether to keep running.
func (w *Window) ProcessEvents() bool {
	if rl.WindowShouldClose() {
		return false
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		w.paused = !w.paused
	}
	return true
}

// FrameTime returns the duration of the last frame in seconds.
func (w *Window) FrameTime() float32 {
	return rl.GetFrameTime()
}

// Paused reports whether the simulation is paused.
func (w *Window) Paused() bool {
	return w.paused
}

// BeginFrame starts drawing and clears the screen.
func (w *Window) BeginFrame() error {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	return nil
}

// EndFrame draws the HUD and presents the frame.
func (w *Window) EndFrame(hud game.HUD) error {
	if drawHUD(w.title, hud, w.height) {
		w.paused = !w.paused
	}
	rl.EndDrawing()
	return nil
}

// Close frees GPU resources and closes the window.
func (w *Window) Close() {
	w.points.Unload()
	rl.CloseWindow()
}
