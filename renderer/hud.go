package renderer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/game"
)

// drawHUD renders the counters and the pause button. It returns true when
// the button was clicked this frame.
func drawHUD(title string, hud game.HUD, screenHeight int32) bool {
	rl.DrawText(title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d / %d | +%d -%d", hud.Particles, hud.Capacity, hud.Spawned, hud.Removed),
		10, 35, 16, rl.LightGray,
	)

	mode := "sequential"
	if hud.Parallel {
		mode = "parallel"
	}
	rl.DrawText(
		fmt.Sprintf("Frame: %d | %.2f ms | FPS: %d | Shards: %d (%s)",
			hud.Frame, hud.FrameTime*1000, rl.GetFPS(), hud.Shards, mode),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if hud.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	rl.DrawText("SPACE pause | F11 fullscreen | ESC quit", 10, screenHeight-25, 14, rl.Gray)

	return gui.Button(rl.Rectangle{X: 10, Y: 100, Width: 120, Height: 30}, toggleText(hud.Paused, "Resume", "Pause"))
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
