package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/batch"
)

// PointSink draws a batch of points by writing them into a CPU pixel buffer
// and uploading it as one screen-sized texture.
type PointSink struct {
	pixels []color.RGBA
	tex    rl.Texture2D

	width, height int
	initialized   bool
}

// NewPointSink creates a sink for a width×height window.
func NewPointSink(width, height int) *PointSink {
	return &PointSink{
		width:  width,
		height: height,
		pixels: make([]color.RGBA, width*height),
	}
}

// Init creates the texture (must be called after the raylib window is created).
func (s *PointSink) Init() {
	if s.initialized {
		return
	}

	img := rl.GenImageColor(s.width, s.height, rl.Blank)
	s.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(s.tex, rl.FilterPoint)
	rl.UnloadImage(img)

	s.initialized = true
}

// Draw implements batch.Sink. Call between BeginDrawing and EndDrawing.
func (s *PointSink) Draw(points []batch.Point) error {
	if !s.initialized {
		s.Init()
	}

	clear(s.pixels)
	for i := range points {
		x, y, ok := points[i].Screen(s.width, s.height)
		if !ok {
			continue
		}
		s.pixels[y*s.width+x] = points[i].Color
	}

	rl.UpdateTexture(s.tex, s.pixels)
	rl.DrawTexture(s.tex, 0, 0, rl.White)
	return nil
}

// Unload frees GPU resources.
func (s *PointSink) Unload() {
	if !s.initialized {
		return
	}
	rl.UnloadTexture(s.tex)
	s.initialized = false
}
