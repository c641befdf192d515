// Package batch accumulates coloured points for a frame and hands them to a
// sink in a single draw.
package batch

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
)

// ErrCapacity is returned by Submit when the batch is full. The point is dropped.
var ErrCapacity = errors.New("batch full")

// Point is one coloured point in centre-origin screen space (+y up).
type Point struct {
	X, Y  float32
	Color color.RGBA
}

// Screen maps the point onto a w×h raster with the origin at the top left
// and +y down. ok is false when the point falls outside.
func (p Point) Screen(w, h int) (x, y int, ok bool) {
	fx := p.X + float32(w)/2
	fy := float32(h)/2 - p.Y
	if fx < 0 || fy < 0 || fx >= float32(w) || fy >= float32(h) {
		return 0, 0, false
	}
	return int(fx), int(fy), true
}

// Sink draws a frame's worth of points. The slice is only valid for the call.
type Sink interface {
	Draw(points []Point) error
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Draw([]Point) error { return nil }

// Batch collects points between Begin and Flush.
type Batch struct {
	points []Point
	sink   Sink
	warned bool
}

// New creates a batch holding at most capacity points.
func New(capacity int, sink Sink) (*Batch, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("batch capacity must be positive, got %d", capacity)
	}
	if sink == nil {
		sink = Discard
	}
	return &Batch{
		points: make([]Point, 0, capacity),
		sink:   sink,
	}, nil
}

// Begin clears any pending points.
func (b *Batch) Begin() {
	b.points = b.points[:0]
	b.warned = false
}

// Submit appends a point. Colour channels are in [0, 1].
func (b *Batch) Submit(x, y, r, g, bl, a float32) error {
	n := len(b.points)
	if n >= cap(b.points) {
		return ErrCapacity
	}
	if n == cap(b.points)-1 && !b.warned {
		slog.Warn("batch_last_slot", "capacity", cap(b.points))
		b.warned = true
	}

	b.points = append(b.points, Point{
		X: x,
		Y: y,
		Color: color.RGBA{
			R: channel(r),
			G: channel(g),
			B: channel(bl),
			A: channel(a),
		},
	})
	return nil
}

// Flush draws pending points in one sink call and clears the batch.
func (b *Batch) Flush() error {
	if len(b.points) == 0 {
		return nil
	}
	err := b.sink.Draw(b.points)
	b.points = b.points[:0]
	b.warned = false
	if err != nil {
		return fmt.Errorf("draw batch: %w", err)
	}
	return nil
}

// Len returns the number of pending points.
func (b *Batch) Len() int {
	return len(b.points)
}

// Cap returns the batch capacity.
func (b *Batch) Cap() int {
	return cap(b.points)
}

func channel(c float32) uint8 {
	switch {
	case c <= 0:
		return 0
	case c >= 1:
		return 255
	}
	return uint8(c * 255)
}
