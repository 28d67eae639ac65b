package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider picks a float value in [Min, Max] by dragging along its width.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	Format   string            // printf verb for the value readout
	OnChange func(value float64) // called when a drag changes Value
}

// NewSlider creates a slider; value is clamped into [min, max].
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label:  label,
		Min:    min,
		Max:    max,
		X:      x,
		Y:      y,
		W:      width,
		H:      12,
		Format: "%.2f",
	}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// valueAt converts a cursor x coordinate into a slider value.
func (s *Slider) valueAt(mx float64) float64 {
	if s.W <= 0 {
		return s.Min
	}
	return s.clamp(s.Min + (mx-s.X)/s.W*(s.Max-s.Min))
}

func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if !within(float64(mx), float64(my), s.X, s.Y, s.W, s.H) {
		return
	}
	v := s.valueAt(float64(mx))
	if v != s.Value {
		s.Value = v
		if s.OnChange != nil {
			s.OnChange(v)
		}
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	// Track
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H),
		color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	// Filled part
	ratio := 0.0
	if s.Max > s.Min {
		ratio = (s.Value - s.Min) / (s.Max - s.Min)
	}
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H),
		color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	readout := fmt.Sprintf(s.Format, s.Value)
	ebitenutil.DebugPrintAt(screen, readout, int(s.X+s.W)-len(readout)*6, int(s.Y)-15)
}

func (s *Slider) Height() float64 {
	return s.H + 25 // track + label line
}

func (s *Slider) SetY(y float64) {
	s.Y = y
}

// within reports whether (px, py) falls inside the rectangle at (x, y) of size w x h.
func within(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}
