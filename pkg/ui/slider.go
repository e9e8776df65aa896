package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal drag widget for one float parameter. Value is read
// directly by the frame loop; there is no callback.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64

	dragging bool
}

func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	return &Slider{
		Label: label,
		Value: value,
		Min:   min, Max: max,
		X: x, Y: y, W: w, H: 16,
	}
}

// Update tracks the mouse. A drag started inside the slider keeps following
// the cursor even when it leaves the widget, which is what every native
// slider does and makes fine adjustment much less fiddly.
func (s *Slider) Update() {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	if !pressed {
		s.dragging = false
		return
	}
	if !s.dragging {
		inside := float64(mx) >= s.X && float64(mx) <= s.X+s.W &&
			float64(my) >= s.Y && float64(my) <= s.Y+s.H
		if !inside {
			return
		}
		s.dragging = true
	}

	t := (float64(mx) - s.X) / s.W
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	s.Value = s.Min + t*(s.Max-s.Min)
}

// Draw renders the track and the filled portion up to the current value.
func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H),
		color.RGBA{R: 70, G: 70, B: 78, A: 255}, true)

	ratio := (s.Value - s.Min) / (s.Max - s.Min)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H),
		color.RGBA{R: 190, G: 190, B: 200, A: 255}, true)
}
