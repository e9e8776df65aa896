package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean on click.
type Checkbox struct {
	Label   string
	Value   bool
	X, Y    float64
	Size    float64
	clicked bool
}

func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{Label: label, Value: value, X: x, Y: y, Size: 16}
}

// Update toggles the value on a fresh click inside the box. The clicked flag
// debounces held buttons so one press is one toggle.
func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	inside := float64(mx) >= c.X && float64(mx) <= c.X+c.Size &&
		float64(my) >= c.Y && float64(my) <= c.Y+c.Size

	if inside && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !c.clicked {
			c.Value = !c.Value
			c.clicked = true
		}
	} else {
		c.clicked = false
	}
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen, float32(c.X), float32(c.Y), float32(c.Size), float32(c.Size),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	if c.Value {
		vector.FillRect(screen, float32(c.X+3), float32(c.Y+3), float32(c.Size-6), float32(c.Size-6),
			color.RGBA{R: 110, G: 200, B: 110, A: 255}, true)
	}

	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+6), int(c.Y+1))
}
