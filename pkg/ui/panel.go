package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can lay out and drive.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
}

type sliderEntry struct{ *Slider }

func (s sliderEntry) Height() float64 { return s.H + 24 }

type checkboxEntry struct{ *Checkbox }

func (c checkboxEntry) Height() float64 { return c.Size + 8 }

type buttonEntry struct{ *Button }

func (b buttonEntry) Height() float64 { return b.H + 8 }

type section struct {
	title string
	start int
	end   int
}

// Panel stacks labelled widgets vertically inside a framed box, grouped under
// section headers, with mouse-wheel scrolling when the content overflows.
type Panel struct {
	X, Y          float64
	Width, Height float64

	Title string

	widgets  []Widget
	labels   []string
	sections []section
	scroll   float64
}

func NewPanel(x, y, width, height float64, title string) *Panel {
	return &Panel{X: x, Y: y, Width: width, Height: height, Title: title}
}

// Section opens a new header group; widgets added afterwards belong to it
// until the next Section call.
func (p *Panel) Section(title string) {
	if n := len(p.sections); n > 0 {
		p.sections[n-1].end = len(p.widgets)
	}
	p.sections = append(p.sections, section{title: title, start: len(p.widgets), end: -1})
}

func (p *Panel) add(w Widget, label string) {
	p.widgets = append(p.widgets, w)
	p.labels = append(p.labels, label)
	if n := len(p.sections); n > 0 && p.sections[n-1].end < len(p.widgets) {
		p.sections[n-1].end = len(p.widgets)
	}
}

// AddSlider appends a slider and returns it for direct value reads.
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(sliderEntry{s}, label)
	return s
}

// AddCheckbox appends a checkbox and returns it. The label is drawn beside
// the box, so no caption row is added.
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(checkboxEntry{c}, "")
	return c
}

// AddButton appends a button and returns it. The button draws its own label,
// so no caption row is added above it.
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 24, label, onClick)
	p.add(buttonEntry{b}, "")
	return b
}

const (
	titleHeight   = 26.0
	sectionHeight = 24.0
	labelHeight   = 16.0
)

func (p *Panel) contentHeight() float64 {
	h := titleHeight + float64(len(p.sections))*sectionHeight
	for _, w := range p.widgets {
		h += w.Height()
	}
	return h
}

// Update scrolls the panel and drives every widget. Widget positions are laid
// out here each frame so scrolling and input agree on where things are.
func (p *Panel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.scroll -= dy * 20
		max := p.contentHeight() - p.Height
		if max < 0 {
			max = 0
		}
		if p.scroll < 0 {
			p.scroll = 0
		} else if p.scroll > max {
			p.scroll = max
		}
	}

	p.layout()
	for _, w := range p.widgets {
		w.Update()
	}
}

// layout assigns each widget its on-screen Y for the current scroll offset.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.scroll
	idx := 0
	for _, sec := range p.sections {
		y += sectionHeight
		for idx < sec.end && idx < len(p.widgets) {
			switch w := p.widgets[idx].(type) {
			case sliderEntry:
				w.Y = y + labelHeight
			case checkboxEntry:
				w.Y = y
			case buttonEntry:
				w.Y = y
			}
			y += p.widgets[idx].Height()
			idx++
		}
	}
}

// Draw renders the frame, the headers and every widget in view.
func (p *Panel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height),
		color.RGBA{R: 40, G: 40, B: 45, A: 230}, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height),
		2, color.RGBA{R: 100, G: 100, B: 110, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+6))

	p.layout()

	y := p.Y + titleHeight - p.scroll
	idx := 0
	for _, sec := range p.sections {
		if p.visible(y, sectionHeight) {
			vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, sec.title, int(p.X+10), int(y+4))
		}
		y += sectionHeight

		for idx < sec.end && idx < len(p.widgets) {
			w := p.widgets[idx]
			if p.visible(y, w.Height()) {
				if p.labels[idx] != "" {
					ebitenutil.DebugPrintAt(screen, p.labels[idx], int(p.X+10), int(y))
				}
				w.Draw(screen)
			}
			y += w.Height()
			idx++
		}
	}
}

func (p *Panel) visible(y, h float64) bool {
	return y+h >= p.Y && y <= p.Y+p.Height
}
