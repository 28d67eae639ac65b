package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is implemented by every control a UIPanel can lay out.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64 // vertical space taken, label included
	SetY(y float64)
}

// UIPanel stacks widgets in titled sections and scrolls them with the mouse wheel.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	rows []panelRow
}

// panelRow is either a section header (widget nil) or a labelled widget.
type panelRow struct {
	label  string
	widget Widget
}

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
)

func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new titled group of widgets.
func (p *UIPanel) AddSection(title string) {
	p.rows = append(p.rows, panelRow{label: title})
}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(label, s)
	return s
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.add(label, c)
	return c
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 22, label, onClick)
	p.add("", b)
	return b
}

func (p *UIPanel) add(label string, w Widget) {
	p.rows = append(p.rows, panelRow{label: label, widget: w})
	p.layout()
}

// layout assigns every widget its on-screen Y for the current scroll offset.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for _, r := range p.rows {
		if r.widget == nil {
			y += sectionHeight
			continue
		}
		if r.label != "" {
			r.widget.SetY(y + labelHeight)
		} else {
			r.widget.SetY(y)
		}
		y += r.widget.Height()
	}
}

func (p *UIPanel) contentHeight() float64 {
	h := titleHeight
	for _, r := range p.rows {
		if r.widget == nil {
			h += sectionHeight
		} else {
			h += r.widget.Height()
		}
	}
	return h
}

func (p *UIPanel) visible(y float64) bool {
	return y >= p.Y+titleHeight-sectionHeight && y <= p.Y+p.Height-10
}

// Contains reports whether a screen point falls on the panel, so the caller
// can ignore clicks meant for the UI.
func (p *UIPanel) Contains(x, y int) bool {
	return within(float64(x), float64(y), p.X, p.Y, p.Width, p.Height)
}

func (p *UIPanel) Update() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		mx, my := ebiten.CursorPosition()
		if p.Contains(mx, my) {
			maxScroll := max(p.contentHeight()-p.Height+10, 0)
			p.ScrollOffset = min(max(p.ScrollOffset-dy*20, 0), maxScroll)
			p.layout()
		}
	}
	y := p.Y + titleHeight - p.ScrollOffset
	for _, r := range p.rows {
		if r.widget == nil {
			y += sectionHeight
			continue
		}
		// hidden widgets must not react to clicks on whatever covers them
		if p.visible(y) {
			r.widget.Update()
		}
		y += r.widget.Height()
	}
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	y := p.Y + titleHeight - p.ScrollOffset
	for _, r := range p.rows {
		if r.widget == nil {
			if p.visible(y) {
				vector.FillRect(screen,
					float32(p.X+5), float32(y),
					float32(p.Width-10), 20,
					color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, r.label, int(p.X+10), int(y+2))
			}
			y += sectionHeight
			continue
		}
		if p.visible(y) {
			if r.label != "" {
				ebitenutil.DebugPrintAt(screen, r.label, int(p.X+10), int(y))
			}
			r.widget.Draw(screen)
		}
		y += r.widget.Height()
	}
}
