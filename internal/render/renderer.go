package render

import (
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// hudRows is the number of screen rows reserved under the field.
const hudRows = 3

// Renderer draws frames onto a tcell screen.
type Renderer struct {
	screen tcell.Screen
	camera *Camera
}

// NewRenderer creates a Renderer for the given screen.
func NewRenderer(screen tcell.Screen) *Renderer {
	w, h := screen.Size()
	return &Renderer{
		screen: screen,
		camera: NewCamera(0, 0, w, max(h-hudRows, 0)),
	}
}

// Draw renders the field, its entities and the status lines, then shows the
// screen. hint is printed on the last row.
func (r *Renderer) Draw(f Frame, hint string) {
	w, h := r.screen.Size()
	r.camera.Resize(w, max(h-hudRows, 0))
	r.camera.Center(f.Width/2, f.Height/2)

	r.screen.Clear()
	r.drawGround(f)
	r.drawCells(f.Cells)
	r.drawHUD(f.Status, hint)
	r.screen.Show()
}

func (r *Renderer) drawGround(f Frame) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if sx, sy, ok := r.camera.WorldToScreen(x, y); ok {
				r.putGlyph(sx, sy, Ground, groundStyle)
			}
		}
	}
}

// drawCells draws entities ordered by Order, lower first.
func (r *Renderer) drawCells(cells []Cell) {
	sorted := append([]Cell(nil), cells...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	for _, c := range sorted {
		sx, sy, ok := r.camera.WorldToScreen(c.X, c.Y)
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(c.Color).Background(tcell.ColorBlack)
		r.putGlyph(sx, sy, c.Glyph, style)
	}
}

func (r *Renderer) drawHUD(s Status, hint string) {
	_, h := r.screen.Size()
	hudY := h - hudRows
	if hudY < 0 {
		return
	}
	r.drawHLine(hudY)
	r.drawText(0, hudY+1, s.String(), statusStyle)
	r.drawText(0, hudY+2, hint, hintStyle)
}

// putGlyph draws a single glyph (ASCII or multi-rune emoji) at screen position (x, y).
func (r *Renderer) putGlyph(x, y int, glyph string, style tcell.Style) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	r.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		r.screen.SetContent(x+1, y, ' ', nil, style)
	}
}

func (r *Renderer) drawHLine(y int) {
	w, _ := r.screen.Size()
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, borderStyle)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
}
