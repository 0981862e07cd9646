package render

import "github.com/gdamore/tcell/v2"

// Species is one kind of wandering entity: the emoji it is drawn with and the
// color used when a terminal cannot show the emoji.
type Species struct {
	Glyph string
	Color tcell.Color
}

// Palette lists the species the seed and emitter systems pick from.
var Palette = []Species{
	{Glyph: "🐟", Color: tcell.ColorAqua},
	{Glyph: "🐢", Color: tcell.ColorGreen},
	{Glyph: "🦀", Color: tcell.ColorRed},
	{Glyph: "🐝", Color: tcell.ColorYellow},
	{Glyph: "🦋", Color: tcell.ColorFuchsia},
	{Glyph: "🐌", Color: tcell.ColorOrange},
}

// Ground is drawn on every empty cell of the field.
const Ground = "·"

var (
	groundStyle = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	hintStyle   = tcell.StyleDefault.Foreground(tcell.ColorLightYellow)
)
