package component

import "emoji-sim/internal/ecs"

const CRenderable ecs.ComponentType = 3

const (
	FieldGlyph = "glyph"
	FieldColor = "color" // tcell.Color stored as int64
	FieldOrder = "order" // lower is drawn first
)

var RenderableSchema = ecs.Schema{
	{Name: FieldGlyph, Type: ecs.FieldString},
	{Name: FieldColor, Type: ecs.FieldInt},
	{Name: FieldOrder, Type: ecs.FieldInt},
}
