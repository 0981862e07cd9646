package component

import "emoji-sim/internal/ecs"

const CPosition ecs.ComponentType = 1

// Position fields, in cells on the toroidal field.
const (
	FieldX = "x"
	FieldY = "y"
)

var PositionSchema = ecs.Schema{
	{Name: FieldX, Type: ecs.FieldFloat},
	{Name: FieldY, Type: ecs.FieldFloat},
}
