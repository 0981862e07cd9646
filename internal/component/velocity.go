package component

import "emoji-sim/internal/ecs"

const CVelocity ecs.ComponentType = 2

// Velocity fields, in cells per simulated second.
const (
	FieldDX = "dx"
	FieldDY = "dy"
)

var VelocitySchema = ecs.Schema{
	{Name: FieldDX, Type: ecs.FieldFloat},
	{Name: FieldDY, Type: ecs.FieldFloat},
}
