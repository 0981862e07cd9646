package component

import "emoji-sim/internal/ecs"

// CSpawn rows are deferred requests to create an entity. The row's entity ID
// becomes the new entity's ID.
const CSpawn ecs.ComponentType = 5

const FieldTTL = "ttl"

var SpawnSchema = ecs.Schema{
	{Name: FieldX, Type: ecs.FieldFloat},
	{Name: FieldY, Type: ecs.FieldFloat},
	{Name: FieldDX, Type: ecs.FieldFloat},
	{Name: FieldDY, Type: ecs.FieldFloat},
	{Name: FieldGlyph, Type: ecs.FieldString},
	{Name: FieldColor, Type: ecs.FieldInt},
	{Name: FieldTTL, Type: ecs.FieldFloat},
}
