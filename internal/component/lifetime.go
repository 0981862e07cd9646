package component

import "emoji-sim/internal/ecs"

const CLifetime ecs.ComponentType = 4

// FieldRemaining is the simulated seconds left before the entity despawns.
const FieldRemaining = "remaining"

var LifetimeSchema = ecs.Schema{
	{Name: FieldRemaining, Type: ecs.FieldFloat},
}
