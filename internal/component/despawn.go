package component

import "emoji-sim/internal/ecs"

// CDespawn rows are deferred requests to remove an entity from every body
// table. The row's entity ID is the entity to remove.
const CDespawn ecs.ComponentType = 6

// FieldReason records why the entity was removed ("expired", ...).
const FieldReason = "reason"

var DespawnSchema = ecs.Schema{
	{Name: FieldReason, Type: ecs.FieldString},
}
