package component

import "emoji-sim/internal/ecs"

// Body is every standing table that makes up a live entity.
var Body = ecs.MaskOf(CPosition, CVelocity, CRenderable, CLifetime)

// NewRegistry registers every component type of the simulation.
func NewRegistry() (*ecs.Registry, error) {
	r := ecs.NewRegistry()
	for _, k := range []struct {
		t      ecs.ComponentType
		name   string
		schema ecs.Schema
	}{
		{CPosition, "position", PositionSchema},
		{CVelocity, "velocity", VelocitySchema},
		{CRenderable, "renderable", RenderableSchema},
		{CLifetime, "lifetime", LifetimeSchema},
		{CSpawn, "spawn", SpawnSchema},
		{CDespawn, "despawn", DespawnSchema},
	} {
		if err := r.Register(k.t, k.name, k.schema); err != nil {
			return nil, err
		}
	}
	return r, nil
}
