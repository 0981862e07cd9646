package system

import (
	"math/rand"
	"time"

	"emoji-sim/internal/ecs"
	"emoji-sim/internal/render"
)

// Settings configures the wandering-emoji simulation.
type Settings struct {
	Field         Field
	Entities      int
	SpawnInterval time.Duration
	Lifetime      time.Duration
	Seed          int64 // 0 picks one from the clock
}

// Pipeline is the ordered system lists handed to the loop and scheduler.
type Pipeline struct {
	Init    []ecs.System
	Main    []ecs.System
	Cleanup []ecs.System
}

// NewPipeline wires the demo systems. Every frame the render system produces
// is published to hub.
func NewPipeline(s Settings, hub *render.Hub) Pipeline {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	lifetime := s.Lifetime.Seconds()
	return Pipeline{
		Init: []ecs.System{
			NewSeed(s.Field, s.Entities, lifetime, rand.New(rand.NewSource(seed))),
		},
		Main: []ecs.System{
			NewMovement(s.Field),
			NewAging(),
			NewEmitter(s.Field, s.SpawnInterval.Seconds(), lifetime, rand.New(rand.NewSource(seed+1))),
			NewRender(s.Field, hub),
		},
		Cleanup: []ecs.System{
			NewSpawnResolver(),
			NewDespawnResolver(),
		},
	}
}
