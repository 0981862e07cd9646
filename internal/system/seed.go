package system

import (
	"math"
	"math/rand"

	"emoji-sim/internal/component"
	"emoji-sim/internal/ecs"
	"emoji-sim/internal/render"
)

// Field is the toroidal playing area, in cells.
type Field struct {
	Width, Height int
}

// wrap folds v into [0, n).
func wrap(v float64, n int) float64 {
	size := float64(n)
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	if v >= size {
		v = 0
	}
	return v
}

// maxSpeed is the largest velocity component, in cells per second.
const maxSpeed = 3.0

// randomBody rolls a wandering entity at (x, y).
func randomBody(rng *rand.Rand, x, y, lifetime float64) Body {
	sp := render.Palette[rng.Intn(len(render.Palette))]
	return Body{
		X:     x,
		Y:     y,
		DX:    (rng.Float64()*2 - 1) * maxSpeed,
		DY:    (rng.Float64()*2 - 1) * maxSpeed,
		Glyph: sp.Glyph,
		Color: sp.Color,
		Order: rng.Intn(3),
		TTL:   lifetime * (0.5 + rng.Float64()),
	}
}

// Seed is the initialization system: it creates the body tables and
// populates them with Count wandering entities.
type Seed struct {
	field    Field
	count    int
	lifetime float64
	rng      *rand.Rand
}

// NewSeed creates a Seed. lifetime is the mean entity lifetime in seconds.
func NewSeed(field Field, count int, lifetime float64, rng *rand.Rand) *Seed {
	return &Seed{field: field, count: count, lifetime: lifetime, rng: rng}
}

func (s *Seed) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{Name: "seed", Writes: component.Body}
}

func (s *Seed) Initialize(_ ecs.Reads, w ecs.Writes) error {
	bt, err := createBody(w)
	if err != nil {
		return err
	}
	for range s.count {
		x := s.rng.Float64() * float64(s.field.Width)
		y := s.rng.Float64() * float64(s.field.Height)
		if err := bt.add(ecs.NewEntityID(), randomBody(s.rng, x, y, s.lifetime)); err != nil {
			return err
		}
	}
	return nil
}

// Run does nothing; Seed only acts during initialization.
func (s *Seed) Run(ecs.Reads, ecs.Writes, float64) (ecs.Components, error) {
	return nil, nil
}
