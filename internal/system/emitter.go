package system

import (
	"math/rand"

	"emoji-sim/internal/component"
	"emoji-sim/internal/ecs"
)

// Emitter requests a new entity next to a random live one every interval of
// simulated time. With no live entities the newcomer appears at a random cell.
type Emitter struct {
	ecs.Base
	field    Field
	interval float64
	lifetime float64
	rng      *rand.Rand
	timer    float64
}

// NewEmitter creates an Emitter. An interval of zero or less disables it.
func NewEmitter(field Field, interval, lifetime float64, rng *rand.Rand) *Emitter {
	return &Emitter{field: field, interval: interval, lifetime: lifetime, rng: rng}
}

func (e *Emitter) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{
		Name:     "emitter",
		Reads:    ecs.MaskOf(component.CPosition),
		Deferred: ecs.MaskOf(component.CSpawn),
	}
}

func (e *Emitter) Run(r ecs.Reads, _ ecs.Writes, dt float64) (ecs.Components, error) {
	if e.interval <= 0 {
		return nil, nil
	}
	e.timer += dt
	if e.timer < e.interval {
		return nil, nil
	}

	pos, _ := r.Table(component.CPosition)
	var xs, ys ecs.ColumnReader[float64]
	if pos.Len() > 0 {
		xs = ecs.MustReadColumn[float64](pos, component.FieldX)
		ys = ecs.MustReadColumn[float64](pos, component.FieldY)
	}

	out, err := ecs.NewTable(component.SpawnSchema)
	if err != nil {
		return nil, err
	}
	for e.timer >= e.interval {
		e.timer -= e.interval

		var x, y float64
		if pos.Len() > 0 {
			parent := e.rng.Intn(pos.Len())
			x = wrap(xs.At(parent)+float64(e.rng.Intn(3)-1), e.field.Width)
			y = wrap(ys.At(parent)+float64(e.rng.Intn(3)-1), e.field.Height)
		} else {
			x = e.rng.Float64() * float64(e.field.Width)
			y = e.rng.Float64() * float64(e.field.Height)
		}
		b := randomBody(e.rng, x, y, e.lifetime)

		row, err := out.Append(ecs.NewEntityID())
		if err != nil {
			return nil, err
		}
		ecs.MustColumn[float64](out, component.FieldX)[row] = b.X
		ecs.MustColumn[float64](out, component.FieldY)[row] = b.Y
		ecs.MustColumn[float64](out, component.FieldDX)[row] = b.DX
		ecs.MustColumn[float64](out, component.FieldDY)[row] = b.DY
		ecs.MustColumn[string](out, component.FieldGlyph)[row] = b.Glyph
		ecs.MustColumn[int64](out, component.FieldColor)[row] = int64(b.Color)
		ecs.MustColumn[float64](out, component.FieldTTL)[row] = b.TTL
	}
	return ecs.Components{component.CSpawn: out}, nil
}
