package system

import (
	"emoji-sim/internal/component"
	"emoji-sim/internal/ecs"
)

// Movement advances every position by its velocity and wraps it around the
// field edges.
type Movement struct {
	ecs.Base
	field Field
}

func NewMovement(field Field) *Movement {
	return &Movement{field: field}
}

func (m *Movement) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{
		Name:   "movement",
		Reads:  ecs.MaskOf(component.CVelocity),
		Writes: ecs.MaskOf(component.CPosition),
	}
}

func (m *Movement) Run(r ecs.Reads, w ecs.Writes, dt float64) (ecs.Components, error) {
	pos, ok := w.Table(component.CPosition)
	if !ok {
		return nil, nil
	}
	vel, ok := r.Table(component.CVelocity)
	if !ok {
		return nil, nil
	}
	xs := ecs.MustColumn[float64](pos, component.FieldX)
	ys := ecs.MustColumn[float64](pos, component.FieldY)
	dxs, err := ecs.ReadColumn[float64](vel, component.FieldDX)
	if err != nil {
		return nil, err
	}
	dys, err := ecs.ReadColumn[float64](vel, component.FieldDY)
	if err != nil {
		return nil, err
	}

	for i, id := range pos.IDs() {
		v, ok := vel.Row(id)
		if !ok {
			continue // stationary
		}
		xs[i] = wrap(xs[i]+dxs.At(v)*dt, m.field.Width)
		ys[i] = wrap(ys[i]+dys.At(v)*dt, m.field.Height)
	}
	return nil, nil
}
