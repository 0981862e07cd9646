package system

import (
	"emoji-sim/internal/component"
	"emoji-sim/internal/ecs"
)

// ReasonExpired marks despawn requests raised by Aging.
const ReasonExpired = "expired"

// Aging counts lifetimes down by dt and requests a despawn for every entity
// whose lifetime ran out. The entities themselves are removed by
// DespawnResolver in the same tick.
type Aging struct {
	ecs.Base
}

func NewAging() *Aging { return &Aging{} }

func (a *Aging) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{
		Name:     "aging",
		Writes:   ecs.MaskOf(component.CLifetime),
		Deferred: ecs.MaskOf(component.CDespawn),
	}
}

func (a *Aging) Run(_ ecs.Reads, w ecs.Writes, dt float64) (ecs.Components, error) {
	life, ok := w.Table(component.CLifetime)
	if !ok {
		return nil, nil
	}
	remaining := ecs.MustColumn[float64](life, component.FieldRemaining)

	var expired []ecs.EntityID
	for i := range remaining {
		remaining[i] -= dt
		if remaining[i] <= 0 {
			expired = append(expired, life.ID(i))
		}
	}
	if len(expired) == 0 {
		return nil, nil
	}

	out, err := ecs.NewTable(component.DespawnSchema)
	if err != nil {
		return nil, err
	}
	first, err := out.Append(expired...)
	if err != nil {
		return nil, err
	}
	reasons := ecs.MustColumn[string](out, component.FieldReason)
	for i := range expired {
		reasons[first+i] = ReasonExpired
	}
	return ecs.Components{component.CDespawn: out}, nil
}
