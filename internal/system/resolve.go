package system

import (
	"github.com/gdamore/tcell/v2"

	"emoji-sim/internal/component"
	"emoji-sim/internal/ecs"
)

// SpawnResolver turns spawn requests into live entities. The request's entity
// ID becomes the entity's ID.
type SpawnResolver struct {
	ecs.Base
}

func NewSpawnResolver() *SpawnResolver { return &SpawnResolver{} }

func (s *SpawnResolver) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{
		Name:   "spawn-resolver",
		Reads:  ecs.MaskOf(component.CSpawn),
		Writes: component.Body,
	}
}

func (s *SpawnResolver) Run(r ecs.Reads, w ecs.Writes, _ float64) (ecs.Components, error) {
	req, ok := r.Table(component.CSpawn)
	if !ok || req.Len() == 0 {
		return nil, nil
	}
	bt, err := openBody(w)
	if err != nil {
		return nil, err
	}
	xs := ecs.MustReadColumn[float64](req, component.FieldX)
	ys := ecs.MustReadColumn[float64](req, component.FieldY)
	dxs := ecs.MustReadColumn[float64](req, component.FieldDX)
	dys := ecs.MustReadColumn[float64](req, component.FieldDY)
	glyphs := ecs.MustReadColumn[string](req, component.FieldGlyph)
	colors := ecs.MustReadColumn[int64](req, component.FieldColor)
	ttls := ecs.MustReadColumn[float64](req, component.FieldTTL)

	for i := range req.Len() {
		b := Body{
			X:     xs.At(i),
			Y:     ys.At(i),
			DX:    dxs.At(i),
			DY:    dys.At(i),
			Glyph: glyphs.At(i),
			Color: tcell.Color(colors.At(i)),
			TTL:   ttls.At(i),
		}
		if err := bt.add(req.ID(i), b); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// DespawnResolver removes every entity named by a despawn request from the
// body tables. Requests for entities that are already gone are ignored.
type DespawnResolver struct {
	ecs.Base
}

func NewDespawnResolver() *DespawnResolver { return &DespawnResolver{} }

func (d *DespawnResolver) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{
		Name:   "despawn-resolver",
		Reads:  ecs.MaskOf(component.CDespawn),
		Writes: component.Body,
	}
}

func (d *DespawnResolver) Run(r ecs.Reads, w ecs.Writes, _ float64) (ecs.Components, error) {
	req, ok := r.Table(component.CDespawn)
	if !ok || req.Len() == 0 {
		return nil, nil
	}
	bt, err := openBody(w)
	if err != nil {
		return nil, err
	}
	ids := make([]ecs.EntityID, req.Len())
	for i := range ids {
		ids[i] = req.ID(i)
	}
	bt.remove(ids...)
	return nil, nil
}
