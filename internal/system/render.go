package system

import (
	"github.com/gdamore/tcell/v2"

	"emoji-sim/internal/component"
	"emoji-sim/internal/ecs"
	"emoji-sim/internal/render"
)

// Render snapshots every drawable entity into a frame and publishes it to
// the hub. It writes nothing and defers nothing.
//
// Render is a main system, so it sees the field before cleanup resolution:
// a frame still shows the entities despawned later in the same tick and
// omits that tick's spawns. Both show up in the next tick's frame.
type Render struct {
	ecs.Base
	field Field
	hub   *render.Hub
}

func NewRender(field Field, hub *render.Hub) *Render {
	return &Render{field: field, hub: hub}
}

func (r *Render) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{
		Name:  "render",
		Reads: ecs.MaskOf(component.CPosition, component.CRenderable),
	}
}

func (r *Render) Run(rd ecs.Reads, _ ecs.Writes, _ float64) (ecs.Components, error) {
	f := render.Frame{Width: r.field.Width, Height: r.field.Height}
	pos, _ := rd.Table(component.CPosition)
	rend, _ := rd.Table(component.CRenderable)
	if rows := ecs.JoinRead(pos, rend); len(rows) > 0 {
		xs := ecs.MustReadColumn[float64](pos, component.FieldX)
		ys := ecs.MustReadColumn[float64](pos, component.FieldY)
		glyphs := ecs.MustReadColumn[string](rend, component.FieldGlyph)
		colors := ecs.MustReadColumn[int64](rend, component.FieldColor)
		orders := ecs.MustReadColumn[int64](rend, component.FieldOrder)

		f.Cells = make([]render.Cell, 0, len(rows))
		for _, jr := range rows {
			p, g := jr.Rows[0], jr.Rows[1]
			f.Cells = append(f.Cells, render.Cell{
				X:     int(xs.At(p)),
				Y:     int(ys.At(p)),
				Glyph: glyphs.At(g),
				Color: tcell.Color(colors.At(g)),
				Order: int(orders.At(g)),
			})
		}
	}
	if r.hub != nil {
		r.hub.Publish(f)
	}
	return nil, nil
}
