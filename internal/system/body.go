package system

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"emoji-sim/internal/component"
	"emoji-sim/internal/ecs"
)

// Body is the full state of one live entity, spread over the four body
// tables.
type Body struct {
	X, Y   float64
	DX, DY float64
	Glyph  string
	Color  tcell.Color
	Order  int
	TTL    float64 // simulated seconds
}

// bodyTables holds the standing tables that make up a live entity.
type bodyTables struct {
	pos, vel, rend, life *ecs.Table
}

func (bt bodyTables) all() []*ecs.Table {
	return []*ecs.Table{bt.pos, bt.vel, bt.rend, bt.life}
}

// createBody returns the body tables in w, creating any that are missing.
func createBody(w ecs.Writes) (bodyTables, error) {
	var bt bodyTables
	var err error
	if bt.pos, err = w.Create(component.CPosition, component.PositionSchema); err != nil {
		return bt, err
	}
	if bt.vel, err = w.Create(component.CVelocity, component.VelocitySchema); err != nil {
		return bt, err
	}
	if bt.rend, err = w.Create(component.CRenderable, component.RenderableSchema); err != nil {
		return bt, err
	}
	if bt.life, err = w.Create(component.CLifetime, component.LifetimeSchema); err != nil {
		return bt, err
	}
	return bt, nil
}

// openBody returns the body tables already present in w.
func openBody(w ecs.Writes) (bodyTables, error) {
	var bt bodyTables
	for _, slot := range []struct {
		t   ecs.ComponentType
		dst **ecs.Table
	}{
		{component.CPosition, &bt.pos},
		{component.CVelocity, &bt.vel},
		{component.CRenderable, &bt.rend},
		{component.CLifetime, &bt.life},
	} {
		tbl, ok := w.Table(slot.t)
		if !ok {
			return bt, fmt.Errorf("%w: body kind %d", ecs.ErrUnknownKind, slot.t)
		}
		*slot.dst = tbl
	}
	return bt, nil
}

// add appends one entity to every body table. Nothing is written when id is
// already alive.
func (bt bodyTables) add(id ecs.EntityID, b Body) error {
	for _, t := range bt.all() {
		if t.Has(id) {
			return fmt.Errorf("%w: %s", ecs.ErrDuplicateEntity, id)
		}
	}

	row, err := bt.pos.Append(id)
	if err != nil {
		return err
	}
	ecs.MustColumn[float64](bt.pos, component.FieldX)[row] = b.X
	ecs.MustColumn[float64](bt.pos, component.FieldY)[row] = b.Y

	if row, err = bt.vel.Append(id); err != nil {
		return err
	}
	ecs.MustColumn[float64](bt.vel, component.FieldDX)[row] = b.DX
	ecs.MustColumn[float64](bt.vel, component.FieldDY)[row] = b.DY

	if row, err = bt.rend.Append(id); err != nil {
		return err
	}
	ecs.MustColumn[string](bt.rend, component.FieldGlyph)[row] = b.Glyph
	ecs.MustColumn[int64](bt.rend, component.FieldColor)[row] = int64(b.Color)
	ecs.MustColumn[int64](bt.rend, component.FieldOrder)[row] = int64(b.Order)

	if row, err = bt.life.Append(id); err != nil {
		return err
	}
	ecs.MustColumn[float64](bt.life, component.FieldRemaining)[row] = b.TTL
	return nil
}

// remove deletes ids from every body table and returns how many entities
// were alive.
func (bt bodyTables) remove(ids ...ecs.EntityID) int {
	n := bt.pos.DeleteEntities(ids...)
	bt.vel.DeleteEntities(ids...)
	bt.rend.DeleteEntities(ids...)
	bt.life.DeleteEntities(ids...)
	return n
}
