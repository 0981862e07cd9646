package ecs

import (
	"errors"
	"fmt"
)

var ErrNotWritable = errors.New("ecs: component type not in write set")

// Reads is the read-only view a system gets over its read set. It only hands
// out ReadTable handles, so it cannot be used to mutate a table.
type Reads struct {
	m Components
}

// Table returns the read handle for t, or false if t is absent.
func (r Reads) Table(t ComponentType) (ReadTable, bool) {
	tbl, ok := r.m[t]
	return ReadTable{t: tbl}, ok
}

// Has reports whether t is present in the view.
func (r Reads) Has(t ComponentType) bool {
	_, ok := r.m[t]
	return ok
}

// Kinds returns the types present in the view.
func (r Reads) Kinds() Mask { return r.m.Kinds() }

// ReadTable is a read-only handle over a shared table.
type ReadTable struct {
	t *Table
}

func (rt ReadTable) Len() int {
	if rt.t == nil {
		return 0
	}
	return rt.t.Len()
}

func (rt ReadTable) ID(row int) EntityID { return rt.t.ID(row) }

func (rt ReadTable) Row(id EntityID) (int, bool) {
	if rt.t == nil {
		return 0, false
	}
	return rt.t.Row(id)
}

func (rt ReadTable) Columns() []Field { return rt.t.Columns() }

// ColumnReader gives indexed, read-only access to one column.
type ColumnReader[T any] struct {
	data []T
}

func (c ColumnReader[T]) At(row int) T { return c.data[row] }

func (c ColumnReader[T]) Len() int { return len(c.data) }

// ReadColumn returns a reader over the named field of rt.
func ReadColumn[T any](rt ReadTable, name string) (ColumnReader[T], error) {
	if rt.t == nil {
		return ColumnReader[T]{}, fmt.Errorf("%w: %q", ErrNoField, name)
	}
	data, err := Column[T](rt.t, name)
	if err != nil {
		return ColumnReader[T]{}, err
	}
	return ColumnReader[T]{data: data}, nil
}

// MustReadColumn is ReadColumn that panics on a schema mismatch.
func MustReadColumn[T any](rt ReadTable, name string) ColumnReader[T] {
	c, err := ReadColumn[T](rt, name)
	if err != nil {
		panic(err)
	}
	return c
}

// Writes is the mutable view a system gets over its write set.
type Writes struct {
	m       Components
	owner   Components
	allowed Mask
}

// Table returns the mutable table for t, or false if t is absent.
func (w Writes) Table(t ComponentType) (*Table, bool) {
	tbl, ok := w.m[t]
	return tbl, ok
}

// Has reports whether t is present in the view.
func (w Writes) Has(t ComponentType) bool {
	_, ok := w.m[t]
	return ok
}

// Kinds returns the types present in the view.
func (w Writes) Kinds() Mask { return w.m.Kinds() }

// Create returns the table for t, creating an empty one with schema in the
// owning map when missing. t must be in the write set.
func (w Writes) Create(t ComponentType, schema Schema) (*Table, error) {
	if !w.allowed.Has(t) {
		return nil, fmt.Errorf("%w: %d", ErrNotWritable, t)
	}
	if tbl, ok := w.m[t]; ok {
		if !tbl.schema.Equal(schema) {
			return nil, fmt.Errorf("kind %d: %w", t, ErrSchemaMismatch)
		}
		return tbl, nil
	}
	tbl, err := NewTable(schema)
	if err != nil {
		return nil, err
	}
	w.m[t] = tbl
	if w.owner != nil {
		w.owner[t] = tbl
	}
	return tbl, nil
}

// Views extracts the read and write views that d grants over src.
func Views(src Components, d Descriptor) (Reads, Writes) {
	return Reads{m: Extract(src, d.Reads)},
		Writes{m: Extract(src, d.Writes), owner: src, allowed: d.Writes}
}

// ReadsOf wraps c as a read-only view, mainly for tests and tools.
func ReadsOf(c Components) Reads { return Reads{m: c} }
