package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEntity = errors.New("ecs: entity already in table")
	ErrSchemaMismatch  = errors.New("ecs: incompatible table schema")
	ErrNoField         = errors.New("ecs: no such field")
	ErrFieldType       = errors.New("ecs: field type mismatch")
	ErrRowRange        = errors.New("ecs: row out of range")
)

// Table is a column-oriented store with one row per entity. The entity column
// is always present; the remaining columns follow the table's schema. Row
// order is insertion order.
type Table struct {
	schema Schema
	ids    []EntityID
	rows   map[EntityID]int
	cols   []column
}

// NewTable builds an empty table for schema.
func NewTable(schema Schema) (*Table, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return newTable(append(Schema(nil), schema...)), nil
}

func newTable(schema Schema) *Table {
	t := &Table{
		schema: schema,
		rows:   make(map[EntityID]int),
		cols:   make([]column, len(schema)),
	}
	for i, f := range schema {
		t.cols[i] = newColumn(f.Type)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.ids) }

// Schema returns the table's fields, excluding the entity column.
func (t *Table) Schema() Schema { return t.schema }

// Columns reports every column name and type, entity column first.
func (t *Table) Columns() []Field {
	out := make([]Field, 0, len(t.schema)+1)
	out = append(out, Field{Name: EntityField, Type: FieldEntity})
	return append(out, t.schema...)
}

// ID returns the entity stored at row.
func (t *Table) ID(row int) EntityID { return t.ids[row] }

// IDs returns the live entity column. Callers must not modify it.
func (t *Table) IDs() []EntityID { return t.ids }

// Row returns the row index of id.
func (t *Table) Row(id EntityID) (int, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// Has reports whether id has a row in the table.
func (t *Table) Has(id EntityID) bool {
	_, ok := t.rows[id]
	return ok
}

// Append adds one placeholder row per id, every field at its zero value, and
// returns the index of the first new row. No row is added if any id is
// already present.
func (t *Table) Append(ids ...EntityID) (int, error) {
	first := len(t.ids)
	seen := make(map[EntityID]bool, len(ids))
	for _, id := range ids {
		if t.Has(id) || seen[id] {
			return first, fmt.Errorf("%w: %s", ErrDuplicateEntity, id)
		}
		seen[id] = true
	}
	for i, id := range ids {
		t.rows[id] = first + i
	}
	t.ids = append(t.ids, ids...)
	for _, c := range t.cols {
		c.grow(len(ids))
	}
	return first, nil
}

// AppendTable concatenates other's rows onto t. Entity uniqueness is the
// producer's responsibility; duplicates are not removed.
func (t *Table) AppendTable(other *Table) error {
	if !t.schema.Equal(other.schema) {
		return ErrSchemaMismatch
	}
	first := len(t.ids)
	for i, id := range other.ids {
		t.rows[id] = first + i
	}
	t.ids = append(t.ids, other.ids...)
	for i, c := range t.cols {
		c.appendFrom(other.cols[i])
	}
	return nil
}

// Delete removes the given rows. Remaining rows keep their relative order.
func (t *Table) Delete(rows ...int) error {
	if len(rows) == 0 {
		return nil
	}
	keep := make([]bool, len(t.ids))
	for i := range keep {
		keep[i] = true
	}
	for _, r := range rows {
		if r < 0 || r >= len(t.ids) {
			return fmt.Errorf("%w: %d of %d", ErrRowRange, r, len(t.ids))
		}
		keep[r] = false
	}
	t.compact(keep)
	return nil
}

// DeleteEntities removes the rows of every listed entity that is present and
// returns how many rows were removed.
func (t *Table) DeleteEntities(ids ...EntityID) int {
	keep := make([]bool, len(t.ids))
	for i := range keep {
		keep[i] = true
	}
	removed := 0
	for _, id := range ids {
		if row, ok := t.rows[id]; ok && keep[row] {
			keep[row] = false
			removed++
		}
	}
	if removed > 0 {
		t.compact(keep)
	}
	return removed
}

func (t *Table) compact(keep []bool) {
	ids := t.ids[:0]
	for i, id := range t.ids {
		if keep[i] {
			ids = append(ids, id)
		}
	}
	clear(t.ids[len(ids):])
	t.ids = ids
	for _, c := range t.cols {
		c.compact(keep)
	}
	clear(t.rows)
	for i, id := range t.ids {
		t.rows[id] = i
	}
}

// Column returns the live cells of the named field. Writes to the returned
// slice change the table; the slice is invalidated by the next Append,
// AppendTable or Delete.
func Column[T any](t *Table, name string) ([]T, error) {
	i := t.schema.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoField, name)
	}
	v, ok := t.cols[i].(*vector[T])
	if !ok {
		return nil, fmt.Errorf("%w: %q is %v", ErrFieldType, name, t.cols[i].fieldType())
	}
	return v.data, nil
}

// MustColumn is Column for callers that registered the schema themselves and
// treat a mismatch as a programming error.
func MustColumn[T any](t *Table, name string) []T {
	data, err := Column[T](t, name)
	if err != nil {
		panic(err)
	}
	return data
}
