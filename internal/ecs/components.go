package ecs

import "fmt"

// Components maps each component type to its table.
type Components map[ComponentType]*Table

// Kinds returns the set of types present in c.
func (c Components) Kinds() Mask {
	var m Mask
	for t := range c {
		m.Set(t)
	}
	return m
}

// Rows returns the total row count across all tables.
func (c Components) Rows() int {
	n := 0
	for _, tbl := range c {
		n += tbl.Len()
	}
	return n
}

// Extract returns the sub-map of c restricted to the types in want. Tables are
// shared, not copied, so writes through the result land in c. Types absent
// from c are silently omitted.
func Extract(c Components, want Mask) Components {
	out := make(Components, want.Len())
	for t, tbl := range c {
		if want.Has(t) {
			out[t] = tbl
		}
	}
	return out
}

// Merge folds add into acc: rows are appended when acc already holds a table
// for the type, otherwise add's table is inserted as is and from then on is
// owned by acc.
func Merge(acc, add Components) error {
	for t, tbl := range add {
		existing, ok := acc[t]
		if !ok {
			acc[t] = tbl
			continue
		}
		if err := existing.AppendTable(tbl); err != nil {
			return fmt.Errorf("merge kind %d: %w", t, err)
		}
	}
	return nil
}
