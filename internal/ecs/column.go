package ecs

import "fmt"

// FieldType is the storage type of one table column.
type FieldType uint8

const (
	FieldInt    FieldType = iota + 1 // int64
	FieldFloat                       // float64
	FieldString                      // string
	FieldBool                        // bool
	FieldEntity                      // EntityID
)

func (ft FieldType) String() string {
	switch ft {
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldString:
		return "string"
	case FieldBool:
		return "bool"
	case FieldEntity:
		return "entity"
	default:
		return fmt.Sprintf("FieldType(%d)", uint8(ft))
	}
}

// column is the type-erased view of one typed column; vector[T] is the only
// implementation.
type column interface {
	fieldType() FieldType
	len() int
	grow(n int)
	appendFrom(other column)
	compact(keep []bool)
}

type vector[T any] struct {
	ft   FieldType
	data []T
}

func newColumn(ft FieldType) column {
	switch ft {
	case FieldInt:
		return &vector[int64]{ft: ft}
	case FieldFloat:
		return &vector[float64]{ft: ft}
	case FieldString:
		return &vector[string]{ft: ft}
	case FieldBool:
		return &vector[bool]{ft: ft}
	case FieldEntity:
		return &vector[EntityID]{ft: ft}
	}
	return nil
}

func (v *vector[T]) fieldType() FieldType { return v.ft }

func (v *vector[T]) len() int { return len(v.data) }

// grow appends n zero-valued placeholder cells.
func (v *vector[T]) grow(n int) {
	var zero T
	for range n {
		v.data = append(v.data, zero)
	}
}

func (v *vector[T]) appendFrom(other column) {
	v.data = append(v.data, other.(*vector[T]).data...)
}

// compact drops every cell whose keep flag is false, preserving order.
func (v *vector[T]) compact(keep []bool) {
	out := v.data[:0]
	for i, cell := range v.data {
		if keep[i] {
			out = append(out, cell)
		}
	}
	clear(v.data[len(out):])
	v.data = out
}
