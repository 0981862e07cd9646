package ecs

import (
	"errors"
	"fmt"
	"sort"
)

// EntityField is the name of the implicit first column of every table.
const EntityField = "entity"

var (
	ErrInvalidSchema  = errors.New("ecs: invalid schema")
	ErrKindRegistered = errors.New("ecs: component type already registered")
	ErrUnknownKind    = errors.New("ecs: component type not registered")
)

// Field names and types one column of a component table.
type Field struct {
	Name string
	Type FieldType
}

// Schema is the fixed, ordered list of fields of a component table. The
// entity column is implicit and never listed.
type Schema []Field

// Validate checks that field names are non-empty and unique, none shadows the
// entity column, and every type is known.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		switch {
		case f.Name == "":
			return fmt.Errorf("%w: empty field name", ErrInvalidSchema)
		case f.Name == EntityField:
			return fmt.Errorf("%w: field name %q is reserved", ErrInvalidSchema, EntityField)
		case seen[f.Name]:
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name)
		case newColumn(f.Type) == nil:
			return fmt.Errorf("%w: field %q has unknown type %v", ErrInvalidSchema, f.Name, f.Type)
		}
		seen[f.Name] = true
	}
	return nil
}

// Equal reports whether two schemas have the same fields in the same order.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// index returns the position of the named field, or -1.
func (s Schema) index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Registry maps component types to a display name and a validated schema.
type Registry struct {
	kinds map[ComponentType]kindInfo
}

type kindInfo struct {
	name   string
	schema Schema
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[ComponentType]kindInfo)}
}

// Register records the schema of component type t. The schema is validated
// once here so tables built from it never need to re-check.
func (r *Registry) Register(t ComponentType, name string, schema Schema) error {
	if _, ok := r.kinds[t]; ok {
		return fmt.Errorf("%w: %d (%s)", ErrKindRegistered, t, name)
	}
	if err := schema.Validate(); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	r.kinds[t] = kindInfo{name: name, schema: append(Schema(nil), schema...)}
	return nil
}

// Schema returns the registered schema of t.
func (r *Registry) Schema(t ComponentType) (Schema, bool) {
	info, ok := r.kinds[t]
	return info.schema, ok
}

// Name returns the registered name of t, or its number when unknown.
func (r *Registry) Name(t ComponentType) string {
	if info, ok := r.kinds[t]; ok {
		return info.name
	}
	return fmt.Sprintf("kind#%d", t)
}

// Names renders the types of m as registered names, in ascending type order.
func (r *Registry) Names(m Mask) []string {
	types := m.Types()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, r.Name(t))
	}
	return out
}

// Types lists every registered type in ascending order.
func (r *Registry) Types() []ComponentType {
	out := make([]ComponentType, 0, len(r.kinds))
	for t := range r.kinds {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NewTable builds an empty table with the registered schema of t.
func (r *Registry) NewTable(t ComponentType) (*Table, error) {
	info, ok := r.kinds[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, t)
	}
	return newTable(info.schema), nil
}
