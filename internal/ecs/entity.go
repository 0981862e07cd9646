package ecs

import "github.com/google/uuid"

// EntityID uniquely identifies an entity. Entities carry no data of their own;
// they exist only as row keys inside component tables.
type EntityID uuid.UUID

// NilEntity is the zero value; no valid entity has this ID.
var NilEntity EntityID

// NewEntityID mints a random (v4) entity ID. No shared counter is involved, so
// systems may create entities independently while building deferred output.
func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

// String returns the canonical UUID form.
func (id EntityID) String() string {
	return uuid.UUID(id).String()
}

// ComponentType is a small integer key identifying one component table.
type ComponentType uint8
