package ecs

import (
	"errors"
	"fmt"
)

var ErrOverlap = errors.New("ecs: read and write sets overlap")

// Descriptor declares what a system may touch. A type in Writes is implicitly
// readable and must not also appear in Reads. Deferred lists the types the
// system may return from Run instead of writing them in place.
type Descriptor struct {
	Name     string
	Reads    Mask
	Writes   Mask
	Deferred Mask
}

// Validate rejects descriptors whose read and write sets overlap.
func (d Descriptor) Validate() error {
	if both := d.Reads.Intersect(d.Writes); !both.IsEmpty() {
		return fmt.Errorf("%w: system %q declares %v in both", ErrOverlap, d.Name, both)
	}
	return nil
}

// Required is the union of the read and write sets.
func (d Descriptor) Required() Mask { return d.Reads.Union(d.Writes) }

// System is one unit of per-tick logic.
//
// Initialize is called at most once, before any Run, and only for systems in
// the initialization list. Run mutates tables reachable through w in place
// and returns deferred output restricted to the descriptor's Deferred set; a
// nil map means no deferred output.
type System interface {
	Descriptor() Descriptor
	Initialize(r Reads, w Writes) error
	Run(r Reads, w Writes, dt float64) (Components, error)
}

// Base supplies a no-op Initialize for systems that never run in the
// initialization phase.
type Base struct{}

func (Base) Initialize(Reads, Writes) error { return nil }
