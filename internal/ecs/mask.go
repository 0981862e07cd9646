package ecs

import (
	"math/bits"
	"strconv"
	"strings"
)

// Mask is a set of component types, one bit per type.
type Mask [4]uint64

// MaskOf builds a mask from the listed types.
func MaskOf(types ...ComponentType) Mask {
	var m Mask
	for _, t := range types {
		m.Set(t)
	}
	return m
}

// Set adds t to the mask.
func (m *Mask) Set(t ComponentType) {
	m[t/64] |= 1 << (t % 64)
}

// Unset removes t from the mask.
func (m *Mask) Unset(t ComponentType) {
	m[t/64] &^= 1 << (t % 64)
}

// Has reports whether t is in the mask.
func (m Mask) Has(t ComponentType) bool {
	return m[t/64]&(1<<(t%64)) != 0
}

// Contains reports whether every type in sub is also in m.
func (m Mask) Contains(sub Mask) bool {
	return m[0]&sub[0] == sub[0] &&
		m[1]&sub[1] == sub[1] &&
		m[2]&sub[2] == sub[2] &&
		m[3]&sub[3] == sub[3]
}

// Intersects reports whether m and other share at least one type.
func (m Mask) Intersects(other Mask) bool {
	return m[0]&other[0] != 0 ||
		m[1]&other[1] != 0 ||
		m[2]&other[2] != 0 ||
		m[3]&other[3] != 0
}

func (m Mask) Union(other Mask) Mask {
	return Mask{m[0] | other[0], m[1] | other[1], m[2] | other[2], m[3] | other[3]}
}

func (m Mask) Intersect(other Mask) Mask {
	return Mask{m[0] & other[0], m[1] & other[1], m[2] & other[2], m[3] & other[3]}
}

// Minus returns the types in m that are not in other.
func (m Mask) Minus(other Mask) Mask {
	return Mask{m[0] &^ other[0], m[1] &^ other[1], m[2] &^ other[2], m[3] &^ other[3]}
}

// IsEmpty reports whether the mask holds no types.
func (m Mask) IsEmpty() bool {
	return m == Mask{}
}

// Len returns the number of types in the mask.
func (m Mask) Len() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// Types lists the types in ascending order.
func (m Mask) Types() []ComponentType {
	if m.IsEmpty() {
		return nil
	}
	out := make([]ComponentType, 0, m.Len())
	for i, word := range m {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			out = append(out, ComponentType(i*64+b))
			word &^= 1 << b
		}
	}
	return out
}

func (m Mask) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, t := range m.Types() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(t)))
	}
	sb.WriteByte('}')
	return sb.String()
}
