// SPDX-License-Identifier: GPL-2.0-or-later

package world

import (
	"github.com/google/uuid"

	"ozphys/bsp"
	"ozphys/math"
	"ozphys/math/vec"
)

// Heading is a structure rotation around the z axis in steps of 90 degrees
// counter clockwise.
type Heading int

const (
	North Heading = iota
	West
	South
	East
)

// HeadingFromDegrees snaps a counter clockwise angle to the nearest
// heading.
func HeadingFromDegrees(a float32) Heading {
	return Heading(math.Quadrant(a))
}

func (h Heading) String() string {
	switch h {
	case North:
		return "north"
	case West:
		return "west"
	case South:
		return "south"
	case East:
		return "east"
	}
	return "unknown"
}

type EntityState int

const (
	EntityClosed EntityState = iota
	EntityOpening
	EntityOpen
	EntityClosing
)

// Entity is the per structure state of a bsp entity class.
type Entity struct {
	Class *bsp.EntityClass
	Ratio float32
	State EntityState
	Time  float32
	// Offset is Class.Move scaled by Ratio, in structure space.
	Offset vec.Vec3
	// Velocity of the last update in absolute space.
	Velocity vec.Vec3
}

// Structure is a placed bsp.
type Structure struct {
	Index      int
	BSPID      uuid.UUID
	BSP        *bsp.BSP
	P          vec.Vec3
	Heading    Heading
	Bounds     vec.Bounds
	Entities   []Entity
	Life       float32
	Resistance float32
	Destroyed  bool

	span Span
}

// NewStructure places m at p rotated by heading.
func NewStructure(id uuid.UUID, m *bsp.BSP, p vec.Vec3, heading Heading) *Structure {
	s := &Structure{
		Index:      -1,
		BSPID:      id,
		BSP:        m,
		P:          p,
		Heading:    heading & 3,
		Life:       m.Life,
		Resistance: m.Resistance,
		Entities:   make([]Entity, len(m.Entities)),
	}
	for i := range m.Entities {
		e := &s.Entities[i]
		e.Class = &m.Entities[i]
		if e.Class.Flags&bsp.EntityStartOpen != 0 {
			e.Ratio = 1
			e.State = EntityOpen
			e.Offset = e.Class.Move
		}
	}
	s.Bounds = s.ToAbsoluteBounds(m.Bounds)
	return s
}

// ToStructCS rotates the vector v from absolute into structure space.
func (s *Structure) ToStructCS(v vec.Vec3) vec.Vec3 {
	switch s.Heading {
	case West:
		return vec.Vec3{v[1], -v[0], v[2]}
	case South:
		return vec.Vec3{-v[0], -v[1], v[2]}
	case East:
		return vec.Vec3{-v[1], v[0], v[2]}
	}
	return v
}

// ToAbsoluteCS rotates the vector v from structure into absolute space.
func (s *Structure) ToAbsoluteCS(v vec.Vec3) vec.Vec3 {
	switch s.Heading {
	case West:
		return vec.Vec3{-v[1], v[0], v[2]}
	case South:
		return vec.Vec3{-v[0], -v[1], v[2]}
	case East:
		return vec.Vec3{v[1], -v[0], v[2]}
	}
	return v
}

// ToStructP transforms the absolute point p into structure space.
func (s *Structure) ToStructP(p vec.Vec3) vec.Vec3 {
	return s.ToStructCS(vec.Sub(p, s.P))
}

// ToAbsoluteP transforms the structure space point p into absolute space.
func (s *Structure) ToAbsoluteP(p vec.Vec3) vec.Vec3 {
	return vec.Add(s.P, s.ToAbsoluteCS(p))
}

// SwapDimCS returns the half extents dim with x and y swapped if the
// structure is rotated by 90 or 270 degrees.
func (s *Structure) SwapDimCS(dim vec.Vec3) vec.Vec3 {
	if s.Heading&1 != 0 {
		return vec.Vec3{dim[1], dim[0], dim[2]}
	}
	return dim
}

// RotateBounds rotates structure space bounds into absolute orientation
// without translating them.
func (s *Structure) RotateBounds(b vec.Bounds) vec.Bounds {
	mins, maxs := vec.MinMax(s.ToAbsoluteCS(b.Mins), s.ToAbsoluteCS(b.Maxs))
	return vec.Bounds{Mins: mins, Maxs: maxs}
}

// ToAbsoluteBounds transforms structure space bounds into absolute space.
func (s *Structure) ToAbsoluteBounds(b vec.Bounds) vec.Bounds {
	return s.RotateBounds(b).Translate(s.P)
}

// ToStructBounds transforms absolute bounds into structure space.
func (s *Structure) ToStructBounds(b vec.Bounds) vec.Bounds {
	mins, maxs := vec.MinMax(s.ToStructP(b.Mins), s.ToStructP(b.Maxs))
	return vec.Bounds{Mins: mins, Maxs: maxs}
}

// EntityBounds returns the current absolute bounds of entity i.
func (s *Structure) EntityBounds(i int) vec.Bounds {
	e := &s.Entities[i]
	return s.ToAbsoluteBounds(e.Class.Bounds.Translate(e.Offset))
}

// Damage applies damage above the resistance and reports whether the
// structure got destroyed by it.
func (s *Structure) Damage(damage float32) bool {
	if s.Destroyed || damage <= s.Resistance {
		return false
	}
	s.Life -= damage - s.Resistance
	if s.Life <= 0 {
		s.Life = 0
		s.Destroyed = true
		return true
	}
	return false
}

// Trigger starts entity i opening if it is closed and closing if it is
// open. It reports whether the entity changed its state.
func (s *Structure) Trigger(i int) bool {
	e := &s.Entities[i]
	switch e.State {
	case EntityClosed:
		e.State = EntityOpening
	case EntityOpen:
		e.State = EntityClosing
	default:
		return false
	}
	e.Time = 0
	return true
}
