// SPDX-License-Identifier: GPL-2.0-or-later

package world

import (
	"github.com/chewxy/math32"

	"ozphys/math/vec"
)

// Object flags
const (
	SolidBit = 1 << iota
	DynamicBit
	OnFloorBit
	OnSlickBit
	InWaterBit
	OnLadderBit
	HitBit
	FrictingBit
	DisabledBit
	DestroyedBit
	VehicleBit
)

// Object is a static solid box. Dynamic objects carry a non nil Dynamic.
type Object struct {
	Index      int
	Class      string
	P          vec.Vec3
	Dim        vec.Vec3
	Flags      int
	Life       float32
	Resistance float32

	Dynamic *Dynamic

	span Span
}

// Dynamic is the movable part of an object.
type Dynamic struct {
	Velocity vec.Vec3
	// Momentum is the velocity change requested from outside for the next
	// tick, e.g. by a collision or a vehicle engine.
	Momentum vec.Vec3
	Mass     float32
	// Lift is the buoyancy factor, 1 floats exactly at half submersion.
	Lift  float32
	Lower int
	// Floor is the normal of the surface the object rests on.
	Floor vec.Vec3
	Depth float32
	// Steps accumulates the stair climbing height of the current tick.
	Steps float32

	Vehicle *Vehicle
}

// NewObject returns a static solid object.
func NewObject(p, dim vec.Vec3, life float32) *Object {
	return &Object{
		Index: -1,
		P:     p,
		Dim:   dim,
		Flags: SolidBit,
		Life:  life,
	}
}

// NewDynamic returns a dynamic solid object of the given mass.
func NewDynamic(p, dim vec.Vec3, mass, lift, life float32) *Object {
	o := NewObject(p, dim, life)
	o.Flags |= DynamicBit
	o.Dynamic = &Dynamic{
		Mass:  mass,
		Lift:  lift,
		Lower: -1,
	}
	return o
}

func (o *Object) AABB() vec.AABB {
	return vec.AABB{P: o.P, Dim: o.Dim}
}

func (o *Object) Bounds() vec.Bounds {
	return o.AABB().Bounds()
}

func (o *Object) Has(flags int) bool {
	return o.Flags&flags != 0
}

// Enable clears the resting state so the object is simulated on the next
// tick.
func (o *Object) Enable() {
	o.Flags &^= DisabledBit
}

// Frag is a point particle.
type Frag struct {
	Index      int
	P          vec.Vec3
	Velocity   vec.Vec3
	Life       float32
	Mass       float32
	Elasticity float32

	span Span
}

func NewFrag(p, velocity vec.Vec3, life, mass, elasticity float32) *Frag {
	return &Frag{
		Index:      -1,
		P:          p,
		Velocity:   velocity,
		Life:       life,
		Mass:       mass,
		Elasticity: elasticity,
	}
}

func (f *Frag) Bounds() vec.Bounds {
	return vec.Bounds{Mins: f.P, Maxs: f.P}
}

type VehicleKind int

const (
	VehicleStatic VehicleKind = iota
	VehicleWheeled
	VehicleTracked
	VehicleHover
	VehicleAir
)

func (k VehicleKind) String() string {
	switch k {
	case VehicleStatic:
		return "static"
	case VehicleWheeled:
		return "wheeled"
	case VehicleTracked:
		return "tracked"
	case VehicleHover:
		return "hover"
	case VehicleAir:
		return "air"
	}
	return "unknown"
}

// Vehicle holds the driver input and the engine parameters of a vehicle
// object.
type Vehicle struct {
	Kind VehicleKind
	// Heading in radians around the z axis, 0 faces +y.
	Heading float32

	// driver input, each in [-1, 1]
	Forward float32
	Right   float32
	Up      float32
	Turn    float32

	MoveMomentum  float32
	TurnRate      float32
	HoverHeight   float32
	HoverMomentum float32
	Lift          float32
}

// Dir returns the unit vector the vehicle faces.
func (v *Vehicle) Dir() vec.Vec3 {
	s, c := math32.Sincos(v.Heading)
	return vec.Vec3{-s, c, 0}
}

// Side returns the unit vector to the right of the vehicle.
func (v *Vehicle) Side() vec.Vec3 {
	s, c := math32.Sincos(v.Heading)
	return vec.Vec3{c, s, 0}
}
