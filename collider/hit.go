// SPDX-License-Identifier: GPL-2.0-or-later

package collider

import (
	"ozphys/math/vec"
)

// Hit is the result of a translate query.
type Hit struct {
	// Ratio is the completed part of the move, 1 if nothing was hit.
	Ratio  float32
	Normal vec.Vec3

	// what was hit, -1 if none
	Obj    int
	Str    int
	Entity int

	Material int

	// Medium holds the MaterialWater, MaterialLadder and MaterialSea bits
	// of everything entered before Ratio. Depth is the submersion at Ratio.
	Medium    int
	MediumStr int
	Depth     float32
	InWater   bool
	OnLadder  bool

	StartSolid bool
}

func newHit() Hit {
	return Hit{
		Ratio:     1,
		Obj:       -1,
		Str:       -1,
		Entity:    -1,
		MediumStr: -1,
	}
}

// Blocked reports whether anything stopped the move.
func (h *Hit) Blocked() bool {
	return h.Ratio < 1
}
