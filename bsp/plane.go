// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"
	"os"
	"runtime/debug"

	"ozphys/math/vec"
)

// NewPlane returns a plane with its lookup fields set up.
func NewPlane(n vec.Vec3, d float32) Plane {
	p := Plane{Normal: n, Dist: d}
	p.setup()
	return p
}

func (p *Plane) setup() {
	p.Type = 3
	for i := 0; i < 3; i++ {
		if p.Normal[i] == 1 {
			p.Type = byte(i)
		}
	}
	p.SignBits = 0
	for i := 0; i < 3; i++ {
		if p.Normal[i] < 0 {
			p.SignBits |= 1 << i
		}
	}
}

// Distance returns the signed distance of point v to the plane.
func (p *Plane) Distance(v vec.Vec3) float32 {
	if p.Type < 3 {
		return v[int(p.Type)] - p.Dist
	}
	return vec.DoublePrecDot(p.Normal, v) - p.Dist
}

// Offset returns the distance of the outermost corner of a box with the
// half extents dim from its center along the plane normal.
func (p *Plane) Offset(dim vec.Vec3) float32 {
	return vec.Dot(p.Normal.Abs(), dim)
}

// BoxOnPlaneSide returns 1 if the box is in front, 2 if behind and 3 if it
// crosses the plane.
func (p *Plane) BoxOnPlaneSide(mins, maxs vec.Vec3) int {
	if p.Type < 3 {
		if p.Dist <= mins[int(p.Type)] {
			return 1
		}
		if p.Dist >= maxs[int(p.Type)] {
			return 2
		}
		return 3
	}
	d1, d2 := func() (float32, float32) {
		n := p.Normal
		switch p.SignBits {
		case 0:
			d1 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*maxs[2]
			d2 := n[0]*mins[0] + n[1]*mins[1] + n[2]*mins[2]
			return d1, d2
		case 1:
			d1 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*maxs[2]
			d2 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*mins[2]
			return d1, d2
		case 2:
			d1 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*maxs[2]
			d2 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*mins[2]
			return d1, d2
		case 3:
			d1 := n[0]*mins[0] + n[1]*mins[1] + n[2]*maxs[2]
			d2 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*mins[2]
			return d1, d2
		case 4:
			d1 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*mins[2]
			d2 := n[0]*mins[0] + n[1]*mins[1] + n[2]*maxs[2]
			return d1, d2
		case 5:
			d1 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*mins[2]
			d2 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*maxs[2]
			return d1, d2
		case 6:
			d1 := n[0]*maxs[0] + n[1]*mins[1] + n[2]*mins[2]
			d2 := n[0]*mins[0] + n[1]*maxs[1] + n[2]*maxs[2]
			return d1, d2
		case 7:
			d1 := n[0]*mins[0] + n[1]*mins[1] + n[2]*mins[2]
			d2 := n[0]*maxs[0] + n[1]*maxs[1] + n[2]*maxs[2]
			return d1, d2
		default:
			debug.PrintStack()
			slog.Error("BoxOnPlaneSide: Bad signbits", slog.Int("signbits", int(p.SignBits)))
			os.Exit(1)
			return 0, 0
		}
	}()
	sides := 0
	if d1 >= p.Dist {
		sides = 1
	}
	if d2 < p.Dist {
		sides |= 2
	}
	return sides
}
