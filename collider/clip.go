// SPDX-License-Identifier: GPL-2.0-or-later

package collider

import (
	"github.com/chewxy/math32"

	"ozphys/math/vec"
)

// Epsilon is the distance kept between a moved box and what it hits.
const Epsilon = 0.002

// clip intersects a move with a convex set of half spaces, one side at a
// time. d1 and d2 are the distances of the start and end position to a
// side, positive in front (outside).
type clip struct {
	enter    float32
	leave    float32
	normal   vec.Vec3
	startOut bool
	missed   bool

	maxStart    float32
	startNormal vec.Vec3
}

func newClip() clip {
	return clip{
		enter:       -1,
		leave:       1,
		maxStart:    -math32.MaxFloat32,
		startNormal: vec.UnitZ,
	}
}

// side adds a half space and returns false once the move can not touch
// the set anymore.
func (c *clip) side(d1, d2 float32, n vec.Vec3) bool {
	if d1 > 0 {
		c.startOut = true
	}
	if d1 > c.maxStart {
		c.maxStart = d1
		c.startNormal = n
	}
	// completely in front of this side
	if d1 > 0 && (d2 >= Epsilon || d2 >= d1) {
		c.missed = true
		return false
	}
	// completely behind this side
	if d1 <= 0 && d2 <= 0 {
		return true
	}
	if d1 > d2 {
		// entering, d1 > d2 so the division is safe
		f := (d1 - Epsilon) / (d1 - d2)
		if f < 0 {
			f = 0
		}
		if f > c.enter {
			c.enter = f
			c.normal = n
		}
	} else {
		// leaving, d2 > d1 here
		f := (d1 + Epsilon) / (d1 - d2)
		if f > 1 {
			f = 1
		}
		if f < c.leave {
			c.leave = f
		}
	}
	return true
}

// plane adds the half space n·p <= dist for the box with half extents dim
// moving from start to end. Infinite distances are decided without any
// arithmetic: +Inf never excludes, -Inf always does.
func (c *clip) plane(n vec.Vec3, dist float32, start, end, dim vec.Vec3) bool {
	if math32.IsInf(dist, 1) {
		return true
	}
	if math32.IsInf(dist, -1) {
		c.missed = true
		return false
	}
	offset := vec.Dot(n.Abs(), dim)
	d1 := vec.Dot(n, start) - dist - offset
	d2 := vec.Dot(n, end) - dist - offset
	return c.side(d1, d2, n)
}

// result returns the ratio of the first contact. ok is false if the move
// does not touch the set. Starting inside reports ratio 0 with the normal
// of the side closest to the outside.
func (c *clip) result() (ratio float32, normal vec.Vec3, startSolid, ok bool) {
	if c.missed {
		return 1, vec.Vec3{}, false, false
	}
	if !c.startOut {
		return 0, c.startNormal, true, true
	}
	if c.enter > -1 && c.enter < c.leave {
		return c.enter, c.normal, false, true
	}
	return 1, vec.Vec3{}, false, false
}

// inside reports whether the box with half extents dim at p touches the
// half space n·p <= dist.
func inside(n vec.Vec3, dist float32, p, dim vec.Vec3) bool {
	if math32.IsInf(dist, 1) {
		return true
	}
	if math32.IsInf(dist, -1) {
		return false
	}
	return vec.Dot(n, p)-dist-vec.Dot(n.Abs(), dim) <= 0
}
