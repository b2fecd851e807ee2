// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"ozphys/math/vec"
)

// PointLeaf walks from the root to the leaf containing p. It returns false
// if p lies in a collapsed (empty) branch.
func (m *BSP) PointLeaf(p vec.Vec3) (int, bool) {
	if len(m.Nodes) == 0 {
		return 0, len(m.Leaves) != 0
	}
	num := 0
	for {
		node := &m.Nodes[num]
		if m.Planes[node.Plane].Distance(p) >= 0 {
			num = node.Front
		} else {
			num = node.Back
		}
		if num == NoChild {
			return 0, false
		}
		if num < 0 {
			return ^num, true
		}
	}
}

// LeavesForBounds calls f for every leaf the box b may touch.
func (m *BSP) LeavesForBounds(b vec.Bounds, f func(leaf int)) {
	if len(m.Nodes) == 0 {
		if len(m.Leaves) != 0 {
			f(0)
		}
		return
	}
	m.leavesForBounds(0, b, f)
}

// PointLeafRadius calls f for every leaf within r of p.
func (m *BSP) PointLeafRadius(p vec.Vec3, r float32, f func(leaf int)) {
	m.LeavesForBounds(vec.AABB{P: p, Dim: vec.Vec3{r, r, r}}.Bounds(), f)
}

func (m *BSP) leavesForBounds(num int, b vec.Bounds, f func(int)) {
	for {
		if num < 0 {
			f(^num)
			return
		}
		node := &m.Nodes[num]
		sides := m.Planes[node.Plane].BoxOnPlaneSide(b.Mins, b.Maxs)
		switch sides {
		case 1:
			num = node.Front
		case 2:
			num = node.Back
		default:
			if node.Front != NoChild {
				m.leavesForBounds(node.Front, b, f)
			}
			num = node.Back
		}
		if num == NoChild {
			return
		}
	}
}

// Depth returns the depth of the deepest leaf.
func (m *BSP) Depth() int {
	if len(m.Nodes) == 0 {
		return 0
	}
	var depth func(num int) int
	depth = func(num int) int {
		if num <= 0 {
			return 0
		}
		n := &m.Nodes[num]
		return 1 + max(depth(n.Front), depth(n.Back))
	}
	n := &m.Nodes[0]
	return 1 + max(depth(n.Front), depth(n.Back))
}
