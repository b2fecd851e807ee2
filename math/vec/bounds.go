// SPDX-License-Identifier: GPL-2.0-or-later

package vec

// Bounds is an axis aligned box given by its corners.
type Bounds struct {
	Mins Vec3
	Maxs Vec3
}

// AABB is an axis aligned box given by its center and half extents.
type AABB struct {
	P   Vec3
	Dim Vec3
}

func (a AABB) Bounds() Bounds {
	return Bounds{Sub(a.P, a.Dim), Add(a.P, a.Dim)}
}

// Swept returns the bounds of the whole move of a, expanded by eps.
func (a AABB) Swept(move Vec3, eps float32) Bounds {
	e := Vec3{eps, eps, eps}
	end := Add(a.P, move)
	mins, maxs := MinMax(a.P, end)
	return Bounds{
		Sub(Sub(mins, a.Dim), e),
		Add(Add(maxs, a.Dim), e),
	}
}

func (b Bounds) Overlaps(o Bounds) bool {
	return b.Mins[0] <= o.Maxs[0] && b.Maxs[0] >= o.Mins[0] &&
		b.Mins[1] <= o.Maxs[1] && b.Maxs[1] >= o.Mins[1] &&
		b.Mins[2] <= o.Maxs[2] && b.Maxs[2] >= o.Mins[2]
}

// Includes reports whether p lies inside b (borders included).
func (b Bounds) Includes(p Vec3) bool {
	return b.Mins[0] <= p[0] && p[0] <= b.Maxs[0] &&
		b.Mins[1] <= p[1] && p[1] <= b.Maxs[1] &&
		b.Mins[2] <= p[2] && p[2] <= b.Maxs[2]
}

func (b Bounds) Expand(eps float32) Bounds {
	e := Vec3{eps, eps, eps}
	return Bounds{Sub(b.Mins, e), Add(b.Maxs, e)}
}

func (b Bounds) Translate(v Vec3) Bounds {
	return Bounds{Add(b.Mins, v), Add(b.Maxs, v)}
}

func (b Bounds) Union(o Bounds) Bounds {
	mins, _ := MinMax(b.Mins, o.Mins)
	_, maxs := MinMax(b.Maxs, o.Maxs)
	return Bounds{mins, maxs}
}

func (b Bounds) Center() Vec3 {
	return Lerp(b.Mins, b.Maxs, 0.5)
}
