// SPDX-License-Identifier: GPL-2.0-or-later

package collider

import (
	"ozphys/bsp"
	"ozphys/math/vec"
	"ozphys/world"
)

func (c *Collider) setOverlapQuery(aabb vec.AABB, exclObj int) {
	c.setQuery(aabb, vec.Vec3{}, exclObj)
	c.trace = aabb.Bounds()
}

func (c *Collider) overlapsBrush(m *bsp.BSP, b *bsp.Brush, p vec.Vec3) bool {
	if b.Flags&bsp.MaterialStruct == 0 {
		return false
	}
	for i := 0; i < b.NumSides; i++ {
		s := m.Side(b, i)
		if !inside(s.Normal, s.Dist, p, c.sDim) {
			return false
		}
	}
	return true
}

func (c *Collider) overlapsEntity(i int) bool {
	e := &c.str.Entities[i]
	if !e.Class.Bounds.Translate(e.Offset).Overlaps(c.sTrace) {
		return false
	}
	m := c.str.BSP
	p := vec.Sub(c.sStart, e.Offset)
	for k := 0; k < e.Class.NumBrushes; k++ {
		b := c.brush(m, e.Class.FirstBrush+k)
		if !b.Excluded() && c.overlapsBrush(m, b, p) {
			return true
		}
	}
	return false
}

func (c *Collider) overlapsStruct() bool {
	m := c.str.BSP
	found := false
	c.eachLeafBrush(func(b *bsp.Brush) bool {
		found = c.overlapsBrush(m, b, c.sStart)
		return !found
	})
	if found {
		return true
	}
	for i := range c.str.Entities {
		if c.overlapsEntity(i) {
			return true
		}
	}
	return false
}

func (c *Collider) overlapsStructs(span world.Span) bool {
	found := false
	c.eachCellStruct(span, func(i int, s *world.Structure) bool {
		c.setStruct(i, s)
		found = c.overlapsStruct()
		c.str = nil
		return !found
	})
	return found
}

func (c *Collider) overlapsObjs(span world.Span) bool {
	found := false
	c.eachCellObj(span, func(i int, o *world.Object) bool {
		found = true
		return false
	})
	return found
}

func (c *Collider) overlapsTerra() bool {
	t := c.w.Terra
	if t == nil {
		return false
	}
	d, ok := c.terraDepth(t, c.start)
	return ok && d >= 0
}

// OverlapsPoint reports whether p lies inside of anything solid other than
// object exclObj.
func (c *Collider) OverlapsPoint(p vec.Vec3, exclObj int) bool {
	return c.OverlapsAABB(vec.AABB{P: p}, exclObj)
}

// OverlapsAABB reports whether aabb touches a structure, an entity, the
// terrain or a solid object other than exclObj. The terrain counts if it
// rises to the bottom of the box anywhere below it.
func (c *Collider) OverlapsAABB(aabb vec.AABB, exclObj int) bool {
	c.setOverlapQuery(aabb, exclObj)
	span := c.w.CellsForBounds(c.trace)
	return c.overlapsStructs(span) || c.overlapsTerra() || c.overlapsObjs(span)
}

// OverlapsOSO is OverlapsAABB without the terrain.
func (c *Collider) OverlapsOSO(aabb vec.AABB, exclObj int) bool {
	c.setOverlapQuery(aabb, exclObj)
	span := c.w.CellsForBounds(c.trace)
	return c.overlapsStructs(span) || c.overlapsObjs(span)
}

// OverlapsEntity reports whether aabb touches the brushes of entity ent of
// structure str.
func (c *Collider) OverlapsEntity(aabb vec.AABB, str, ent int) bool {
	s := c.w.Structs[str]
	c.setOverlapQuery(aabb, -1)
	c.setStruct(str, s)
	defer func() { c.str = nil }()
	return c.overlapsEntity(ent)
}

// GetEntityOverlaps appends the solid objects touching entity ent of
// structure str, grown by margin, to objs.
func (c *Collider) GetEntityOverlaps(str, ent int, margin float32, objs *[]int) {
	s := c.w.Structs[str]
	bounds := s.EntityBounds(ent).Expand(margin)
	c.setOverlapQuery(vec.AABB{P: bounds.Center(), Dim: vec.Scale(0.5, vec.Sub(bounds.Maxs, bounds.Mins))}, -1)
	span := c.w.CellsForBounds(c.trace)
	c.eachCellObj(span, func(i int, o *world.Object) bool {
		c.start = o.P
		c.dim = vec.Add(o.Dim, vec.Vec3{margin, margin, margin})
		c.trace = o.Bounds().Expand(margin)
		c.setStruct(str, s)
		if c.overlapsEntity(ent) {
			*objs = append(*objs, i)
		}
		c.str = nil
		c.trace = bounds
		return true
	})
}

// GetOverlaps appends the structures and objects whose bounds touch aabb
// to structs and objs. Either may be nil.
func (c *Collider) GetOverlaps(aabb vec.AABB, exclObj int, structs, objs *[]int) {
	c.setOverlapQuery(aabb, exclObj)
	span := c.w.CellsForBounds(c.trace)
	if structs != nil {
		c.eachCellStruct(span, func(i int, s *world.Structure) bool {
			*structs = append(*structs, i)
			return true
		})
	}
	if objs != nil {
		c.eachCellObj(span, func(i int, o *world.Object) bool {
			*objs = append(*objs, i)
			return true
		})
	}
}
