// SPDX-License-Identifier: GPL-2.0-or-later

// Package collider answers overlap and sweep queries against the
// structures, the terrain and the objects of a world.
package collider

import (
	"log"
	"runtime/debug"

	"github.com/chewxy/math32"

	"ozphys/bsp"
	"ozphys/conlog"
	"ozphys/math"
	"ozphys/math/vec"
	"ozphys/terra"
	"ozphys/world"
)

// Collider runs queries against one world. It keeps scratch state between
// calls and must not be used concurrently.
type Collider struct {
	w *world.World

	// query in absolute space
	start   vec.Vec3
	end     vec.Vec3
	move    vec.Vec3
	dim     vec.Vec3
	trace   vec.Bounds
	exclObj int

	// current structure and the query in its space
	str      *world.Structure
	strIdx   int
	entity   int
	sStart   vec.Vec3
	sEnd     vec.Vec3
	sDim     vec.Vec3
	sTrace   vec.Bounds
	overlaps bool

	hit   Hit
	media []mediumEntry

	gen          uint32
	structStamps []uint32
	objStamps    []uint32
	brushGen     uint32
	brushStamps  []uint32
}

// mediumEntry is a water or ladder brush entered by the current sweep at
// ratio. The move is kept in the space of the brush. d1 and d2 are the
// water depths at the start and the end of the move.
type mediumEntry struct {
	ratio      float32
	flags      int
	str        int
	m          *bsp.BSP
	b          *bsp.Brush
	start, end vec.Vec3
	dim        vec.Vec3
	d1, d2     float32
}

// contains reports whether the box is still in the brush at ratio.
func (e *mediumEntry) contains(ratio float32) bool {
	p := vec.Lerp(e.start, e.end, ratio)
	for i := 0; i < e.b.NumSides; i++ {
		s := e.m.Side(e.b, i)
		if !inside(s.Normal, s.Dist, p, e.dim) {
			return false
		}
	}
	return true
}

func New(w *world.World) *Collider {
	return &Collider{w: w}
}

func (c *Collider) World() *world.World {
	return c.w
}

func grow(s []uint32, n int) []uint32 {
	if len(s) >= n {
		return s
	}
	return append(s, make([]uint32, n-len(s))...)
}

// nextGen starts a new generation for structure and object dedupe.
func (c *Collider) nextGen() {
	c.gen++
	if c.gen == 0 {
		clear(c.structStamps)
		clear(c.objStamps)
		c.gen = 1
	}
	c.structStamps = grow(c.structStamps, len(c.w.Structs))
	c.objStamps = grow(c.objStamps, len(c.w.Objects))
}

func (c *Collider) nextBrushGen(m *bsp.BSP) {
	c.brushGen++
	if c.brushGen == 0 {
		clear(c.brushStamps)
		c.brushGen = 1
	}
	c.brushStamps = grow(c.brushStamps, len(m.Brushes))
}

func (c *Collider) visitStruct(i int) bool {
	if c.structStamps[i] == c.gen {
		return false
	}
	c.structStamps[i] = c.gen
	return true
}

func (c *Collider) visitObj(i int) bool {
	if c.objStamps[i] == c.gen {
		return false
	}
	c.objStamps[i] = c.gen
	return true
}

func (c *Collider) visitBrush(i int) bool {
	if c.brushStamps[i] == c.brushGen {
		return false
	}
	c.brushStamps[i] = c.brushGen
	return true
}

func (c *Collider) setStruct(i int, s *world.Structure) {
	c.str = s
	c.strIdx = i
	c.entity = -1
	c.sStart = s.ToStructP(c.start)
	c.sEnd = s.ToStructP(c.end)
	c.sDim = s.SwapDimCS(c.dim)
	c.sTrace = s.ToStructBounds(c.trace)
}

func (c *Collider) brush(m *bsp.BSP, i int) *bsp.Brush {
	if i < 0 || i >= len(m.Brushes) {
		debug.PrintStack()
		log.Fatalf("collider: brush %d out of range in %s", i, m.Name)
	}
	return &m.Brushes[i]
}

// eachLeafBrush calls f once for every brush of the leaves in the current
// structure space trace bounds.
func (c *Collider) eachLeafBrush(f func(b *bsp.Brush) bool) {
	m := c.str.BSP
	c.nextBrushGen(m)
	done := false
	m.LeavesForBounds(c.sTrace, func(leaf int) {
		if done {
			return
		}
		l := &m.Leaves[leaf]
		for i := 0; i < l.NumBrushes; i++ {
			bi := m.LeafBrush(l, i)
			if !c.visitBrush(bi) {
				continue
			}
			b := c.brush(m, bi)
			if b.Excluded() {
				continue
			}
			if !f(b) {
				done = true
				return
			}
		}
	})
}

// eachCellStruct calls f for every structure whose bounds overlap the
// trace bounds. Destroyed structures are skipped.
func (c *Collider) eachCellStruct(span world.Span, f func(i int, s *world.Structure) bool) {
	done := false
	c.w.EachCell(span, func(cell *world.Cell) {
		for _, i := range cell.Structs {
			if done || !c.visitStruct(i) {
				continue
			}
			s := c.w.Structs[i]
			if s == nil || s.Destroyed || !s.Bounds.Overlaps(c.trace) {
				continue
			}
			if !f(i, s) {
				done = true
			}
		}
	})
}

func (c *Collider) eachCellObj(span world.Span, f func(i int, o *world.Object) bool) {
	done := false
	c.w.EachCell(span, func(cell *world.Cell) {
		for _, i := range cell.Objects {
			if done || i == c.exclObj || !c.visitObj(i) {
				continue
			}
			o := c.w.Objects[i]
			if o == nil || !o.Has(world.SolidBit) || !o.Bounds().Overlaps(c.trace) {
				continue
			}
			if !f(i, o) {
				done = true
			}
		}
	})
}

func (c *Collider) setQuery(aabb vec.AABB, move vec.Vec3, exclObj int) {
	c.start = aabb.P
	c.end = vec.Add(aabb.P, move)
	c.move = move
	c.dim = aabb.Dim
	c.trace = aabb.Swept(move, 2*Epsilon)
	c.exclObj = exclObj
	c.media = c.media[:0]
	c.nextGen()
}

// TranslatePoint sweeps the point p by move.
func (c *Collider) TranslatePoint(p, move vec.Vec3, exclObj int) Hit {
	return c.TranslateAABB(vec.AABB{P: p}, move, exclObj)
}

// TranslateObj sweeps object o by move, ignoring o itself.
func (c *Collider) TranslateObj(o *world.Object, move vec.Vec3) Hit {
	return c.TranslateAABB(o.AABB(), move, o.Index)
}

// TranslateAABB sweeps aabb by move and returns the earliest contact with
// a structure, an entity, the terrain or a solid object other than
// exclObj. Of contacts with equal ratio the first one found wins. A zero
// move reports ratio 0 if aabb overlaps anything and 1 otherwise.
func (c *Collider) TranslateAABB(aabb vec.AABB, move vec.Vec3, exclObj int) Hit {
	c.setQuery(aabb, move, exclObj)
	c.hit = newHit()
	span := c.w.CellsForBounds(c.trace)

	c.eachCellStruct(span, func(i int, s *world.Structure) bool {
		c.setStruct(i, s)
		c.trimStruct()
		return true
	})
	if c.w.Terra != nil {
		c.trimTerra(c.w.Terra)
	}
	c.eachCellObj(span, func(i int, o *world.Object) bool {
		c.trimObj(i, o)
		return true
	})
	return c.finish()
}

func (c *Collider) finish() Hit {
	h := c.hit
	if math32.IsNaN(h.Ratio) {
		conlog.DPrintf("collider: NaN ratio from %v by %v\n", c.start, c.move)
		h.Ratio = 0
	}
	h.Ratio = math32.Max(0, math32.Min(h.Ratio, 1))
	if !h.Normal.Finite() {
		conlog.DPrintf("collider: bad normal %v from %v by %v\n", h.Normal, c.start, c.move)
		h.Normal = vec.UnitZ
	}
	c.resolveMedia(&h)
	if h.Medium&(bsp.MaterialWater|bsp.MaterialSea) != 0 {
		h.InWater = true
	}
	if h.Medium&bsp.MaterialLadder != 0 {
		h.OnLadder = true
	}
	return h
}

// resolveMedia adds the media entered before the final ratio to h. Depth
// is taken at the end of the completed part of the move.
func (c *Collider) resolveMedia(h *Hit) {
	for i := range c.media {
		e := &c.media[i]
		if e.ratio > h.Ratio {
			continue
		}
		h.Medium |= e.flags
		h.MediumStr = e.str
		if e.flags&bsp.MaterialWater != 0 && e.contains(h.Ratio) {
			h.Depth = math32.Max(h.Depth, math.Lerp(e.d1, e.d2, h.Ratio))
		}
	}
	if c.w.Terra == nil {
		return
	}
	bottom := c.start[2] + h.Ratio*c.move[2] - c.dim[2]
	if bottom < terra.SeaLevel {
		h.Medium |= bsp.MaterialSea
		h.Depth = math32.Max(h.Depth, terra.SeaLevel-bottom)
	}
}

// setHit records a contact found in structure space and reports whether
// it replaced the previous one.
func (c *Collider) setHit(ratio float32, normal vec.Vec3, startSolid bool, material int) bool {
	if startSolid {
		if c.hit.StartSolid {
			return false
		}
	} else if ratio >= c.hit.Ratio {
		return false
	}
	c.hit.Ratio = ratio
	c.hit.StartSolid = startSolid
	c.hit.Normal = normal
	c.hit.Material = material
	c.hit.Obj = -1
	c.hit.Str = -1
	c.hit.Entity = -1
	if c.str != nil {
		c.hit.Normal = c.str.ToAbsoluteCS(normal)
		c.hit.Str = c.strIdx
		c.hit.Entity = c.entity
	}
	return true
}

func (c *Collider) trimStruct() {
	m := c.str.BSP
	c.eachLeafBrush(func(b *bsp.Brush) bool {
		c.trimBrush(m, b, c.sStart, c.sEnd)
		return true
	})
	for i := range c.str.Entities {
		e := &c.str.Entities[i]
		if !e.Class.Bounds.Translate(e.Offset).Overlaps(c.sTrace) {
			continue
		}
		c.entity = i
		start := vec.Sub(c.sStart, e.Offset)
		end := vec.Sub(c.sEnd, e.Offset)
		for k := 0; k < e.Class.NumBrushes; k++ {
			b := c.brush(m, e.Class.FirstBrush+k)
			if b.Excluded() {
				continue
			}
			c.trimBrush(m, b, start, end)
		}
		c.entity = -1
	}
	c.str = nil
}

func (c *Collider) trimBrush(m *bsp.BSP, b *bsp.Brush, start, end vec.Vec3) {
	if b.Flags&bsp.MaterialStruct == 0 {
		c.trimMedium(m, b, start, end)
		return
	}
	cl := newClip()
	for i := 0; i < b.NumSides; i++ {
		p := m.Side(b, i)
		if !cl.plane(p.Normal, p.Dist, start, end, c.sDim) {
			return
		}
	}
	if ratio, normal, startSolid, ok := cl.result(); ok {
		c.setHit(ratio, normal, startSolid, b.Flags)
	}
}

// trimMedium records water and ladder brushes the sweep touches. They
// never block, finish decides which of them count.
func (c *Collider) trimMedium(m *bsp.BSP, b *bsp.Brush, start, end vec.Vec3) {
	if b.Flags&bsp.MaterialMedium == 0 {
		return
	}
	cl := newClip()
	top1, top2 := float32(0), float32(0)
	hasTop := false
	for i := 0; i < b.NumSides; i++ {
		p := m.Side(b, i)
		if !cl.plane(p.Normal, p.Dist, start, end, c.sDim) {
			return
		}
		if p.Normal[2] > 0.5 && !math32.IsInf(p.Dist, 0) {
			// submersion of the lowest point below this side
			o := p.Dist + p.Offset(c.sDim)
			d1, d2 := o-vec.Dot(p.Normal, start), o-vec.Dot(p.Normal, end)
			if !hasTop || d1 < top1 {
				top1 = d1
			}
			if !hasTop || d2 < top2 {
				top2 = d2
			}
			hasTop = true
		}
	}
	ratio, _, _, ok := cl.result()
	if !ok {
		return
	}
	e := mediumEntry{
		ratio: ratio,
		flags: b.Flags & bsp.MaterialMedium,
		str:   c.strIdx,
		m:     m,
		b:     b,
		start: start,
		end:   end,
		dim:   c.sDim,
	}
	if hasTop {
		e.d1, e.d2 = top1, top2
	}
	c.media = append(c.media, e)
}

// terraDepth returns how far the box at p reaches below the highest
// terrain point under it. ok is false off the grid.
func (c *Collider) terraDepth(t *terra.Terrain, p vec.Vec3) (float32, bool) {
	h, ok := t.MaxHeight(vec.AABB{P: p, Dim: c.dim}.Bounds())
	return h - (p[2] - c.dim[2]), ok
}

// terraNormal returns the normal of the triangle below p.
func terraNormal(t *terra.Terrain, p vec.Vec3) vec.Vec3 {
	if !t.Includes(p[0], p[1]) {
		return vec.UnitZ
	}
	ix, iy, fx, fy := t.Local(p[0], p[1])
	return t.Triangles(ix, iy)[t.TriangleIndex(fx, fy)].Normal
}

func (c *Collider) trimTerra(t *terra.Terrain) {
	// Starting below the surface blocks unless the move reduces the depth.
	if d1, ok := c.terraDepth(t, c.start); ok && d1 >= 0 {
		if d2, ok := c.terraDepth(t, c.end); ok && d2 >= d1 {
			c.setHit(0, terraNormal(t, c.start), true, bsp.MaterialTerrain)
			return
		}
	}
	span, ok := t.QuadsForBounds(c.trace)
	if !ok {
		return
	}
	span.Each(func(ix, iy int) {
		if !t.QuadBounds(ix, iy).Overlaps(c.trace) {
			return
		}
		for k, tri := range t.Triangles(ix, iy) {
			offset := vec.Dot(tri.Normal.Abs(), c.dim)
			d1 := vec.Dot(tri.Normal, c.start) - tri.Dist - offset
			d2 := vec.Dot(tri.Normal, c.end) - tri.Dist - offset
			// only moves from above into the surface count
			if d1 < 0 || d2 >= 0 || d1 <= d2 {
				continue
			}
			f := math32.Max(0, (d1-Epsilon)/(d1-d2))
			if f >= c.hit.Ratio {
				continue
			}
			p := vec.Add(c.start, vec.Scale(f, c.move))
			if !t.Includes(p[0], p[1]) {
				continue
			}
			qx, qy, fx, fy := t.Local(p[0], p[1])
			if qx != ix || qy != iy || t.TriangleIndex(fx, fy) != k {
				continue
			}
			c.setHit(f, tri.Normal, false, bsp.MaterialTerrain)
		}
	})
}

func (c *Collider) trimObj(i int, o *world.Object) {
	cl := newClip()
	for k := 0; k < 3; k++ {
		var n vec.Vec3
		n[k] = 1
		if !cl.plane(n, o.P[k]+o.Dim[k], c.start, c.end, c.dim) {
			return
		}
		n[k] = -1
		if !cl.plane(n, o.Dim[k]-o.P[k], c.start, c.end, c.dim) {
			return
		}
	}
	if ratio, normal, startSolid, ok := cl.result(); ok {
		if c.setHit(ratio, normal, startSolid, bsp.MaterialObject) {
			c.hit.Obj = i
		}
	}
}
