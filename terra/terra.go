// SPDX-License-Identifier: GPL-2.0-or-later

// Package terra implements the height-field terrain. The grid is centered
// on the origin, vertex (ix, iy) lies at x = ix*QuadSize - Dim and
// y = iy*QuadSize - Dim. Every quad is split along the diagonal from its
// lower left to its upper right corner.
package terra

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"ozphys/math/vec"
)

const (
	// SeaLevel is the height below which there is sea water.
	SeaLevel = 0

	MinVerts = 2
	MaxVerts = 1025
)

// Triangle is one half of a terrain quad.
type Triangle struct {
	A, B, C vec.Vec3
	Normal  vec.Vec3
	Dist    float32
}

type Terrain struct {
	Verts    int
	QuadSize float32
	Dim      float32
	// Vertices and Normals are indexed iy*Verts + ix. Normals of the last
	// row and column are unused.
	Vertices []vec.Vec3
	Normals  [][2]vec.Vec3
}

// Span is an inclusive range of quads.
type Span struct {
	MinX, MinY int
	MaxX, MaxY int
}

func (s Span) Each(f func(ix, iy int)) {
	for iy := s.MinY; iy <= s.MaxY; iy++ {
		for ix := s.MinX; ix <= s.MaxX; ix++ {
			f(ix, iy)
		}
	}
}

func (t *Terrain) index(ix, iy int) int {
	return iy*t.Verts + ix
}

func (t *Terrain) Quads() int {
	return t.Verts - 1
}

// Vertex returns the position of vertex (ix, iy).
func (t *Terrain) Vertex(ix, iy int) vec.Vec3 {
	return t.Vertices[t.index(ix, iy)]
}

func triangleNormal(a, b, c vec.Vec3) vec.Vec3 {
	ma, mb, mc := mgl32.Vec3(a), mgl32.Vec3(b), mgl32.Vec3(c)
	n := mb.Sub(ma).Cross(mc.Sub(ma))
	if n.Len() == 0 {
		return vec.UnitZ
	}
	return vec.Vec3(n.Normalize())
}

// FromHeights builds a terrain of verts x verts vertices. heights holds
// one height per vertex, indexed iy*verts + ix.
func FromHeights(verts int, quadSize float32, heights []float32) (*Terrain, error) {
	if err := checkDimension(verts, quadSize); err != nil {
		return nil, err
	}
	if len(heights) != verts*verts {
		return nil, dimensionError(len(heights), verts*verts)
	}
	t := &Terrain{
		Verts:    verts,
		QuadSize: quadSize,
		Dim:      float32(verts-1) * quadSize / 2,
		Vertices: make([]vec.Vec3, verts*verts),
	}
	for iy := 0; iy < verts; iy++ {
		for ix := 0; ix < verts; ix++ {
			i := t.index(ix, iy)
			t.Vertices[i] = vec.Vec3{
				float32(ix)*quadSize - t.Dim,
				float32(iy)*quadSize - t.Dim,
				heights[i],
			}
		}
	}
	t.computeNormals()
	return t, nil
}

func (t *Terrain) computeNormals() {
	t.Normals = make([][2]vec.Vec3, t.Verts*t.Verts)
	for iy := 0; iy < t.Quads(); iy++ {
		for ix := 0; ix < t.Quads(); ix++ {
			v00 := t.Vertex(ix, iy)
			v10 := t.Vertex(ix+1, iy)
			v01 := t.Vertex(ix, iy+1)
			v11 := t.Vertex(ix+1, iy+1)
			t.Normals[t.index(ix, iy)] = [2]vec.Vec3{
				triangleNormal(v00, v10, v11),
				triangleNormal(v00, v11, v01),
			}
		}
	}
}

// Triangles returns both triangles of quad (ix, iy). The first one holds
// the points with local x >= local y.
func (t *Terrain) Triangles(ix, iy int) [2]Triangle {
	v00 := t.Vertex(ix, iy)
	v10 := t.Vertex(ix+1, iy)
	v01 := t.Vertex(ix, iy+1)
	v11 := t.Vertex(ix+1, iy+1)
	n := t.Normals[t.index(ix, iy)]
	return [2]Triangle{
		{A: v00, B: v10, C: v11, Normal: n[0], Dist: vec.Dot(n[0], v00)},
		{A: v00, B: v11, C: v01, Normal: n[1], Dist: vec.Dot(n[1], v00)},
	}
}

func (t *Terrain) quadCoord(c float32) (int, float32) {
	f := (c + t.Dim) / t.QuadSize
	i := int(math32.Floor(f))
	if i < 0 {
		return 0, 0
	}
	if i >= t.Quads() {
		return t.Quads() - 1, 1
	}
	return i, f - float32(i)
}

// QuadIndex returns the quad containing (x, y), clamped to the grid.
func (t *Terrain) QuadIndex(x, y float32) (int, int) {
	ix, _ := t.quadCoord(x)
	iy, _ := t.quadCoord(y)
	return ix, iy
}

// Includes reports whether (x, y) lies above the grid.
func (t *Terrain) Includes(x, y float32) bool {
	return x >= -t.Dim && x <= t.Dim && y >= -t.Dim && y <= t.Dim
}

// Height returns the interpolated terrain height at (x, y). It reports
// false outside of the grid.
func (t *Terrain) Height(x, y float32) (float32, bool) {
	if !t.Includes(x, y) {
		return 0, false
	}
	ix, fx := t.quadCoord(x)
	iy, fy := t.quadCoord(y)
	tri := t.Triangles(ix, iy)[t.TriangleIndex(fx, fy)]
	if tri.Normal[2] == 0 {
		return math32.Max(tri.A[2], math32.Max(tri.B[2], tri.C[2])), true
	}
	// n·p = d solved for z
	return (tri.Dist - tri.Normal[0]*x - tri.Normal[1]*y) / tri.Normal[2], true
}

// TriangleIndex selects the triangle of a quad by local coordinates in
// [0, 1].
func (t *Terrain) TriangleIndex(fx, fy float32) int {
	if fx >= fy {
		return 0
	}
	return 1
}

// Local returns the quad and the local coordinates of (x, y).
func (t *Terrain) Local(x, y float32) (ix, iy int, fx, fy float32) {
	ix, fx = t.quadCoord(x)
	iy, fy = t.quadCoord(y)
	return
}

// QuadsForBounds returns the quads below b. ok is false if b is completely
// outside of the grid.
func (t *Terrain) QuadsForBounds(b vec.Bounds) (Span, bool) {
	if b.Maxs[0] < -t.Dim || b.Mins[0] > t.Dim || b.Maxs[1] < -t.Dim || b.Mins[1] > t.Dim {
		return Span{}, false
	}
	minX, _ := t.quadCoord(b.Mins[0])
	minY, _ := t.quadCoord(b.Mins[1])
	maxX, _ := t.quadCoord(b.Maxs[0])
	maxY, _ := t.quadCoord(b.Maxs[1])
	return Span{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}, true
}

// QuadBounds returns the bounds of quad (ix, iy).
func (t *Terrain) QuadBounds(ix, iy int) vec.Bounds {
	lo, hi := t.Vertex(ix, iy), t.Vertex(ix+1, iy+1)
	b := vec.Bounds{
		Mins: vec.Vec3{lo[0], lo[1], math32.Min(lo[2], hi[2])},
		Maxs: vec.Vec3{hi[0], hi[1], math32.Max(lo[2], hi[2])},
	}
	for _, v := range []vec.Vec3{t.Vertex(ix+1, iy), t.Vertex(ix, iy+1)} {
		b.Mins[2] = math32.Min(b.Mins[2], v[2])
		b.Maxs[2] = math32.Max(b.Maxs[2], v[2])
	}
	return b
}

func (t *Terrain) clampCoord(c float32) float32 {
	return math32.Max(-t.Dim, math32.Min(c, t.Dim))
}

// MaxHeight returns the highest terrain point below the xy footprint of b.
// The footprint is clipped to the grid. ok is false if b is completely
// outside of it.
func (t *Terrain) MaxHeight(b vec.Bounds) (h float32, ok bool) {
	span, ok := t.QuadsForBounds(b)
	if !ok {
		return 0, false
	}
	x0, x1 := t.clampCoord(b.Mins[0]), t.clampCoord(b.Maxs[0])
	y0, y1 := t.clampCoord(b.Mins[1]), t.clampCoord(b.Maxs[1])
	h = -math32.MaxFloat32
	sample := func(x, y float32) {
		if x < x0 || x > x1 || y < y0 || y > y1 {
			return
		}
		if z, ok := t.Height(x, y); ok && z > h {
			h = z
		}
	}
	sample(x0, y0)
	sample(x1, y0)
	sample(x0, y1)
	sample(x1, y1)
	// The surface is linear between the grid lines and diagonals, so the
	// maximum is at a vertex or where one of them crosses the border.
	for iy := span.MinY; iy <= span.MaxY+1; iy++ {
		for ix := span.MinX; ix <= span.MaxX+1; ix++ {
			v := t.Vertex(ix, iy)
			sample(v[0], v[1])
			sample(v[0], y0)
			sample(v[0], y1)
			sample(x0, v[1])
			sample(x1, v[1])
			sample(v[0]+y0-v[1], y0)
			sample(v[0]+y1-v[1], y1)
			sample(x0, v[1]+x0-v[0])
			sample(x1, v[1]+x1-v[0])
		}
	}
	return h, true
}
