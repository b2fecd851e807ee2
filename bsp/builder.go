// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"sort"

	"github.com/chewxy/math32"

	"ozphys/math/vec"
)

const (
	builderLeafBrushes = 2
	builderMaxDepth    = 24
)

type builderBrush struct {
	bounds vec.Bounds
	planes []Plane
	flags  int
}

// Box describes an axis aligned box brush.
type Box struct {
	Mins  vec.Vec3
	Maxs  vec.Vec3
	Flags int
}

// EntitySpec describes an entity class to build.
type EntitySpec struct {
	Move     vec.Vec3
	Mode     EntityMode
	RatioInc float32
	Timeout  float32
	Flags    int
	Boxes    []Box
}

// Builder assembles a BSP from convex brushes. It stands in for the offline
// level compiler: brushes are split into a tree along axial planes and the
// tree is optimised before it is handed out.
type Builder struct {
	life       float32
	resistance float32
	static     []builderBrush
	entities   []EntitySpec
}

func NewBuilder() *Builder {
	return &Builder{life: 100}
}

func (b *Builder) SetLife(life, resistance float32) {
	b.life = life
	b.resistance = resistance
}

func boxPlanes(mins, maxs vec.Vec3) []Plane {
	return []Plane{
		NewPlane(vec.Vec3{1, 0, 0}, maxs[0]),
		NewPlane(vec.Vec3{-1, 0, 0}, -mins[0]),
		NewPlane(vec.Vec3{0, 1, 0}, maxs[1]),
		NewPlane(vec.Vec3{0, -1, 0}, -mins[1]),
		NewPlane(vec.Vec3{0, 0, 1}, maxs[2]),
		NewPlane(vec.Vec3{0, 0, -1}, -mins[2]),
	}
}

// AddBox adds a static box brush and returns its brush index.
func (b *Builder) AddBox(mins, maxs vec.Vec3, flags int) int {
	b.static = append(b.static, builderBrush{
		bounds: vec.Bounds{Mins: mins, Maxs: maxs},
		planes: boxPlanes(mins, maxs),
		flags:  flags,
	})
	return len(b.static) - 1
}

// AddBrush adds a static brush bounded by planes. bounds must enclose the
// brush, it is only used to place the brush in the tree.
func (b *Builder) AddBrush(bounds vec.Bounds, planes []Plane, flags int) int {
	ps := make([]Plane, len(planes))
	for i, p := range planes {
		ps[i] = NewPlane(p.Normal, p.Dist)
	}
	b.static = append(b.static, builderBrush{bounds: bounds, planes: ps, flags: flags})
	return len(b.static) - 1
}

// AddExcluded adds a brush without sides, as left behind by the compiler
// for brushes outside of the structure bounds.
func (b *Builder) AddExcluded(bounds vec.Bounds, flags int) int {
	b.static = append(b.static, builderBrush{bounds: bounds, flags: flags})
	return len(b.static) - 1
}

// AddEntity adds an entity class and returns its index.
func (b *Builder) AddEntity(e EntitySpec) int {
	b.entities = append(b.entities, e)
	return len(b.entities) - 1
}

func (m *BSP) addPlane(p Plane, cache map[Plane]int) int {
	p = NewPlane(p.Normal, p.Dist)
	if i, ok := cache[p]; ok {
		return i
	}
	m.Planes = append(m.Planes, p)
	cache[p] = len(m.Planes) - 1
	return len(m.Planes) - 1
}

func (m *BSP) addBrush(bb builderBrush, cache map[Plane]int) {
	first := len(m.BrushSides)
	for _, p := range bb.planes {
		m.BrushSides = append(m.BrushSides, m.addPlane(p, cache))
	}
	m.Brushes = append(m.Brushes, Brush{
		FirstSide: first,
		NumSides:  len(bb.planes),
		Flags:     bb.flags,
	})
}

// Build compiles and optimises the tree.
func (b *Builder) Build() *BSP {
	m := &BSP{
		Life:       b.life,
		Resistance: b.resistance,
	}
	cache := make(map[Plane]int)
	first := true
	grow := func(bounds vec.Bounds) {
		if first {
			m.Bounds = bounds
			first = false
			return
		}
		m.Bounds = m.Bounds.Union(bounds)
	}

	for _, bb := range b.static {
		m.addBrush(bb, cache)
		grow(bb.bounds)
	}
	for _, e := range b.entities {
		ec := EntityClass{
			Move:       e.Move,
			FirstBrush: len(m.Brushes),
			NumBrushes: len(e.Boxes),
			Mode:       e.Mode,
			RatioInc:   e.RatioInc,
			Timeout:    e.Timeout,
			Flags:      e.Flags,
		}
		for i, box := range e.Boxes {
			bounds := vec.Bounds{Mins: box.Mins, Maxs: box.Maxs}
			if i == 0 {
				ec.Bounds = bounds
			} else {
				ec.Bounds = ec.Bounds.Union(bounds)
			}
			m.addBrush(builderBrush{bounds: bounds, planes: boxPlanes(box.Mins, box.Maxs), flags: box.Flags}, cache)
		}
		if len(e.Boxes) != 0 {
			grow(ec.Bounds)
			grow(ec.Bounds.Translate(e.Move))
		}
		m.Entities = append(m.Entities, ec)
	}
	for i := 0; i < 3; i++ {
		m.MaxDim = math32.Max(m.MaxDim, math32.Max(math32.Abs(m.Bounds.Mins[i]), math32.Abs(m.Bounds.Maxs[i])))
	}

	if len(b.static) != 0 {
		brushes := make([]int, len(b.static))
		for i := range brushes {
			brushes[i] = i
		}
		m.Nodes = append(m.Nodes, Node{})
		if root := b.split(m, cache, brushes, m.Bounds, 0); root < 0 {
			// everything fits into one leaf
			m.Nodes = nil
		}
	}
	Optimise(m)
	return m
}

func intersect(a, b vec.Bounds) (vec.Bounds, bool) {
	r := a
	for i := 0; i < 3; i++ {
		r.Mins[i] = math32.Max(a.Mins[i], b.Mins[i])
		r.Maxs[i] = math32.Min(a.Maxs[i], b.Maxs[i])
		if r.Mins[i] > r.Maxs[i] {
			return r, false
		}
	}
	return r, true
}

func (b *Builder) leaf(m *BSP, brushes []int, region vec.Bounds) int {
	l := Leaf{
		FirstBrush: len(m.LeafBrushes),
		NumBrushes: len(brushes),
		Cluster:    len(m.Leaves),
		Bounds:     region,
	}
	first := true
	for _, i := range brushes {
		m.LeafBrushes = append(m.LeafBrushes, i)
		bounds, ok := intersect(b.static[i].bounds, region)
		if !ok {
			bounds = b.static[i].bounds
		}
		if first {
			l.Bounds = bounds
			first = false
		} else {
			l.Bounds = l.Bounds.Union(bounds)
		}
	}
	m.Leaves = append(m.Leaves, l)
	return ^(len(m.Leaves) - 1)
}

// split returns the child reference of the subtree holding brushes. The
// first call fills the reserved root slot 0.
func (b *Builder) split(m *BSP, cache map[Plane]int, brushes []int, region vec.Bounds, depth int) int {
	if len(brushes) <= builderLeafBrushes || depth >= builderMaxDepth {
		return b.leaf(m, brushes, region)
	}
	size := vec.Sub(region.Maxs, region.Mins)
	axes := []int{0, 1, 2}
	sort.SliceStable(axes, func(i, j int) bool { return size[axes[i]] > size[axes[j]] })

	for _, axis := range axes {
		centers := make([]float32, len(brushes))
		for i, br := range brushes {
			c := b.static[br].bounds.Center()
			centers[i] = c[axis]
		}
		sort.Slice(centers, func(i, j int) bool { return centers[i] < centers[j] })
		dist := centers[len(centers)/2]
		if dist <= region.Mins[axis] || dist >= region.Maxs[axis] {
			continue
		}
		var front, back []int
		for _, br := range brushes {
			bounds := b.static[br].bounds
			if bounds.Maxs[axis] >= dist {
				front = append(front, br)
			}
			if bounds.Mins[axis] <= dist {
				back = append(back, br)
			}
		}
		if len(front) == len(brushes) && len(back) == len(brushes) {
			continue
		}
		var normal vec.Vec3
		normal[axis] = 1
		num := 0
		if depth != 0 {
			m.Nodes = append(m.Nodes, Node{})
			num = len(m.Nodes) - 1
		}
		plane := m.addPlane(NewPlane(normal, dist), cache)

		frontRegion, backRegion := region, region
		frontRegion.Mins[axis] = dist
		backRegion.Maxs[axis] = dist
		f := b.split(m, cache, front, frontRegion, depth+1)
		k := b.split(m, cache, back, backRegion, depth+1)
		m.Nodes[num] = Node{Plane: plane, Front: f, Back: k}
		return num
	}
	return b.leaf(m, brushes, region)
}
