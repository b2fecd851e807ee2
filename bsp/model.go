// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"ozphys/math/vec"
)

// Material bits of brushes and hits.
const (
	MaterialVoid    = 1 << iota // outside of the world
	MaterialTerrain             // 0x02
	MaterialStruct              // 0x04 solid structure brush
	MaterialSlick               // 0x08
	MaterialLadder              // 0x10
	MaterialWater               // 0x20
	MaterialSea                 // 0x40 water below terrain sea level
	MaterialObject              // 0x80
)

// MaterialMedium are the brush bits that do not block movement.
const MaterialMedium = MaterialWater | MaterialLadder

type EntityMode int

const (
	EntityIgnoring EntityMode = iota
	EntityBlocking
	EntityPushing
	EntityCrushing
)

func (m EntityMode) String() string {
	switch m {
	case EntityIgnoring:
		return "ignoring"
	case EntityBlocking:
		return "blocking"
	case EntityPushing:
		return "pushing"
	case EntityCrushing:
		return "crushing"
	}
	return "unknown"
}

// Entity class flags
const (
	EntityAutoOpen = 1 << iota // cycles open/close by itself
	EntityStartOpen
)

type Plane struct {
	Normal   vec.Vec3
	Dist     float32
	Type     byte // 0,1,2 positive axial in x,y,z; 3 otherwise
	SignBits byte // bit i set if Normal[i] < 0
}

// NoChild is the child index of a collapsed (empty) branch.
const NoChild = 0

type Node struct {
	Plane int
	Front int // >0 node, <0 ^leaf, NoChild
	Back  int
}

type Leaf struct {
	Bounds     vec.Bounds
	FirstBrush int // into LeafBrushes
	NumBrushes int
	FirstFace  int // into LeafFaces
	NumFaces   int
	Cluster    int
}

type Brush struct {
	FirstSide int // into BrushSides
	NumSides  int
	Flags     int
}

// Excluded reports whether the brush was marked out of bounds and takes no
// part in any query.
func (b *Brush) Excluded() bool {
	return b.NumSides == 0
}

// EntityClass is a movable part of a structure (door, platform). Its
// brushes are not part of the tree.
type EntityClass struct {
	Bounds     vec.Bounds
	Move       vec.Vec3
	FirstBrush int // into Brushes
	NumBrushes int
	FirstFace  int
	NumFaces   int
	Mode       EntityMode
	RatioInc   float32 // ratio change per second
	Timeout    float32 // seconds an auto entity waits before it turns
	Flags      int
}

type Vertex struct {
	Pos           vec.Vec3
	TexCoord      [2]float32
	LightmapCoord [2]float32
	Normal        vec.Vec3
}

type Face struct {
	Texture     int
	Lightmap    int
	FirstVertex int
	NumVertices int
	FirstIndex  int
	NumIndices  int
}

// BSP is the immutable geometry of a structure. It is shared read only by
// every structure placed with it.
type BSP struct {
	Name       string
	Bounds     vec.Bounds
	MaxDim     float32
	Life       float32
	Resistance float32

	Planes      []Plane
	Nodes       []Node
	Leaves      []Leaf
	LeafBrushes []int
	LeafFaces   []int
	Brushes     []Brush
	BrushSides  []int
	Entities    []EntityClass

	// render data, only validated
	Textures  []string
	Vertices  []Vertex
	Indices   []int
	Faces     []Face
	Lightmaps [][]byte
}

// Side returns the i-th plane of brush b.
func (m *BSP) Side(b *Brush, i int) *Plane {
	return &m.Planes[m.BrushSides[b.FirstSide+i]]
}

// LeafBrush returns the index of the i-th brush of leaf l.
func (m *BSP) LeafBrush(l *Leaf, i int) int {
	return m.LeafBrushes[l.FirstBrush+i]
}
