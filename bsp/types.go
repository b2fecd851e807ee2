// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// On disk layout of a compiled structure. All values are little endian and
// each array is preceded by an int32 element count.

type header struct {
	Mins       [3]float32
	Maxs       [3]float32
	MaxDim     float32
	Life       float32
	Resistance float32
}

type dPlane struct {
	Normal   [3]float32
	Distance float32
}

type dNode struct {
	Plane int32
	Front int32 // >0 node, <0 ^leaf, 0 none
	Back  int32
}

type dLeaf struct {
	Mins       [3]float32
	Maxs       [3]float32
	FirstBrush int32 // index into leaf brushes
	NumBrushes int32
	FirstFace  int32 // index into leaf faces
	NumFaces   int32
	Cluster    int32
}

type dBrush struct {
	FirstSide int32 // index into brush sides
	NumSides  int32 // 0 for excluded brushes
	Flags     int32 // material bits
}

type dModel struct {
	Mins       [3]float32
	Maxs       [3]float32
	Move       [3]float32
	FirstBrush int32 // index into brushes
	NumBrushes int32
	FirstFace  int32 // index into faces
	NumFaces   int32
	Mode       int32
	RatioInc   float32
	Timeout    float32
	Flags      int32
}

type dTexture struct {
	Name [64]byte
}

type dVertex struct {
	Pos           [3]float32
	TexCoord      [2]float32
	LightmapCoord [2]float32
	Normal        [3]float32
}

type dFace struct {
	Texture     int32
	Lightmap    int32 // -1 for none
	FirstVertex int32
	NumVertices int32
	FirstIndex  int32
	NumIndices  int32
}

const (
	LightmapDim  = 32
	LightmapBPP  = 3
	LightmapSize = LightmapDim * LightmapDim * LightmapBPP
)

type dLightmap [LightmapSize]byte

const (
	maxPlanes     = 1 << 16
	maxNodes      = 1 << 16
	maxLeaves     = 1 << 16
	maxLeafItems  = 1 << 18
	maxBrushes    = 1 << 16
	maxBrushSides = 1 << 18
	maxModels     = 1 << 10
	maxTextures   = 1 << 12
	maxVertices   = 1 << 20
	maxIndices    = 1 << 22
	maxFaces      = 1 << 18
	maxLightmaps  = 1 << 12
)
