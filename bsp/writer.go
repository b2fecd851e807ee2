// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

func writeArray[T any](w io.Writer, a []T) error {
	if err := binary.Write(w, binary.LittleEndian, int32(len(a))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, a)
}

func toInt32s(a []int) []int32 {
	r := make([]int32, len(a))
	for i, v := range a {
		r[i] = int32(v)
	}
	return r
}

// Write stores m in the compiled layout read by Load.
func Write(w io.Writer, m *BSP) error {
	h := header{
		Mins:       m.Bounds.Mins,
		Maxs:       m.Bounds.Maxs,
		MaxDim:     m.MaxDim,
		Life:       m.Life,
		Resistance: m.Resistance,
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "bsp: write header")
	}

	planes := make([]dPlane, len(m.Planes))
	for i, p := range m.Planes {
		planes[i] = dPlane{Normal: p.Normal, Distance: p.Dist}
	}
	nodes := make([]dNode, len(m.Nodes))
	for i, n := range m.Nodes {
		nodes[i] = dNode{Plane: int32(n.Plane), Front: int32(n.Front), Back: int32(n.Back)}
	}
	leaves := make([]dLeaf, len(m.Leaves))
	for i, l := range m.Leaves {
		leaves[i] = dLeaf{
			Mins:       l.Bounds.Mins,
			Maxs:       l.Bounds.Maxs,
			FirstBrush: int32(l.FirstBrush),
			NumBrushes: int32(l.NumBrushes),
			FirstFace:  int32(l.FirstFace),
			NumFaces:   int32(l.NumFaces),
			Cluster:    int32(l.Cluster),
		}
	}
	brushes := make([]dBrush, len(m.Brushes))
	for i, b := range m.Brushes {
		brushes[i] = dBrush{FirstSide: int32(b.FirstSide), NumSides: int32(b.NumSides), Flags: int32(b.Flags)}
	}
	models := make([]dModel, len(m.Entities))
	for i, e := range m.Entities {
		models[i] = dModel{
			Mins:       e.Bounds.Mins,
			Maxs:       e.Bounds.Maxs,
			Move:       e.Move,
			FirstBrush: int32(e.FirstBrush),
			NumBrushes: int32(e.NumBrushes),
			FirstFace:  int32(e.FirstFace),
			NumFaces:   int32(e.NumFaces),
			Mode:       int32(e.Mode),
			RatioInc:   e.RatioInc,
			Timeout:    e.Timeout,
			Flags:      int32(e.Flags),
		}
	}
	textures := make([]dTexture, len(m.Textures))
	for i, t := range m.Textures {
		copy(textures[i].Name[:len(textures[i].Name)-1], t)
	}
	vertices := make([]dVertex, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = dVertex{
			Pos:           v.Pos,
			TexCoord:      v.TexCoord,
			LightmapCoord: v.LightmapCoord,
			Normal:        v.Normal,
		}
	}
	faces := make([]dFace, len(m.Faces))
	for i, f := range m.Faces {
		faces[i] = dFace{
			Texture:     int32(f.Texture),
			Lightmap:    int32(f.Lightmap),
			FirstVertex: int32(f.FirstVertex),
			NumVertices: int32(f.NumVertices),
			FirstIndex:  int32(f.FirstIndex),
			NumIndices:  int32(f.NumIndices),
		}
	}
	lightmaps := make([]dLightmap, len(m.Lightmaps))
	for i, l := range m.Lightmaps {
		copy(lightmaps[i][:], l)
	}

	steps := []struct {
		what string
		f    func() error
	}{
		{"planes", func() error { return writeArray(w, planes) }},
		{"nodes", func() error { return writeArray(w, nodes) }},
		{"leaves", func() error { return writeArray(w, leaves) }},
		{"leaf brushes", func() error { return writeArray(w, toInt32s(m.LeafBrushes)) }},
		{"leaf faces", func() error { return writeArray(w, toInt32s(m.LeafFaces)) }},
		{"brushes", func() error { return writeArray(w, brushes) }},
		{"brush sides", func() error { return writeArray(w, toInt32s(m.BrushSides)) }},
		{"entity classes", func() error { return writeArray(w, models) }},
		{"textures", func() error { return writeArray(w, textures) }},
		{"vertices", func() error { return writeArray(w, vertices) }},
		{"indices", func() error { return writeArray(w, toInt32s(m.Indices)) }},
		{"faces", func() error { return writeArray(w, faces) }},
		{"lightmaps", func() error { return writeArray(w, lightmaps) }},
	}
	for _, s := range steps {
		if err := s.f(); err != nil {
			return errors.Wrapf(err, "bsp: write %s", s.what)
		}
	}
	return nil
}
