// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"ozphys/filesystem"
	"ozphys/math/vec"
)

var (
	// ErrFormat is returned for truncated or inconsistent compiled data.
	ErrFormat = errors.New("bsp: bad format")
)

// LoadFile loads a compiled structure through the filesystem.
func LoadFile(name string) (*BSP, error) {
	b, err := filesystem.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "bsp: reading %s", name)
	}
	m, err := Load(bytes.NewReader(b))
	if err != nil {
		return nil, errors.WithMessage(err, name)
	}
	m.Name = name
	slog.Debug("Loaded BSP", slog.String("name", name),
		slog.Int("nodes", len(m.Nodes)), slog.Int("brushes", len(m.Brushes)),
		slog.Int("entities", len(m.Entities)), slog.Int("depth", m.Depth()))
	return m, nil
}

func readArray[T any](r *bytes.Reader, what string, max int) ([]T, error) {
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, errors.Wrapf(ErrFormat, "%s count: %v", what, err)
	}
	var t T
	size := int64(binary.Size(t))
	if n < 0 || int(n) > max {
		return nil, errors.Wrapf(ErrFormat, "%s count %d out of range", what, n)
	}
	if int64(n)*size > int64(r.Len()) {
		return nil, errors.Wrapf(ErrFormat, "%d %s exceed the %d bytes left", n, what, r.Len())
	}
	a := make([]T, n)
	if err := binary.Read(r, binary.LittleEndian, a); err != nil {
		return nil, errors.Wrapf(ErrFormat, "%s: %v", what, err)
	}
	return a, nil
}

func toInts(a []int32) []int {
	r := make([]int, len(a))
	for i, v := range a {
		r[i] = int(v)
	}
	return r
}

// Load reads a compiled structure. The data is validated completely, any
// inconsistency is reported as ErrFormat.
func Load(rd io.Reader) (*BSP, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "bsp: read")
	}
	r := bytes.NewReader(data)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrapf(ErrFormat, "header: %v", err)
	}
	m := &BSP{
		Bounds:     vec.Bounds{Mins: h.Mins, Maxs: h.Maxs},
		MaxDim:     h.MaxDim,
		Life:       h.Life,
		Resistance: h.Resistance,
	}

	planes, err := readArray[dPlane](r, "planes", maxPlanes)
	if err != nil {
		return nil, err
	}
	nodes, err := readArray[dNode](r, "nodes", maxNodes)
	if err != nil {
		return nil, err
	}
	leaves, err := readArray[dLeaf](r, "leaves", maxLeaves)
	if err != nil {
		return nil, err
	}
	leafBrushes, err := readArray[int32](r, "leaf brushes", maxLeafItems)
	if err != nil {
		return nil, err
	}
	leafFaces, err := readArray[int32](r, "leaf faces", maxLeafItems)
	if err != nil {
		return nil, err
	}
	brushes, err := readArray[dBrush](r, "brushes", maxBrushes)
	if err != nil {
		return nil, err
	}
	brushSides, err := readArray[int32](r, "brush sides", maxBrushSides)
	if err != nil {
		return nil, err
	}
	models, err := readArray[dModel](r, "entity classes", maxModels)
	if err != nil {
		return nil, err
	}
	textures, err := readArray[dTexture](r, "textures", maxTextures)
	if err != nil {
		return nil, err
	}
	vertices, err := readArray[dVertex](r, "vertices", maxVertices)
	if err != nil {
		return nil, err
	}
	indices, err := readArray[int32](r, "indices", maxIndices)
	if err != nil {
		return nil, err
	}
	faces, err := readArray[dFace](r, "faces", maxFaces)
	if err != nil {
		return nil, err
	}
	lightmaps, err := readArray[dLightmap](r, "lightmaps", maxLightmaps)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, errors.Wrapf(ErrFormat, "%d trailing bytes", r.Len())
	}

	m.Planes = make([]Plane, len(planes))
	for i, p := range planes {
		m.Planes[i] = NewPlane(p.Normal, p.Distance)
	}
	m.Nodes = make([]Node, len(nodes))
	for i, n := range nodes {
		m.Nodes[i] = Node{Plane: int(n.Plane), Front: int(n.Front), Back: int(n.Back)}
	}
	m.Leaves = make([]Leaf, len(leaves))
	for i, l := range leaves {
		m.Leaves[i] = Leaf{
			Bounds:     vec.Bounds{Mins: l.Mins, Maxs: l.Maxs},
			FirstBrush: int(l.FirstBrush),
			NumBrushes: int(l.NumBrushes),
			FirstFace:  int(l.FirstFace),
			NumFaces:   int(l.NumFaces),
			Cluster:    int(l.Cluster),
		}
	}
	m.LeafBrushes = toInts(leafBrushes)
	m.LeafFaces = toInts(leafFaces)
	m.Brushes = make([]Brush, len(brushes))
	for i, b := range brushes {
		m.Brushes[i] = Brush{FirstSide: int(b.FirstSide), NumSides: int(b.NumSides), Flags: int(b.Flags)}
	}
	m.BrushSides = toInts(brushSides)
	m.Entities = make([]EntityClass, len(models))
	for i, e := range models {
		m.Entities[i] = EntityClass{
			Bounds:     vec.Bounds{Mins: e.Mins, Maxs: e.Maxs},
			Move:       e.Move,
			FirstBrush: int(e.FirstBrush),
			NumBrushes: int(e.NumBrushes),
			FirstFace:  int(e.FirstFace),
			NumFaces:   int(e.NumFaces),
			Mode:       EntityMode(e.Mode),
			RatioInc:   e.RatioInc,
			Timeout:    e.Timeout,
			Flags:      int(e.Flags),
		}
	}
	m.Textures = make([]string, len(textures))
	for i, t := range textures {
		n := bytes.IndexByte(t.Name[:], 0)
		if n < 0 {
			n = len(t.Name)
		}
		m.Textures[i] = string(t.Name[:n])
	}
	m.Vertices = make([]Vertex, len(vertices))
	for i, v := range vertices {
		m.Vertices[i] = Vertex{
			Pos:           v.Pos,
			TexCoord:      v.TexCoord,
			LightmapCoord: v.LightmapCoord,
			Normal:        v.Normal,
		}
	}
	m.Indices = toInts(indices)
	m.Faces = make([]Face, len(faces))
	for i, f := range faces {
		m.Faces[i] = Face{
			Texture:     int(f.Texture),
			Lightmap:    int(f.Lightmap),
			FirstVertex: int(f.FirstVertex),
			NumVertices: int(f.NumVertices),
			FirstIndex:  int(f.FirstIndex),
			NumIndices:  int(f.NumIndices),
		}
	}
	m.Lightmaps = make([][]byte, len(lightmaps))
	for i := range lightmaps {
		m.Lightmaps[i] = lightmaps[i][:]
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func inRange(first, num, length int) bool {
	return first >= 0 && num >= 0 && first+num <= length
}

// Validate checks every cross reference of the geometry and that the node
// graph is a tree.
func (m *BSP) Validate() error {
	for i, p := range m.Planes {
		if !p.Normal.Finite() || math32.IsNaN(p.Dist) {
			return errors.Wrapf(ErrFormat, "plane %d is not a number", i)
		}
		if l := p.Normal.Length(); math32.Abs(l-1) > 1e-3 {
			return errors.Wrapf(ErrFormat, "plane %d normal has length %v", i, l)
		}
	}
	if len(m.Nodes) != 0 {
		visited := make([]bool, len(m.Nodes))
		var walk func(num int) error
		walk = func(num int) error {
			if num == NoChild {
				return nil
			}
			if num < 0 {
				if ^num >= len(m.Leaves) {
					return errors.Wrapf(ErrFormat, "leaf %d out of range", ^num)
				}
				return nil
			}
			if num >= len(m.Nodes) {
				return errors.Wrapf(ErrFormat, "node %d out of range", num)
			}
			if visited[num] {
				return errors.Wrapf(ErrFormat, "node %d referenced twice", num)
			}
			visited[num] = true
			n := &m.Nodes[num]
			if n.Plane < 0 || n.Plane >= len(m.Planes) {
				return errors.Wrapf(ErrFormat, "node %d plane %d out of range", num, n.Plane)
			}
			if err := walk(n.Front); err != nil {
				return err
			}
			return walk(n.Back)
		}
		// the root is node 0 and may not be referenced as a child
		visited[0] = true
		root := &m.Nodes[0]
		if root.Plane < 0 || root.Plane >= len(m.Planes) {
			return errors.Wrapf(ErrFormat, "root plane %d out of range", root.Plane)
		}
		if err := walk(root.Front); err != nil {
			return err
		}
		if err := walk(root.Back); err != nil {
			return err
		}
		for i, v := range visited {
			if !v {
				return errors.Wrapf(ErrFormat, "node %d unreachable", i)
			}
		}
	}
	for i, l := range m.Leaves {
		if !inRange(l.FirstBrush, l.NumBrushes, len(m.LeafBrushes)) {
			return errors.Wrapf(ErrFormat, "leaf %d brushes out of range", i)
		}
		if !inRange(l.FirstFace, l.NumFaces, len(m.LeafFaces)) {
			return errors.Wrapf(ErrFormat, "leaf %d faces out of range", i)
		}
	}
	for i, b := range m.LeafBrushes {
		if b < 0 || b >= len(m.Brushes) {
			return errors.Wrapf(ErrFormat, "leaf brush %d refers to brush %d", i, b)
		}
	}
	for i, f := range m.LeafFaces {
		if f < 0 || f >= len(m.Faces) {
			return errors.Wrapf(ErrFormat, "leaf face %d refers to face %d", i, f)
		}
	}
	for i, b := range m.Brushes {
		if !inRange(b.FirstSide, b.NumSides, len(m.BrushSides)) {
			return errors.Wrapf(ErrFormat, "brush %d sides out of range", i)
		}
	}
	for i, s := range m.BrushSides {
		if s < 0 || s >= len(m.Planes) {
			return errors.Wrapf(ErrFormat, "brush side %d refers to plane %d", i, s)
		}
	}
	for i, e := range m.Entities {
		if !inRange(e.FirstBrush, e.NumBrushes, len(m.Brushes)) {
			return errors.Wrapf(ErrFormat, "entity class %d brushes out of range", i)
		}
		if !inRange(e.FirstFace, e.NumFaces, len(m.Faces)) {
			return errors.Wrapf(ErrFormat, "entity class %d faces out of range", i)
		}
		if e.Mode < EntityIgnoring || e.Mode > EntityCrushing {
			return errors.Wrapf(ErrFormat, "entity class %d has mode %d", i, e.Mode)
		}
		if !e.Move.Finite() || math32.IsNaN(e.RatioInc) || math32.IsInf(e.RatioInc, 0) ||
			math32.IsNaN(e.Timeout) || math32.IsInf(e.Timeout, 0) {
			return errors.Wrapf(ErrFormat, "entity class %d move is not a number", i)
		}
	}
	for i, f := range m.Faces {
		if !inRange(f.FirstVertex, f.NumVertices, len(m.Vertices)) {
			return errors.Wrapf(ErrFormat, "face %d vertices overflow", i)
		}
		if !inRange(f.FirstIndex, f.NumIndices, len(m.Indices)) {
			return errors.Wrapf(ErrFormat, "face %d indices overflow", i)
		}
		if f.Texture < -1 || f.Texture >= len(m.Textures) {
			return errors.Wrapf(ErrFormat, "face %d texture %d out of range", i, f.Texture)
		}
		if f.Lightmap < -1 || f.Lightmap >= len(m.Lightmaps) {
			return errors.Wrapf(ErrFormat, "face %d lightmap %d out of range", i, f.Lightmap)
		}
	}
	for i, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return errors.Wrapf(ErrFormat, "index %d refers to vertex %d", i, idx)
		}
	}
	return nil
}
