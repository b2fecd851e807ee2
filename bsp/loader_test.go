// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"ozphys/math/vec"
)

func encode(t *testing.T, m *BSP) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	return buf.Bytes()
}

func TestLoadRoundTrip(t *testing.T) {
	m := testModel()
	m.Textures = []string{"stone", "metal"}
	m.Vertices = []Vertex{{Pos: vec.Vec3{0, 0, 0}}, {Pos: vec.Vec3{1, 0, 0}}, {Pos: vec.Vec3{0, 1, 0}}}
	m.Indices = []int{0, 1, 2}
	m.Faces = []Face{{Texture: 1, Lightmap: -1, NumVertices: 3, NumIndices: 3}}
	m.LeafFaces = []int{0}
	m.Leaves[0].FirstFace = 0
	m.Leaves[0].NumFaces = 1
	m.Lightmaps = [][]byte{make([]byte, LightmapSize)}

	got, err := Load(bytes.NewReader(encode(t, m)))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	checks := []struct {
		name      string
		got, want interface{}
	}{
		{"bounds", got.Bounds, m.Bounds},
		{"life", got.Life, m.Life},
		{"planes", got.Planes, m.Planes},
		{"nodes", got.Nodes, m.Nodes},
		{"leaves", got.Leaves, m.Leaves},
		{"leaf brushes", got.LeafBrushes, m.LeafBrushes},
		{"brushes", got.Brushes, m.Brushes},
		{"brush sides", got.BrushSides, m.BrushSides},
		{"entities", got.Entities, m.Entities},
		{"textures", got.Textures, m.Textures},
		{"faces", got.Faces, m.Faces},
		{"indices", got.Indices, m.Indices},
		{"lightmaps", got.Lightmaps, m.Lightmaps},
	}
	for _, c := range checks {
		if !reflect.DeepEqual(c.got, c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadTruncated(t *testing.T) {
	data := encode(t, testModel())
	for _, n := range []int{0, 3, 20, len(data) / 3, len(data) / 2, len(data) - 1} {
		if _, err := Load(bytes.NewReader(data[:n])); !errors.Is(err, ErrFormat) {
			t.Errorf("Load(%d of %d bytes) = %v, want ErrFormat", n, len(data), err)
		}
	}
	if _, err := Load(bytes.NewReader(append(data, 0))); !errors.Is(err, ErrFormat) {
		t.Errorf("Load(trailing byte) = %v, want ErrFormat", err)
	}
}

func TestLoadRejectsBadReferences(t *testing.T) {
	tests := []struct {
		name   string
		modify func(m *BSP)
	}{
		{"node plane", func(m *BSP) { m.Nodes[0].Plane = len(m.Planes) }},
		{"node child", func(m *BSP) { m.Nodes[0].Front = len(m.Nodes) }},
		{"leaf child", func(m *BSP) { m.Nodes[0].Back = ^len(m.Leaves) }},
		{"cycle", func(m *BSP) {
			last := len(m.Nodes) - 1
			m.Nodes[last].Front = last
		}},
		{"unreachable", func(m *BSP) { m.Nodes = append(m.Nodes, Node{}) }},
		{"leaf brush", func(m *BSP) { m.LeafBrushes[0] = len(m.Brushes) }},
		{"leaf range", func(m *BSP) { m.Leaves[0].NumBrushes = len(m.LeafBrushes) + 1 }},
		{"brush side", func(m *BSP) { m.BrushSides[0] = -1 }},
		{"brush range", func(m *BSP) { m.Brushes[0].FirstSide = len(m.BrushSides) }},
		{"entity range", func(m *BSP) { m.Entities[0].NumBrushes = len(m.Brushes) }},
		{"entity mode", func(m *BSP) { m.Entities[0].Mode = EntityCrushing + 1 }},
		{"entity move", func(m *BSP) { m.Entities[0].Move[1] = math32.NaN() }},
		{"plane normal", func(m *BSP) { m.Planes[0].Normal = vec.Vec3{2, 0, 0} }},
		{"plane distance", func(m *BSP) { m.Planes[0].Dist = math32.NaN() }},
	}
	for _, tc := range tests {
		m := testModel()
		tc.modify(m)
		if _, err := Load(bytes.NewReader(encode(t, m))); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: Load() = %v, want ErrFormat", tc.name, err)
		}
	}
}

func TestLoadInfinitePlane(t *testing.T) {
	m := testModel()
	m.Planes[0].Dist = math32.Inf(1)
	if _, err := Load(bytes.NewReader(encode(t, m))); err != nil {
		t.Errorf("Load() = %v, want success for an infinite distance", err)
	}
}

func TestBoxOnPlaneSide(t *testing.T) {
	mins, maxs := vec.Vec3{-1, -1, -1}, vec.Vec3{1, 1, 1}
	s := math32.Sqrt(0.5)
	tests := []struct {
		p    Plane
		want int
	}{
		{NewPlane(vec.Vec3{1, 0, 0}, -2), 1},
		{NewPlane(vec.Vec3{1, 0, 0}, 2), 2},
		{NewPlane(vec.Vec3{1, 0, 0}, 0), 3},
		{NewPlane(vec.Vec3{0, 0, -1}, 2), 2},
		{NewPlane(vec.Vec3{0, 0, -1}, -2), 1},
		{NewPlane(vec.Vec3{s, s, 0}, 2), 2},
		{NewPlane(vec.Vec3{s, -s, 0}, -2), 1},
		{NewPlane(vec.Vec3{s, s, 0}, 0.5), 3},
	}
	for _, tc := range tests {
		if got := tc.p.BoxOnPlaneSide(mins, maxs); got != tc.want {
			t.Errorf("BoxOnPlaneSide(%v, %v) = %d, want %d", tc.p.Normal, tc.p.Dist, got, tc.want)
		}
	}
}

func TestPlaneDistance(t *testing.T) {
	p := NewPlane(vec.Vec3{0, 0, 1}, 2)
	if p.Type != 2 {
		t.Errorf("Type = %d, want 2", p.Type)
	}
	if got := p.Distance(vec.Vec3{5, 5, 5}); got != 3 {
		t.Errorf("Distance = %v, want 3", got)
	}
	n := NewPlane(vec.Vec3{0, -1, 0}, 1)
	if n.Type != 3 || n.SignBits != 2 {
		t.Errorf("Type, SignBits = %d, %d, want 3, 2", n.Type, n.SignBits)
	}
	if got := n.Distance(vec.Vec3{0, -3, 0}); got != 2 {
		t.Errorf("Distance = %v, want 2", got)
	}
	if got := n.Offset(vec.Vec3{1, 2, 3}); got != 2 {
		t.Errorf("Offset = %v, want 2", got)
	}
}
