// SPDX-License-Identifier: GPL-2.0-or-later

package terra

import (
	"bytes"
	"testing"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"ozphys/math/vec"
)

// slope rises by one per unit in x.
func slope(t *testing.T) *Terrain {
	t.Helper()
	const verts = 5
	h := make([]float32, verts*verts)
	for iy := 0; iy < verts; iy++ {
		for ix := 0; ix < verts; ix++ {
			h[iy*verts+ix] = float32(ix) * 2
		}
	}
	tr, err := FromHeights(verts, 2, h)
	if err != nil {
		t.Fatalf("FromHeights() = %v", err)
	}
	return tr
}

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestFromHeights(t *testing.T) {
	tr := slope(t)
	if tr.Dim != 4 {
		t.Errorf("Dim = %v, want 4", tr.Dim)
	}
	if v := tr.Vertex(0, 0); v != (vec.Vec3{-4, -4, 0}) {
		t.Errorf("Vertex(0, 0) = %v", v)
	}
	s := math32.Sqrt(0.5)
	for _, tri := range tr.Triangles(1, 2) {
		if !near(tri.Normal[0], -s) || !near(tri.Normal[1], 0) || !near(tri.Normal[2], s) {
			t.Errorf("normal = %v, want (-%v, 0, %v)", tri.Normal, s, s)
		}
	}
}

func TestHeight(t *testing.T) {
	tr := slope(t)
	tests := []struct {
		x, y float32
		want float32
		ok   bool
	}{
		{-4, -4, 0, true},
		{0, 0, 4, true},
		{0.5, 1.7, 4.5, true},
		{1.7, 0.5, 5.7, true},
		{4, 4, 8, true},
		{4.1, 0, 0, false},
		{0, -5, 0, false},
	}
	for _, tc := range tests {
		got, ok := tr.Height(tc.x, tc.y)
		if ok != tc.ok || (ok && !near(got, tc.want)) {
			t.Errorf("Height(%v, %v) = %v, %v, want %v, %v", tc.x, tc.y, got, ok, tc.want, tc.ok)
		}
	}
}

func TestQuadsForBounds(t *testing.T) {
	tr := slope(t)
	tests := []struct {
		b    vec.Bounds
		want Span
		ok   bool
	}{
		{vec.Bounds{Mins: vec.Vec3{-1, -1, 0}, Maxs: vec.Vec3{1, 1, 0}}, Span{1, 1, 2, 2}, true},
		{vec.Bounds{Mins: vec.Vec3{-100, -100, 0}, Maxs: vec.Vec3{100, 100, 0}}, Span{0, 0, 3, 3}, true},
		{vec.Bounds{Mins: vec.Vec3{3.5, -4, 0}, Maxs: vec.Vec3{3.9, -3.9, 0}}, Span{3, 0, 3, 0}, true},
		{vec.Bounds{Mins: vec.Vec3{5, 5, 0}, Maxs: vec.Vec3{6, 6, 0}}, Span{}, false},
	}
	for _, tc := range tests {
		got, ok := tr.QuadsForBounds(tc.b)
		if ok != tc.ok || got != tc.want {
			t.Errorf("QuadsForBounds(%v) = %v, %v, want %v, %v", tc.b, got, ok, tc.want, tc.ok)
		}
	}
	n := 0
	Span{0, 0, 1, 2}.Each(func(ix, iy int) { n++ })
	if n != 6 {
		t.Errorf("Each visited %d quads, want 6", n)
	}
}

func TestQuadBounds(t *testing.T) {
	tr := slope(t)
	b := tr.QuadBounds(1, 1)
	want := vec.Bounds{Mins: vec.Vec3{-2, -2, 2}, Maxs: vec.Vec3{0, 0, 4}}
	if b != want {
		t.Errorf("QuadBounds(1, 1) = %v, want %v", b, want)
	}
}

func TestMaxHeight(t *testing.T) {
	tr := slope(t)
	ridge, err := FromHeights(5, 2, []float32{
		0, 0, 4, 0, 0,
		0, 0, 4, 0, 0,
		0, 0, 4, 0, 0,
		0, 0, 4, 0, 0,
		0, 0, 4, 0, 0,
	})
	if err != nil {
		t.Fatalf("FromHeights() = %v", err)
	}
	tests := []struct {
		tr   *Terrain
		b    vec.Bounds
		want float32
		ok   bool
	}{
		{tr, vec.Bounds{Mins: vec.Vec3{-1, -1, 0}, Maxs: vec.Vec3{1, 1, 0}}, 5, true},
		{tr, vec.Bounds{Mins: vec.Vec3{3, 0, 0}, Maxs: vec.Vec3{10, 1, 0}}, 8, true},
		{tr, vec.Bounds{Mins: vec.Vec3{5, 5, 0}, Maxs: vec.Vec3{6, 6, 0}}, 0, false},
		// the ridge crosses the box between its corners
		{ridge, vec.Bounds{Mins: vec.Vec3{-0.5, 0.5, 0}, Maxs: vec.Vec3{0.5, 1.5, 0}}, 4, true},
		{ridge, vec.Bounds{Mins: vec.Vec3{-1.5, 0.5, 0}, Maxs: vec.Vec3{-1, 1.5, 0}}, 2, true},
	}
	for _, tc := range tests {
		got, ok := tc.tr.MaxHeight(tc.b)
		if ok != tc.ok || (ok && !near(got, tc.want)) {
			t.Errorf("MaxHeight(%v) = %v, %v, want %v, %v", tc.b, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	tr := slope(t)
	var buf bytes.Buffer
	if err := Write(&buf, tr); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	got, err := Load(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if got.Verts != tr.Verts || got.Dim != tr.Dim {
		t.Errorf("Load() = %d verts dim %v, want %d dim %v", got.Verts, got.Dim, tr.Verts, tr.Dim)
	}
	if h, _ := got.Height(1.7, 0.5); !near(h, 5.7) {
		t.Errorf("Height(1.7, 0.5) = %v, want 5.7", h)
	}
}

func TestLoadErrors(t *testing.T) {
	tr := slope(t)
	var buf bytes.Buffer
	if err := Write(&buf, tr); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	data := buf.Bytes()

	if _, err := Load(bytes.NewReader(data[:len(data)-4])); !errors.Is(err, ErrFormat) {
		t.Errorf("Load(truncated) = %v, want ErrFormat", err)
	}
	if _, err := Load(bytes.NewReader(append(append([]byte{}, data...), 0))); !errors.Is(err, ErrDimension) {
		t.Errorf("Load(trailing) = %v, want ErrDimension", err)
	}
	if _, err := FromHeights(5, 2, make([]float32, 16)); !errors.Is(err, ErrDimension) {
		t.Errorf("FromHeights(5, 16 heights) = %v, want ErrDimension", err)
	}
	if _, err := FromHeights(1, 2, make([]float32, 1)); !errors.Is(err, ErrDimension) {
		t.Errorf("FromHeights(1) = %v, want ErrDimension", err)
	}

	shifted := *tr
	shifted.Vertices = append([]vec.Vec3{}, tr.Vertices...)
	shifted.Vertices[3][0] += 1
	buf.Reset()
	if err := Write(&buf, &shifted); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	if _, err := Load(bytes.NewReader(buf.Bytes())); !errors.Is(err, ErrDimension) {
		t.Errorf("Load(off grid) = %v, want ErrDimension", err)
	}
}
