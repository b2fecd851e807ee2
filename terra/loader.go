// SPDX-License-Identifier: GPL-2.0-or-later

package terra

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
	ErrFormat    = errors.New("terra: bad format")
	ErrDimension = errors.New("terra: dimension mismatch")
)

type header struct {
	Verts    int32
	QuadSize float32
}

func dimensionError(got, want int) error {
	return errors.Wrapf(ErrDimension, "got %d values, want %d", got, want)
}

func checkDimension(verts int, quadSize float32) error {
	if verts < MinVerts || verts > MaxVerts {
		return errors.Wrapf(ErrDimension, "%d vertices per side", verts)
	}
	if !(quadSize > 0) || math32.IsInf(quadSize, 0) {
		return errors.Wrapf(ErrDimension, "quad size %v", quadSize)
	}
	return nil
}

// LoadFile loads a terrain through the filesystem.
func LoadFile(name string) (*Terrain, error) {
	b, err := filesystem.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "terra: reading %s", name)
	}
	t, err := Load(bytes.NewReader(b))
	if err != nil {
		return nil, errors.WithMessage(err, name)
	}
	slog.Debug("Loaded terrain", slog.String("name", name), slog.Int("verts", t.Verts))
	return t, nil
}

// Load reads a terrain: the vertex count per side and the quad size,
// followed by all vertex positions and the two triangle normals of the quad
// at every vertex. Vertex positions must match the grid.
func Load(r io.Reader) (*Terrain, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrapf(ErrFormat, "header: %v", err)
	}
	if err := checkDimension(int(h.Verts), h.QuadSize); err != nil {
		return nil, err
	}
	n := int(h.Verts) * int(h.Verts)
	t := &Terrain{
		Verts:    int(h.Verts),
		QuadSize: h.QuadSize,
		Dim:      float32(h.Verts-1) * h.QuadSize / 2,
		Vertices: make([]vec.Vec3, n),
		Normals:  make([][2]vec.Vec3, n),
	}
	if err := binary.Read(r, binary.LittleEndian, t.Vertices); err != nil {
		return nil, errors.Wrapf(ErrFormat, "vertices: %v", err)
	}
	if err := binary.Read(r, binary.LittleEndian, t.Normals); err != nil {
		return nil, errors.Wrapf(ErrFormat, "normals: %v", err)
	}
	if extra, _ := io.Copy(io.Discard, r); extra != 0 {
		return nil, errors.Wrapf(ErrDimension, "%d trailing bytes", extra)
	}
	const eps = 1e-3
	for iy := 0; iy < t.Verts; iy++ {
		for ix := 0; ix < t.Verts; ix++ {
			v := t.Vertex(ix, iy)
			if !v.Finite() {
				return nil, errors.Wrapf(ErrFormat, "vertex %d,%d is not a number", ix, iy)
			}
			x := float32(ix)*t.QuadSize - t.Dim
			y := float32(iy)*t.QuadSize - t.Dim
			if math32.Abs(v[0]-x) > eps*t.QuadSize || math32.Abs(v[1]-y) > eps*t.QuadSize {
				return nil, errors.Wrapf(ErrDimension, "vertex %d,%d at %v off the grid", ix, iy, v)
			}
		}
	}
	for i, n := range t.Normals {
		if !n[0].Finite() || !n[1].Finite() {
			return nil, errors.Wrapf(ErrFormat, "normal %d is not a number", i)
		}
	}
	return t, nil
}

// Write stores t in the layout read by Load.
func Write(w io.Writer, t *Terrain) error {
	h := header{Verts: int32(t.Verts), QuadSize: t.QuadSize}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(err, "terra: write header")
	}
	if err := binary.Write(w, binary.LittleEndian, t.Vertices); err != nil {
		return errors.Wrap(err, "terra: write vertices")
	}
	if err := binary.Write(w, binary.LittleEndian, t.Normals); err != nil {
		return errors.Wrap(err, "terra: write normals")
	}
	return nil
}
