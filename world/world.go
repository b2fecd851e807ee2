// SPDX-License-Identifier: GPL-2.0-or-later

// Package world holds the structures, objects and frags of a level and the
// grid used to find them by position.
package world

import (
	"log/slog"

	"github.com/chewxy/math32"

	"ozphys/math"
	"ozphys/math/vec"
	"ozphys/terra"
)

const (
	// Dim is the half extent of the world in x and y.
	Dim      = 2048
	CellSize = 16
	Cells    = 2 * Dim / CellSize

	// wakeMargin is how close an object has to be to a removed structure
	// to be woken up.
	wakeMargin = 0.01
)

// Cell lists everything that overlaps it.
type Cell struct {
	Structs []int
	Objects []int
	Frags   []int
}

// Span is an inclusive range of cells.
type Span struct {
	MinX, MinY int
	MaxX, MaxY int
}

type World struct {
	Structs []*Structure
	Objects []*Object
	Frags   []*Frag
	Terra   *terra.Terrain

	cells  []Cell
	events []Event

	freeStructs []int
	freeObjects []int
	freeFrags   []int
}

func New() *World {
	return &World{
		cells: make([]Cell, Cells*Cells),
	}
}

func cellCoord(c float32) int {
	return math.Clamp(0, int(math32.Floor((c+Dim)/CellSize)), Cells-1)
}

// CellsForBounds returns the cells b overlaps, clamped to the world.
func (w *World) CellsForBounds(b vec.Bounds) Span {
	return Span{
		MinX: cellCoord(b.Mins[0]),
		MinY: cellCoord(b.Mins[1]),
		MaxX: cellCoord(b.Maxs[0]),
		MaxY: cellCoord(b.Maxs[1]),
	}
}

// Cell returns cell (ix, iy).
func (w *World) Cell(ix, iy int) *Cell {
	return &w.cells[iy*Cells+ix]
}

// EachCell calls f for every cell of s.
func (w *World) EachCell(s Span, f func(c *Cell)) {
	for iy := s.MinY; iy <= s.MaxY; iy++ {
		for ix := s.MinX; ix <= s.MaxX; ix++ {
			f(&w.cells[iy*Cells+ix])
		}
	}
}

// Includes reports whether b is completely inside of the world.
func Includes(b vec.Bounds) bool {
	return b.Mins[0] >= -Dim && b.Mins[1] >= -Dim && b.Maxs[0] <= Dim && b.Maxs[1] <= Dim
}

func remove(list []int, i int) []int {
	for k, v := range list {
		if v == i {
			list[k] = list[len(list)-1]
			return list[:len(list)-1]
		}
	}
	return list
}

func slot[T any](list []*T, free *[]int, v *T) ([]*T, int) {
	if n := len(*free); n != 0 {
		i := (*free)[n-1]
		*free = (*free)[:n-1]
		list[i] = v
		return list, i
	}
	return append(list, v), len(list)
}

// AddStruct places s into the world and returns its index.
func (w *World) AddStruct(s *Structure) int {
	w.Structs, s.Index = slot(w.Structs, &w.freeStructs, s)
	s.span = w.CellsForBounds(s.Bounds)
	w.EachCell(s.span, func(c *Cell) {
		c.Structs = append(c.Structs, s.Index)
	})
	return s.Index
}

// RemoveStruct removes structure i and wakes the objects touching it.
func (w *World) RemoveStruct(i int) {
	s := w.Structs[i]
	if s == nil {
		return
	}
	w.wake(s.Bounds)
	w.EachCell(s.span, func(c *Cell) {
		c.Structs = remove(c.Structs, i)
	})
	w.Structs[i] = nil
	w.freeStructs = append(w.freeStructs, i)
}

// AddObject places o into the world and returns its index.
func (w *World) AddObject(o *Object) int {
	w.Objects, o.Index = slot(w.Objects, &w.freeObjects, o)
	o.span = w.CellsForBounds(o.Bounds())
	w.EachCell(o.span, func(c *Cell) {
		c.Objects = append(c.Objects, o.Index)
	})
	return o.Index
}

// wake enables the dynamic objects touching b and drops their floor.
func (w *World) wake(b vec.Bounds) {
	b = b.Expand(wakeMargin)
	w.EachCell(w.CellsForBounds(b), func(c *Cell) {
		for _, i := range c.Objects {
			o := w.Objects[i]
			if o != nil && o.Dynamic != nil && o.Bounds().Overlaps(b) {
				o.Flags &^= OnFloorBit
				o.Enable()
			}
		}
	})
}

// RemoveObject removes object i. Objects resting on it are enabled again.
func (w *World) RemoveObject(i int) {
	o := w.Objects[i]
	if o == nil {
		return
	}
	w.EachCell(o.span, func(c *Cell) {
		c.Objects = remove(c.Objects, i)
	})
	w.Objects[i] = nil
	w.freeObjects = append(w.freeObjects, i)
	for _, u := range w.Objects {
		if u != nil && u.Dynamic != nil && u.Dynamic.Lower == i {
			u.Dynamic.Lower = -1
			u.Flags &^= OnFloorBit | DisabledBit
		}
	}
}

// Reposition moves object i to the cells of its current bounds.
func (w *World) Reposition(i int) {
	o := w.Objects[i]
	span := w.CellsForBounds(o.Bounds())
	if span == o.span {
		return
	}
	w.EachCell(o.span, func(c *Cell) {
		c.Objects = remove(c.Objects, i)
	})
	o.span = span
	w.EachCell(span, func(c *Cell) {
		c.Objects = append(c.Objects, i)
	})
}

// AddFrag places f into the world and returns its index.
func (w *World) AddFrag(f *Frag) int {
	w.Frags, f.Index = slot(w.Frags, &w.freeFrags, f)
	f.span = w.CellsForBounds(f.Bounds())
	w.Cell(f.span.MinX, f.span.MinY).Frags = append(w.Cell(f.span.MinX, f.span.MinY).Frags, f.Index)
	return f.Index
}

func (w *World) RemoveFrag(i int) {
	f := w.Frags[i]
	if f == nil {
		return
	}
	c := w.Cell(f.span.MinX, f.span.MinY)
	c.Frags = remove(c.Frags, i)
	w.Frags[i] = nil
	w.freeFrags = append(w.freeFrags, i)
}

// RepositionFrag moves frag i to the cell of its current position.
func (w *World) RepositionFrag(i int) {
	f := w.Frags[i]
	span := w.CellsForBounds(f.Bounds())
	if span == f.span {
		return
	}
	c := w.Cell(f.span.MinX, f.span.MinY)
	c.Frags = remove(c.Frags, i)
	f.span = span
	c = w.Cell(span.MinX, span.MinY)
	c.Frags = append(c.Frags, i)
}

// DamageObject applies damage above the resistance of object i. A
// destroyed object is flagged and reported as an event, removing it is up
// to the caller.
func (w *World) DamageObject(i int, damage float32) {
	o := w.Objects[i]
	if o == nil || o.Has(DestroyedBit) || damage <= o.Resistance {
		return
	}
	o.Life -= damage - o.Resistance
	if o.Life <= 0 {
		o.Life = 0
		o.Flags |= DestroyedBit
		w.AddEvent(Event{Kind: EventDestroy, Obj: i, Intensity: damage})
		slog.Debug("Object destroyed", slog.Int("obj", i), slog.String("class", o.Class))
	}
}

// DamageStruct applies damage to structure i. A destroyed structure stops
// colliding and the objects touching it are woken up.
func (w *World) DamageStruct(i int, damage float32) {
	s := w.Structs[i]
	if s == nil {
		return
	}
	if s.Damage(damage) {
		w.wake(s.Bounds)
		w.AddEvent(Event{Kind: EventStructDestroy, Obj: -1, Struct: i, Intensity: damage})
		slog.Debug("Structure destroyed", slog.Int("str", i))
	}
}

// Len returns the number of structures, objects and frags in the world.
func (w *World) Len() (structs, objects, frags int) {
	return len(w.Structs) - len(w.freeStructs),
		len(w.Objects) - len(w.freeObjects),
		len(w.Frags) - len(w.freeFrags)
}
