// SPDX-License-Identifier: GPL-2.0-or-later

package world

import (
	"testing"

	"github.com/google/uuid"

	"ozphys/bsp"
	"ozphys/math/vec"
)

func countIn(list []int, i int) int {
	n := 0
	for _, v := range list {
		if v == i {
			n++
		}
	}
	return n
}

func TestCellsForBounds(t *testing.T) {
	w := New()
	tests := []struct {
		b    vec.Bounds
		want Span
	}{
		{vec.Bounds{Mins: vec.Vec3{0, 0, 0}, Maxs: vec.Vec3{1, 1, 1}}, Span{128, 128, 128, 128}},
		{vec.Bounds{Mins: vec.Vec3{-1, -1, 0}, Maxs: vec.Vec3{16, 1, 1}}, Span{127, 127, 129, 128}},
		{vec.Bounds{Mins: vec.Vec3{-5000, -5000, 0}, Maxs: vec.Vec3{5000, 5000, 0}}, Span{0, 0, Cells - 1, Cells - 1}},
		{vec.Bounds{Mins: vec.Vec3{Dim, Dim, 0}, Maxs: vec.Vec3{Dim, Dim, 0}}, Span{Cells - 1, Cells - 1, Cells - 1, Cells - 1}},
	}
	for _, tc := range tests {
		if got := w.CellsForBounds(tc.b); got != tc.want {
			t.Errorf("CellsForBounds(%v) = %v, want %v", tc.b, got, tc.want)
		}
	}
}

func TestObjectSlots(t *testing.T) {
	w := New()
	a := w.AddObject(NewObject(vec.Vec3{0, 0, 0}, vec.Vec3{1, 1, 1}, 100))
	b := w.AddObject(NewObject(vec.Vec3{10, 0, 0}, vec.Vec3{1, 1, 1}, 100))
	if a != 0 || b != 1 {
		t.Fatalf("AddObject = %d, %d, want 0, 1", a, b)
	}
	w.RemoveObject(a)
	if w.Objects[a] != nil {
		t.Errorf("slot %d not freed", a)
	}
	if n := countIn(w.Cell(128, 128).Objects, a); n != 0 {
		t.Errorf("removed object still listed %d times", n)
	}
	c := w.AddObject(NewObject(vec.Vec3{20, 0, 0}, vec.Vec3{1, 1, 1}, 100))
	if c != a {
		t.Errorf("AddObject reused slot %d, want %d", c, a)
	}
	if _, objects, _ := w.Len(); objects != 2 {
		t.Errorf("Len() objects = %d, want 2", objects)
	}
}

func TestReposition(t *testing.T) {
	w := New()
	o := NewDynamic(vec.Vec3{0.5, 0.5, 0}, vec.Vec3{0.25, 0.25, 0.25}, 1, 0, 100)
	i := w.AddObject(o)
	if n := countIn(w.Cell(128, 128).Objects, i); n != 1 {
		t.Fatalf("object listed %d times in its cell", n)
	}
	o.P = vec.Vec3{16, 0.5, 0}
	w.Reposition(i)
	if n := countIn(w.Cell(128, 128).Objects, i); n != 1 {
		t.Errorf("object listed %d times in cell 128,128, want 1", n)
	}
	if n := countIn(w.Cell(129, 128).Objects, i); n != 1 {
		t.Errorf("object listed %d times in cell 129,128, want 1", n)
	}
	o.P = vec.Vec3{40, 0.5, 0}
	w.Reposition(i)
	for _, ix := range []int{128, 129} {
		if n := countIn(w.Cell(ix, 128).Objects, i); n != 0 {
			t.Errorf("stale cell %d,128 lists object %d times", ix, n)
		}
	}
	if n := countIn(w.Cell(130, 128).Objects, i); n != 1 {
		t.Errorf("object listed %d times in cell 130,128, want 1", n)
	}
	w.Reposition(i)
	if n := countIn(w.Cell(130, 128).Objects, i); n != 1 {
		t.Errorf("unchanged reposition lists object %d times", n)
	}
}

func TestRemoveLower(t *testing.T) {
	w := New()
	lower := w.AddObject(NewDynamic(vec.Vec3{0, 0, 1}, vec.Vec3{1, 1, 1}, 1, 0, 100))
	upper := NewDynamic(vec.Vec3{0, 0, 3}, vec.Vec3{1, 1, 1}, 1, 0, 100)
	upper.Dynamic.Lower = lower
	upper.Flags |= OnFloorBit | DisabledBit
	w.AddObject(upper)
	w.RemoveObject(lower)
	if upper.Dynamic.Lower != -1 || upper.Has(OnFloorBit|DisabledBit) {
		t.Errorf("upper object lower = %d flags = %x", upper.Dynamic.Lower, upper.Flags)
	}
}

func TestRemoveStructWakes(t *testing.T) {
	tests := []struct {
		name   string
		remove func(w *World, i int)
	}{
		{"remove", func(w *World, i int) { w.RemoveStruct(i) }},
		{"destroy", func(w *World, i int) { w.DamageStruct(i, 1e9) }},
	}
	for _, tc := range tests {
		w := New()
		s := NewStructure(uuid.Nil, testBSP(), vec.Vec3{}, North)
		si := w.AddStruct(s)
		top := s.Bounds.Maxs[2]
		resting := NewDynamic(vec.Vec3{0, 0, top + 0.502}, vec.Vec3{0.5, 0.5, 0.5}, 1, 0, 100)
		resting.Flags |= OnFloorBit | DisabledBit
		far := NewDynamic(vec.Vec3{100, 100, top + 0.502}, vec.Vec3{0.5, 0.5, 0.5}, 1, 0, 100)
		far.Flags |= OnFloorBit | DisabledBit
		w.AddObject(resting)
		w.AddObject(far)
		tc.remove(w, si)
		if resting.Has(OnFloorBit | DisabledBit) {
			t.Errorf("%s: resting object flags = %x", tc.name, resting.Flags)
		}
		if !far.Has(OnFloorBit) || !far.Has(DisabledBit) {
			t.Errorf("%s: far object flags = %x", tc.name, far.Flags)
		}
	}
}

func TestFrags(t *testing.T) {
	w := New()
	f := NewFrag(vec.Vec3{1, 1, 1}, vec.Vec3{}, 2, 0.1, 0.5)
	i := w.AddFrag(f)
	if n := countIn(w.Cell(128, 128).Frags, i); n != 1 {
		t.Fatalf("frag listed %d times", n)
	}
	f.P = vec.Vec3{-1, 1, 1}
	w.RepositionFrag(i)
	if n := countIn(w.Cell(128, 128).Frags, i); n != 0 {
		t.Errorf("stale cell lists frag %d times", n)
	}
	if n := countIn(w.Cell(127, 128).Frags, i); n != 1 {
		t.Errorf("new cell lists frag %d times", n)
	}
	w.RemoveFrag(i)
	if n := countIn(w.Cell(127, 128).Frags, i); n != 0 || w.Frags[i] != nil {
		t.Errorf("removed frag still listed")
	}
}

func testBSP() *bsp.BSP {
	b := bsp.NewBuilder()
	b.AddBox(vec.Vec3{0, 0, 0}, vec.Vec3{4, 2, 1}, bsp.MaterialStruct)
	b.AddEntity(bsp.EntitySpec{
		Move:  vec.Vec3{0, 0, 2},
		Mode:  bsp.EntityBlocking,
		Flags: bsp.EntityStartOpen,
		Boxes: []bsp.Box{{Mins: vec.Vec3{0, 0, 1}, Maxs: vec.Vec3{1, 1, 2}, Flags: bsp.MaterialStruct}},
	})
	return b.Build()
}

func TestHeadings(t *testing.T) {
	m := testBSP()
	v := vec.Vec3{1, 2, 3}
	tests := []struct {
		h      Heading
		abs    vec.Vec3
		bounds vec.Bounds
	}{
		{North, vec.Vec3{1, 2, 3}, vec.Bounds{Mins: vec.Vec3{10, 20, 0}, Maxs: vec.Vec3{14, 22, 4}}},
		{West, vec.Vec3{-2, 1, 3}, vec.Bounds{Mins: vec.Vec3{8, 20, 0}, Maxs: vec.Vec3{10, 24, 4}}},
		{South, vec.Vec3{-1, -2, 3}, vec.Bounds{Mins: vec.Vec3{6, 18, 0}, Maxs: vec.Vec3{10, 20, 4}}},
		{East, vec.Vec3{2, -1, 3}, vec.Bounds{Mins: vec.Vec3{10, 16, 0}, Maxs: vec.Vec3{12, 20, 4}}},
	}
	for _, tc := range tests {
		s := NewStructure(uuid.Nil, m, vec.Vec3{10, 20, 0}, tc.h)
		if got := s.ToAbsoluteCS(v); got != tc.abs {
			t.Errorf("%v: ToAbsoluteCS(%v) = %v, want %v", tc.h, v, got, tc.abs)
		}
		if got := s.ToStructCS(s.ToAbsoluteCS(v)); got != v {
			t.Errorf("%v: round trip of %v = %v", tc.h, v, got)
		}
		p := vec.Vec3{3, -1, 2}
		if got := s.ToStructP(s.ToAbsoluteP(p)); got != p {
			t.Errorf("%v: point round trip of %v = %v", tc.h, p, got)
		}
		if s.Bounds != tc.bounds {
			t.Errorf("%v: Bounds = %v, want %v", tc.h, s.Bounds, tc.bounds)
		}
		dim := s.SwapDimCS(vec.Vec3{1, 2, 3})
		if swapped := tc.h == West || tc.h == East; swapped != (dim[0] == 2) {
			t.Errorf("%v: SwapDimCS = %v", tc.h, dim)
		}
	}
}

func TestHeadingFromDegrees(t *testing.T) {
	tests := []struct {
		a    float32
		want Heading
	}{
		{0, North},
		{80, West},
		{-170, South},
		{270, East},
		{-45.5, East},
	}
	for _, tc := range tests {
		if got := HeadingFromDegrees(tc.a); got != tc.want {
			t.Errorf("HeadingFromDegrees(%v) = %v, want %v", tc.a, got, tc.want)
		}
	}
}

func TestStructureEntities(t *testing.T) {
	w := New()
	s := NewStructure(uuid.New(), testBSP(), vec.Vec3{0, 0, 0}, North)
	i := w.AddStruct(s)
	if len(s.Entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(s.Entities))
	}
	e := s.Entities[0]
	if e.State != EntityOpen || e.Ratio != 1 || e.Offset != (vec.Vec3{0, 0, 2}) {
		t.Errorf("start open entity = %v %v %v", e.State, e.Ratio, e.Offset)
	}
	want := vec.Bounds{Mins: vec.Vec3{0, 0, 3}, Maxs: vec.Vec3{1, 1, 4}}
	if got := s.EntityBounds(0); got != want {
		t.Errorf("EntityBounds(0) = %v, want %v", got, want)
	}
	if n := countIn(w.Cell(128, 128).Structs, i); n != 1 {
		t.Errorf("structure listed %d times", n)
	}
	if !s.Trigger(0) || s.Entities[0].State != EntityClosing {
		t.Errorf("Trigger on open entity: state %v", s.Entities[0].State)
	}
	if s.Trigger(0) {
		t.Errorf("Trigger on moving entity succeeded")
	}
	w.RemoveStruct(i)
	if n := countIn(w.Cell(128, 128).Structs, i); n != 0 {
		t.Errorf("removed structure listed %d times", n)
	}
}

func TestDamage(t *testing.T) {
	w := New()
	o := NewObject(vec.Vec3{}, vec.Vec3{1, 1, 1}, 10)
	o.Resistance = 2
	i := w.AddObject(o)
	w.DamageObject(i, 1)
	if o.Life != 10 {
		t.Errorf("Life = %v after damage below resistance", o.Life)
	}
	w.DamageObject(i, 7)
	if o.Life != 5 {
		t.Errorf("Life = %v, want 5", o.Life)
	}
	w.DamageObject(i, 100)
	if !o.Has(DestroyedBit) {
		t.Errorf("object not destroyed")
	}
	ev := w.DrainEvents()
	if len(ev) != 1 || ev[0].Kind != EventDestroy || ev[0].Obj != i {
		t.Errorf("events = %v", ev)
	}
	if len(w.Events()) != 0 {
		t.Errorf("events not drained")
	}

	s := NewStructure(uuid.Nil, testBSP(), vec.Vec3{}, North)
	si := w.AddStruct(s)
	w.DamageStruct(si, s.Life+1)
	if !s.Destroyed {
		t.Errorf("structure not destroyed")
	}
}
