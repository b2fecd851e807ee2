// SPDX-License-Identifier: GPL-2.0-or-later

package physics

import (
	"github.com/chewxy/math32"

	"ozphys/bsp"
	"ozphys/math/vec"
	"ozphys/world"
)

// objects this close to a moving entity are woken up
const entityMargin = 0.05

// UpdateEntity advances entity ent of structure str.
func (p *Physics) UpdateEntity(str, ent int, tick float32) {
	s := p.w.Structs[str]
	e := &s.Entities[ent]
	cls := e.Class
	e.Time += tick
	e.Velocity = vec.Vec3{}

	auto := cls.Flags&bsp.EntityAutoOpen != 0
	var ratio float32
	switch e.State {
	case world.EntityClosed:
		if auto && e.Time >= cls.Timeout {
			e.State = world.EntityOpening
			e.Time = 0
		}
		return
	case world.EntityOpen:
		if auto && e.Time >= cls.Timeout {
			e.State = world.EntityClosing
			e.Time = 0
		}
		return
	case world.EntityOpening:
		ratio = math32.Min(e.Ratio+cls.RatioInc*tick, 1)
	case world.EntityClosing:
		ratio = math32.Max(e.Ratio-cls.RatioInc*tick, 0)
	}

	if !p.moveEntity(str, ent, ratio, tick) {
		return
	}
	switch {
	case e.State == world.EntityOpening && ratio == 1:
		e.State = world.EntityOpen
		e.Time = 0
	case e.State == world.EntityClosing && ratio == 0:
		e.State = world.EntityClosed
		e.Time = 0
	}
}

// moveEntity sets the ratio of an entity as far as its mode allows. It
// reports false if the entity got blocked and stays where it is.
func (p *Physics) moveEntity(str, ent int, ratio, tick float32) bool {
	s := p.w.Structs[str]
	e := &s.Entities[ent]
	from := e.Offset
	to := vec.Scale(ratio, e.Class.Move)
	delta := s.ToAbsoluteCS(vec.Sub(to, from))

	// wake everything resting on or leaning against it
	p.objs = p.objs[:0]
	p.c.GetEntityOverlaps(str, ent, entityMargin, &p.objs)
	for _, i := range p.objs {
		p.w.Objects[i].Enable()
	}

	switch e.Class.Mode {
	case bsp.EntityBlocking:
		e.Offset = to
		if p.entityBlocked(str, ent) {
			e.Offset = from
			return false
		}
	case bsp.EntityPushing:
		if !p.push(str, ent, to, delta) {
			return false
		}
	case bsp.EntityCrushing:
		e.Offset = to
		p.objs = p.objs[:0]
		p.c.GetEntityOverlaps(str, ent, 0, &p.objs)
		for _, i := range p.objs {
			p.destroy(i)
		}
	}
	e.Offset = to
	e.Ratio = ratio
	if tick > 0 {
		e.Velocity = vec.Scale(1/tick, delta)
	}
	return true
}

func (p *Physics) entityBlocked(str, ent int) bool {
	p.objs = p.objs[:0]
	p.c.GetEntityOverlaps(str, ent, 0, &p.objs)
	return len(p.objs) != 0
}

type pushed struct {
	i int
	p vec.Vec3
}

// push moves the objects in the way of the entity along with it. Static
// objects and objects that cannot move block the entity.
func (p *Physics) push(str, ent int, to, delta vec.Vec3) bool {
	s := p.w.Structs[str]
	e := &s.Entities[ent]
	from := e.Offset

	e.Offset = to
	p.objs = p.objs[:0]
	p.c.GetEntityOverlaps(str, ent, 0, &p.objs)
	e.Offset = from

	var moved []pushed
	undo := func() {
		for _, m := range moved {
			p.w.Objects[m.i].P = m.p
			p.w.Reposition(m.i)
		}
		e.Offset = from
	}
	for _, i := range p.objs {
		o := p.w.Objects[i]
		if o.Dynamic == nil {
			undo()
			return false
		}
		if h := p.c.TranslateObj(o, delta); h.Blocked() {
			undo()
			return false
		}
		moved = append(moved, pushed{i, o.P})
		o.P = vec.Add(o.P, delta)
		o.Enable()
		p.w.Reposition(i)
	}

	e.Offset = to
	if len(moved) != 0 && p.entityBlocked(str, ent) {
		undo()
		return false
	}
	return true
}

// destroy removes object i as destroyed.
func (p *Physics) destroy(i int) {
	o := p.w.Objects[i]
	if o == nil {
		return
	}
	if !o.Has(world.DestroyedBit) {
		p.w.AddEvent(world.Event{Kind: world.EventDestroy, Obj: i, Struct: -1, Intensity: o.Life})
		o.Life = 0
		o.Flags |= world.DestroyedBit
	}
	p.w.RemoveObject(i)
}
