// SPDX-License-Identifier: GPL-2.0-or-later

package physics

import (
	"ozphys/cvars"
	"ozphys/math/vec"
	"ozphys/world"
)

// UpdateFrag advances frag i. It returns false if the frag expired, broke
// or became unstable and got removed.
func (p *Physics) UpdateFrag(i int, tick float32) bool {
	f := p.w.Frags[i]
	if f == nil {
		return false
	}
	f.Life -= tick
	if f.Life <= 0 {
		p.w.RemoveFrag(i)
		return false
	}

	f.Velocity[2] += cvars.PhysicsGravity.Value() * tick
	move := vec.Scale(tick, f.Velocity)
	hit := p.c.TranslatePoint(f.P, move, -1)
	f.P = vec.Add(f.P, vec.Scale(hit.Ratio, move))
	if hit.InWater {
		f.Velocity = vec.Scale(1-cvars.PhysicsWaterFriction.Value(), f.Velocity)
	}

	if hit.Blocked() {
		vn := vec.Dot(f.Velocity, hit.Normal)
		if vn < cvars.PhysicsHitThreshold.Value() {
			damage := hitDamage * f.Mass * (cvars.PhysicsHitThreshold.Value() - vn)
			switch {
			case hit.Obj >= 0:
				p.w.DamageObject(hit.Obj, damage)
				if p.w.Objects[hit.Obj].Has(world.DestroyedBit) {
					p.w.RemoveObject(hit.Obj)
				}
			case hit.Str >= 0:
				p.w.DamageStruct(hit.Str, damage)
			}
			if p.rand.Chance(cvars.PhysicsFragDestroy.Value()) {
				p.w.RemoveFrag(i)
				return false
			}
		}
		if vn < 0 {
			f.Velocity = vec.Sub(f.Velocity, vec.Scale((1+f.Elasticity)*vn, hit.Normal))
		}
	}

	if !f.P.Finite() || !f.Velocity.Finite() ||
		f.Velocity.Length() > cvars.PhysicsMaxVelocity.Value() {
		p.w.RemoveFrag(i)
		return false
	}
	p.w.RepositionFrag(i)
	return true
}
