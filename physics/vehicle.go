// SPDX-License-Identifier: GPL-2.0-or-later

package physics

import (
	"github.com/chewxy/math32"

	"ozphys/cvars"
	"ozphys/math/vec"
	"ozphys/world"
)

// applyVehicle turns the driver input of a vehicle into momentum for the
// coming tick.
func (p *Physics) applyVehicle(o *world.Object, tick float32) {
	d := o.Dynamic
	v := d.Vehicle
	var push vec.Vec3

	switch v.Kind {
	case world.VehicleStatic:
		// turrets only turn
		v.Heading += v.Turn * v.TurnRate * tick
	case world.VehicleWheeled:
		if !o.Has(world.OnFloorBit) {
			break
		}
		// steering needs the wheels rolling
		v.Heading += v.Turn * v.TurnRate * v.Forward * tick
		push = vec.Scale(v.Forward*v.MoveMomentum, v.Dir())
	case world.VehicleTracked:
		if !o.Has(world.OnFloorBit) {
			break
		}
		v.Heading += v.Turn * v.TurnRate * tick
		push = vec.Scale(v.Forward*v.MoveMomentum, v.Dir())
	case world.VehicleHover:
		v.Heading += v.Turn * v.TurnRate * tick
		push = vec.Add(vec.Scale(v.Forward, v.Dir()), vec.Scale(v.Right, v.Side()))
		push = vec.Scale(v.MoveMomentum, push)
		ground := p.c.TranslateObj(o, vec.Vec3{0, 0, -v.HoverHeight})
		if ground.Blocked() {
			push[2] += v.HoverMomentum * (1 - ground.Ratio)
		}
	case world.VehicleAir:
		v.Heading += v.Turn * v.TurnRate * tick
		push = vec.Add(vec.Scale(v.Forward, v.Dir()), vec.Scale(v.Right, v.Side()))
		push[2] = v.Up
		push = vec.Scale(v.MoveMomentum, push)
		push[2] -= cvars.PhysicsGravity.Value() * v.Lift
	}
	v.Heading = math32.Mod(v.Heading, 2*math32.Pi)

	if push == vec.Zero {
		return
	}
	d.Momentum = vec.Add(d.Momentum, vec.Scale(tick, push))
}
