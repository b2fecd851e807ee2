// SPDX-License-Identifier: GPL-2.0-or-later

// Package physics advances the dynamic objects, the frags and the entities
// of a world by one tick at a time.
package physics

import (
	"log/slog"

	"github.com/chewxy/math32"

	"ozphys/bsp"
	"ozphys/collider"
	"ozphys/cvars"
	"ozphys/math"
	"ozphys/math/vec"
	"ozphys/rand"
	"ozphys/world"
)

const (
	// floorNormalZ is the smallest normal z of a surface objects rest on.
	floorNormalZ = 0.60
	// sliding faster than this over a floor reports fricting
	frictingVelocity = 1
	// damage per unit of momentum beyond the hit threshold
	hitDamage = 0.01
	// shorter moves are not swept
	minMove = 1e-6
)

// Physics integrates one world. Like the collider it keeps scratch state
// and must only be used from the simulation goroutine.
type Physics struct {
	w    *world.World
	c    *collider.Collider
	rand rand.Generator

	objs []int
}

func New(w *world.World, c *collider.Collider) *Physics {
	return &Physics{
		w:    w,
		c:    c,
		rand: rand.New(0),
	}
}

// Seed resets the generator deciding which frags break on impact.
func (p *Physics) Seed(s uint32) {
	p.rand.NewSeed(s)
}

// Step advances every entity, dynamic object and frag of the world by tick
// seconds.
func (p *Physics) Step(tick float32) {
	for i := 0; i < len(p.w.Structs); i++ {
		s := p.w.Structs[i]
		if s == nil || s.Destroyed {
			continue
		}
		for j := range s.Entities {
			p.UpdateEntity(i, j, tick)
		}
	}
	for i := 0; i < len(p.w.Objects); i++ {
		if o := p.w.Objects[i]; o != nil && o.Dynamic != nil {
			p.UpdateObj(i, tick)
		}
	}
	for i := 0; i < len(p.w.Frags); i++ {
		if p.w.Frags[i] != nil {
			p.UpdateFrag(i, tick)
		}
	}
}

// UpdateObj advances dynamic object i. It returns false if the object got
// removed from the world.
func (p *Physics) UpdateObj(i int, tick float32) bool {
	o := p.w.Objects[i]
	if o == nil {
		return false
	}
	d := o.Dynamic
	if d == nil {
		return true
	}
	o.Flags &^= world.HitBit | world.FrictingBit

	if d.Lower >= 0 {
		lower := p.w.Objects[d.Lower]
		switch {
		case lower == nil || lower.Has(world.DestroyedBit):
			d.Lower = -1
			o.Flags &^= world.OnFloorBit
			o.Enable()
		case lower.Dynamic != nil && !lower.Has(world.DisabledBit):
			o.Enable()
		}
	}
	if o.Has(world.VehicleBit) && d.Vehicle != nil {
		p.applyVehicle(o, tick)
	}
	if d.Momentum != vec.Zero {
		o.Enable()
	}
	if o.Has(world.DisabledBit) {
		return true
	}

	d.Velocity = vec.Add(d.Velocity, d.Momentum)
	d.Momentum = vec.Vec3{}
	d.Steps = math32.Max(d.Steps-cvars.PhysicsStepRate.Value(), 0)

	p.accelerate(o, tick)
	p.friction(o)

	move := vec.Scale(tick, d.Velocity)
	if !move.Finite() || d.Velocity.Length() > cvars.PhysicsMaxVelocity.Value() {
		p.removeUnstable(i, "velocity")
		return false
	}

	wasOnFloor := o.Has(world.OnFloorBit)
	wasInWater := o.Has(world.InWaterBit)
	fall := d.Velocity[2]
	o.Flags &^= world.OnFloorBit | world.OnSlickBit | world.InWaterBit | world.OnLadderBit
	d.Lower = -1
	d.Floor = vec.Vec3{}

	start := o.P
	hit := p.c.TranslateObj(o, move)
	if hit.InWater {
		o.Flags |= world.InWaterBit
	}
	if hit.OnLadder {
		o.Flags |= world.OnLadderBit
	}
	d.Depth = hit.Depth
	o.P = vec.Add(o.P, vec.Scale(hit.Ratio, move))

	if hit.Blocked() {
		rest := vec.Scale(1-hit.Ratio, move)
		if !wasOnFloor || !isWall(hit.Normal) || !p.stepUp(o, start, move) {
			p.respond(o, &hit)
			rest = vec.Sub(rest, vec.Scale(vec.Dot(rest, hit.Normal), hit.Normal))
			p.slide(o, rest, start, move, wasOnFloor)
		}
	}

	if !wasInWater && o.Has(world.InWaterBit) && fall < cvars.PhysicsSplashThreshold.Value() {
		p.w.AddEvent(world.Event{Kind: world.EventSplash, Obj: i, Struct: hit.MediumStr, Intensity: -fall})
	}
	if o.Has(world.DestroyedBit) {
		p.w.RemoveObject(i)
		return false
	}
	if !o.P.Finite() || !d.Velocity.Finite() || !world.Includes(o.Bounds()) {
		p.removeUnstable(i, "position")
		return false
	}
	p.settle(o)
	p.w.Reposition(i)
	return true
}

func (p *Physics) removeUnstable(i int, what string) {
	o := p.w.Objects[i]
	slog.Warn("Removing unstable object",
		slog.Int("obj", i),
		slog.String("class", o.Class),
		slog.String("reason", what),
		slog.Any("velocity", o.Dynamic.Velocity))
	p.w.RemoveObject(i)
}

// accelerate applies gravity, reduced by buoyancy in water. The depth is
// the submersion found by the previous sweep.
func (p *Physics) accelerate(o *world.Object, tick float32) {
	d := o.Dynamic
	g := cvars.PhysicsGravity.Value() * tick
	switch {
	case o.Has(world.OnLadderBit):
	case o.Has(world.InWaterBit):
		// 1 at half submersion, 2 when fully under
		sub := math.Clamp(0, d.Depth/o.Dim[2], 2)
		d.Velocity[2] += g * (1 - d.Lift*sub)
	default:
		d.Velocity[2] += g
	}
}

func (p *Physics) lowerVelocity(o *world.Object) vec.Vec3 {
	d := o.Dynamic
	if d.Lower < 0 {
		return vec.Vec3{}
	}
	if lower := p.w.Objects[d.Lower]; lower != nil && lower.Dynamic != nil {
		return lower.Dynamic.Velocity
	}
	return vec.Vec3{}
}

func (p *Physics) friction(o *world.Object) {
	d := o.Dynamic
	switch {
	case o.Has(world.OnLadderBit):
		d.Velocity[2] *= 1 - cvars.PhysicsLadderFriction.Value()
	case o.Has(world.OnFloorBit):
		f := cvars.PhysicsFloorFriction.Value()
		switch {
		case o.Has(world.OnSlickBit):
			f = cvars.PhysicsSlickFriction.Value()
		case d.Lower >= 0:
			f = cvars.PhysicsObjectFriction.Value()
		}
		base := p.lowerVelocity(o)
		dx := d.Velocity[0] - base[0]
		dy := d.Velocity[1] - base[1]
		d.Velocity[0] = base[0] + dx*(1-f)
		d.Velocity[1] = base[1] + dy*(1-f)
		if dx*dx+dy*dy > frictingVelocity*frictingVelocity {
			o.Flags |= world.FrictingBit
			p.w.AddEvent(world.Event{Kind: world.EventFricting, Obj: o.Index, Struct: -1, Intensity: math32.Sqrt(dx*dx + dy*dy)})
		}
	default:
		d.Velocity = vec.Scale(1-cvars.PhysicsAirFriction.Value(), d.Velocity)
	}
	if o.Has(world.InWaterBit) {
		d.Velocity = vec.Scale(1-cvars.PhysicsWaterFriction.Value(), d.Velocity)
	}
}

// respond handles the first contact of a sweep.
func (p *Physics) respond(o *world.Object, h *collider.Hit) {
	d := o.Dynamic
	n := h.Normal
	vn := vec.Dot(d.Velocity, n)
	if vn >= 0 {
		p.touch(o, h)
		return
	}

	var other *world.Object
	if h.Obj >= 0 {
		other = p.w.Objects[h.Obj]
	}

	hard := vn < cvars.PhysicsHitThreshold.Value()
	if hard {
		o.Flags |= world.HitBit
		p.w.AddEvent(world.Event{Kind: world.EventHit, Obj: o.Index, Struct: h.Str, Intensity: -vn})
		damage := hitDamage * d.Mass * (cvars.PhysicsHitThreshold.Value() - vn)
		p.w.DamageObject(o.Index, damage)
		switch {
		case other != nil:
			p.w.DamageObject(h.Obj, damage)
		case h.Str >= 0:
			p.w.DamageStruct(h.Str, damage)
		}
	}

	switch {
	case other != nil && other.Dynamic != nil && n[2] <= floorNormalZ:
		// exchange the momentum along the normal
		od := other.Dynamic
		v2 := vec.Dot(od.Velocity, n)
		avg := (d.Mass*vn + od.Mass*v2) / (d.Mass + od.Mass)
		d.Velocity = vec.Add(d.Velocity, vec.Scale(avg-vn, n))
		od.Velocity = vec.Add(od.Velocity, vec.Scale(avg-v2, n))
		other.Enable()
	case other != nil && other.Dynamic != nil:
		// resting on it, match its normal velocity
		v2 := vec.Dot(other.Dynamic.Velocity, n)
		if vn < v2 {
			d.Velocity = vec.Add(d.Velocity, vec.Scale(v2-vn, n))
		}
		p.touch(o, h)
	case hard:
		_, d.Velocity = clipVelocity(d.Velocity, n, 1+cvars.PhysicsRestitution.Value())
	default:
		_, d.Velocity = clipVelocity(d.Velocity, n, 1)
		p.touch(o, h)
	}
	if other != nil && other.Has(world.DestroyedBit) {
		p.w.RemoveObject(h.Obj)
	}
}

// touch records a contact the object stays on.
func (p *Physics) touch(o *world.Object, h *collider.Hit) {
	if h.Normal[2] <= floorNormalZ {
		return
	}
	d := o.Dynamic
	o.Flags |= world.OnFloorBit
	d.Floor = h.Normal
	if h.Material&bsp.MaterialSlick != 0 {
		o.Flags |= world.OnSlickBit
	}
	if h.Obj >= 0 {
		d.Lower = h.Obj
	}
}

// slide moves the object along the surface it hit, once. Walls met while
// standing are tried as stairs first, repeating the whole move from start.
func (p *Physics) slide(o *world.Object, rest, start, move vec.Vec3, onFloor bool) {
	if rest.LengthSq() < minMove*minMove {
		return
	}
	d := o.Dynamic
	h := p.c.TranslateObj(o, rest)
	o.P = vec.Add(o.P, vec.Scale(h.Ratio, rest))
	if !h.Blocked() {
		return
	}
	blocked, clipped := clipVelocity(d.Velocity, h.Normal, 1)
	if blocked == 2 && (onFloor || o.Has(world.OnFloorBit)) && p.stepUp(o, start, move) {
		return
	}
	if vec.Dot(d.Velocity, h.Normal) < 0 {
		d.Velocity = clipped
	}
	p.touch(o, &h)
}

// stepUp tries to move from start up by at most the step height, forward
// by the horizontal part of move and back down onto a floor. The object
// stays where it is if that fails.
func (p *Physics) stepUp(o *world.Object, start, move vec.Vec3) bool {
	d := o.Dynamic
	height := cvars.PhysicsStepHeight.Value()
	if d.Steps+height > cvars.PhysicsStepMax.Value() {
		return false
	}
	move[2] = 0
	if move.LengthSq() < minMove*minMove {
		return false
	}
	orig := o.P
	o.P = start

	up := p.c.TranslateObj(o, vec.Vec3{0, 0, height})
	raise := height * up.Ratio
	if raise <= collider.Epsilon {
		o.P = orig
		return false
	}
	o.P[2] += raise

	fwd := p.c.TranslateObj(o, move)
	if fwd.Ratio == 0 {
		o.P = orig
		return false
	}
	o.P = vec.Add(o.P, vec.Scale(fwd.Ratio, move))

	down := p.c.TranslateObj(o, vec.Vec3{0, 0, -raise})
	if !down.Blocked() || down.Normal[2] <= floorNormalZ {
		o.P = orig
		return false
	}
	o.P[2] -= raise * down.Ratio
	climbed := o.P[2] - start[2]
	if climbed <= collider.Epsilon {
		o.P = orig
		return false
	}
	d.Steps += climbed
	if d.Velocity[2] < 0 {
		d.Velocity[2] = 0
	}
	p.touch(o, &down)
	return true
}

// settle disables objects at rest.
func (p *Physics) settle(o *world.Object) {
	d := o.Dynamic
	if !o.Has(world.OnFloorBit) {
		if o.Has(world.InWaterBit) && d.Velocity.LengthSq() < cvars.PhysicsFloatStickVelocity.Value() {
			d.Velocity = vec.Vec3{}
			o.Flags |= world.DisabledBit
		}
		return
	}
	if d.Lower >= 0 {
		if lower := p.w.Objects[d.Lower]; lower != nil && lower.Dynamic != nil && !lower.Has(world.DisabledBit) {
			return
		}
	}
	if d.Velocity.Length() < cvars.PhysicsStickVelocity.Value() {
		d.Velocity = vec.Vec3{}
		o.Flags |= world.DisabledBit
	}
}

func isWall(n vec.Vec3) bool {
	return math32.Abs(n[2]) <= floorNormalZ
}

// clipVelocity removes the part of in going into the surface with the given
// normal. An overbounce above 1 reflects that part.
// Returns the blocked flags (1 = floor, 2 = wall) and the clipped velocity.
func clipVelocity(in, normal vec.Vec3, overbounce float32) (int, vec.Vec3) {
	blocked := func() int {
		switch {
		case normal[2] > floorNormalZ:
			return 1 // floor
		case isWall(normal):
			return 2 // wall
		default:
			return 0
		}
	}()

	backoff := vec.Dot(in, normal) * overbounce

	stick := cvars.PhysicsStickVelocity.Value()
	e := func(x float32) float32 {
		if x > -stick && x < stick {
			return 0
		}
		return x
	}

	out := vec.Vec3{
		e(in[0] - normal[0]*backoff),
		e(in[1] - normal[1]*backoff),
		e(in[2] - normal[2]*backoff),
	}

	return blocked, out
}
