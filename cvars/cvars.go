// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"ozphys/conlog"
	"ozphys/cvar"
)

var (
	Developer                 *cvar.Cvar
	HostMaxTicks              *cvar.Cvar
	HostTickTime              *cvar.Cvar
	HostTimeScale             *cvar.Cvar
	PhysicsAirFriction        *cvar.Cvar
	PhysicsFloatStickVelocity *cvar.Cvar
	PhysicsFloorFriction      *cvar.Cvar
	PhysicsFragDestroy        *cvar.Cvar
	PhysicsGravity            *cvar.Cvar
	PhysicsHitThreshold       *cvar.Cvar
	PhysicsLadderFriction     *cvar.Cvar
	PhysicsMaxVelocity        *cvar.Cvar
	PhysicsObjectFriction     *cvar.Cvar
	PhysicsRestitution        *cvar.Cvar
	PhysicsSlickFriction      *cvar.Cvar
	PhysicsSplashThreshold    *cvar.Cvar
	PhysicsStepHeight         *cvar.Cvar
	PhysicsStepMax            *cvar.Cvar
	PhysicsStepRate           *cvar.Cvar
	PhysicsStickVelocity      *cvar.Cvar
	PhysicsWaterFriction      *cvar.Cvar
)

func init() {
	Developer = cvar.MustRegister("developer", "0", cvar.NONE)
	Developer.SetCallback(func(cv *cvar.Cvar) {
		conlog.SetDeveloper(cv.Bool())
	})
	HostMaxTicks = cvar.MustRegister("host_maxticks", "4", cvar.NONE).SetBounds(1, 100)
	HostTickTime = cvar.MustRegister("host_ticktime", "0.016666668", cvar.NOTIFY).SetBounds(0.001, 1)
	HostTimeScale = cvar.MustRegister("host_timescale", "0", cvar.NONE)
	PhysicsAirFriction = cvar.MustRegister("phys_airfriction", "0.01", cvar.NONE).SetBounds(0, 1)
	PhysicsFloatStickVelocity = cvar.MustRegister("phys_floatstickvelocity", "0.0001", cvar.NONE)
	PhysicsFloorFriction = cvar.MustRegister("phys_floorfriction", "0.40", cvar.NONE).SetBounds(0, 1)
	PhysicsFragDestroy = cvar.MustRegister("phys_fragdestroy", "0.5", cvar.NONE).SetBounds(0, 1)
	PhysicsGravity = cvar.MustRegister("phys_gravity", "-9.81", cvar.NOTIFY)
	PhysicsHitThreshold = cvar.MustRegister("phys_hitthreshold", "-3", cvar.NONE)
	PhysicsLadderFriction = cvar.MustRegister("phys_ladderfriction", "0.65", cvar.NONE).SetBounds(0, 1)
	PhysicsMaxVelocity = cvar.MustRegister("phys_maxvelocity", "1000", cvar.NONE).SetBounds(1, 100000)
	PhysicsObjectFriction = cvar.MustRegister("phys_objfriction", "0.40", cvar.NONE).SetBounds(0, 1)
	PhysicsRestitution = cvar.MustRegister("phys_restitution", "0.3", cvar.NONE).SetBounds(0, 1)
	PhysicsSlickFriction = cvar.MustRegister("phys_slickfriction", "0.02", cvar.NONE).SetBounds(0, 1)
	PhysicsSplashThreshold = cvar.MustRegister("phys_splashthreshold", "-2", cvar.NONE)
	PhysicsStepHeight = cvar.MustRegister("phys_stepheight", "0.5", cvar.NONE).SetBounds(0, 10)
	PhysicsStepMax = cvar.MustRegister("phys_stepmax", "1", cvar.NONE)
	PhysicsStepRate = cvar.MustRegister("phys_steprate", "0.05", cvar.NONE)
	PhysicsStickVelocity = cvar.MustRegister("phys_stickvelocity", "0.015", cvar.NONE)
	PhysicsWaterFriction = cvar.MustRegister("phys_waterfriction", "0.08", cvar.NONE).SetBounds(0, 1)
}
