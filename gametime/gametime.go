// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"time"

	"ozphys/cvars"
	"ozphys/math"
)

// GameTime hands out fixed simulation ticks for elapsed wall time.
type GameTime struct {
	time       float64
	tickTime   float64
	accum      float64
	tickCount  int
	frameCount int
	dropped    float64
}

func (h *GameTime) Reset() {
	*h = GameTime{}
}

func (h *GameTime) Time() float64      { return h.time }
func (h *GameTime) TickCount() int     { return h.tickCount }
func (h *GameTime) FrameCount() int    { return h.frameCount }
func (h *GameTime) Dropped() float64   { return h.dropped }
func (h *GameTime) Remainder() float64 { return h.accum }

// Advance adds the wall time of one frame and returns the number of ticks
// to simulate. At most host_maxticks are returned, the rest of the time is
// dropped instead of being caught up later.
func (h *GameTime) Advance(frame time.Duration) int {
	h.frameCount++
	h.tickTime = float64(math.Clamp(float32(0.001), cvars.HostTickTime.Value(), float32(1)))
	d := frame.Seconds()
	if s := cvars.HostTimeScale.Value(); s > 0 {
		d *= float64(s)
	}
	h.time += d
	h.accum += d
	n := int(h.accum / h.tickTime)
	if n < 0 {
		n = 0
	}
	h.accum -= float64(n) * h.tickTime
	if limit := int(math.Max(cvars.HostMaxTicks.Value(), 1)); n > limit {
		h.dropped += float64(n-limit) * h.tickTime
		n = limit
	}
	h.tickCount += n
	return n
}

// Tick returns the fixed tick length in seconds as used by physics.
func (h *GameTime) Tick() float32 {
	return float32(h.tickTime)
}
