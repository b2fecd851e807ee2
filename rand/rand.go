// SPDX-License-Identifier: GPL-2.0-or-later

// Package rand is the deterministic random source of the simulation. It is
// a counter fed through a noise function, so any sequence can be replayed
// from its seed.
package rand

import (
	"ozphys/math/vec"
)

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

// Generator is a deterministic noise based random source. Two generators
// with the same seed produce the same sequence.
type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) Generator {
	return Generator{idx: 0, seed: seed}
}

func noise(p uint32, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= (m >> 8)
	m *= noise2
	m ^= (m << 8)
	m *= noise3
	m ^= (m >> 8)
	return m
}

func (g *Generator) rand() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

// NewSeed restarts the sequence of g with seed s.
func (g *Generator) NewSeed(s uint32) {
	g.seed = s
	g.idx = 0
}

func (g *Generator) Uint32n(n uint32) uint32 {
	return g.rand() % n
}

func (g *Generator) Intn(n int) int {
	return int(g.Uint32n(uint32(n)))
}

func (g *Generator) Float32() float32 {
	return float32(g.Uint32n(1<<26)) / (1 << 26)
}

// Range returns a value in [lo, hi).
func (g *Generator) Range(lo, hi float32) float32 {
	return lo + (hi-lo)*g.Float32()
}

// Chance reports true with probability p.
func (g *Generator) Chance(p float32) bool {
	return g.Float32() < p
}

// InBounds returns a point inside of b.
func (g *Generator) InBounds(b vec.Bounds) vec.Vec3 {
	return vec.Vec3{
		g.Range(b.Mins[0], b.Maxs[0]),
		g.Range(b.Mins[1], b.Maxs[1]),
		g.Range(b.Mins[2], b.Maxs[2]),
	}
}

// Spread returns c with every component moved by up to r in both
// directions.
func (g *Generator) Spread(c, r vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		c[0] + g.Range(-r[0], r[0]),
		c[1] + g.Range(-r[1], r[1]),
		c[2] + g.Range(-r[2], r[2]),
	}
}
