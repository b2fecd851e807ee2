// SPDX-License-Identifier: GPL-2.0-or-later

package commandline

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	developer bool

	dump = boolInt{false, 60}

	bodies int
	frags  int
	seed   int
	ticks  int

	heading float64

	basedir string
	bspName string
	terrain string
)

type boolInt struct {
	set bool
	num int
}

func (b *boolInt) IsBoolFlag() bool {
	// We can not support both "-flag" and "-flag 10"
	// This allows "-flag", and "-flag=10"
	// and also "-flag=true" and "-flag=false"
	// but not "-flag 10"
	return true
}

func (b *boolInt) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, strconv.IntSize)
	if err != nil {
		v, err := strconv.ParseBool(s)
		b.set = v
		return err
	}
	b.set = true
	b.num = int(v)
	return nil
}

func (b *boolInt) String() string {
	return fmt.Sprintf("Set: %v, Num: %v", b.set, b.num)
}

func init() {
	flag.BoolVar(&developer, "developer", false, "print query diagnostics")

	flag.Var(&dump, "dump", "print a json snapshot, optional interval in ticks")

	flag.IntVar(&bodies, "bodies", 16, "number of dynamic bodies to drop")
	flag.IntVar(&frags, "frags", 64, "number of frags to throw")
	flag.IntVar(&seed, "seed", 1, "random seed")
	flag.IntVar(&ticks, "ticks", 600, "number of ticks to simulate")

	flag.Float64Var(&heading, "heading", 0, "structure rotation in degrees, snapped to 90")

	flag.StringVar(&basedir, "basedir", "", "directory with structures and pak files")
	flag.StringVar(&bspName, "bsp", "", "structure to load instead of the built in arena")
	flag.StringVar(&terrain, "terrain", "", "terrain to load instead of the built in one")
}

func BaseDirectory() string {
	return basedir
}

func BSP() string {
	return bspName
}

func Terrain() string {
	return terrain
}

func Ticks() int {
	return ticks
}

func Bodies() int {
	return bodies
}

func Frags() int {
	return frags
}

func Seed() int {
	return seed
}

func Heading() float32 {
	return float32(heading)
}

func Developer() bool {
	return developer
}

func Dump() bool {
	return dump.set
}

// DumpInterval returns the number of ticks between two snapshots.
func DumpInterval() int {
	return max(dump.num, 1)
}

// Commands splits the "+name arg..." groups of args. Anything before the
// first group is ignored.
func Commands(args []string) [][]string {
	var cmds [][]string
	for _, a := range args {
		if n, ok := strings.CutPrefix(a, "+"); ok {
			cmds = append(cmds, []string{n})
			continue
		}
		if len(cmds) > 0 {
			cmds[len(cmds)-1] = append(cmds[len(cmds)-1], a)
		}
	}
	return cmds
}
