// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"ozphys/bsp"
	"ozphys/collider"
	"ozphys/commandline"
	"ozphys/conlog"
	"ozphys/cvar"
	"ozphys/cvars"
	"ozphys/filesystem"
	"ozphys/gametime"
	"ozphys/library"
	"ozphys/math/vec"
	"ozphys/physics"
	"ozphys/rand"
	"ozphys/snapshot"
	"ozphys/terra"
	"ozphys/world"
)

// arena is a walled floor with a pool, a ladder, stairs, an ice patch, an
// automatic door and a lift.
func arena() *bsp.BSP {
	b := bsp.NewBuilder()
	b.SetLife(1000, 50)
	b.AddBox(vec.Vec3{-40, -40, -1}, vec.Vec3{40, 40, 1}, bsp.MaterialStruct)
	b.AddBox(vec.Vec3{-40, -40, 1}, vec.Vec3{-39, 40, 7}, bsp.MaterialStruct)
	b.AddBox(vec.Vec3{39, -40, 1}, vec.Vec3{40, 40, 7}, bsp.MaterialStruct)
	b.AddBox(vec.Vec3{-39, -40, 1}, vec.Vec3{39, -39, 7}, bsp.MaterialStruct)
	b.AddBox(vec.Vec3{-39, 39, 1}, vec.Vec3{-1, 40, 7}, bsp.MaterialStruct)
	b.AddBox(vec.Vec3{1, 39, 1}, vec.Vec3{39, 40, 7}, bsp.MaterialStruct)

	// pool
	b.AddBox(vec.Vec3{10, 10, 1}, vec.Vec3{30, 30, 1.5}, bsp.MaterialStruct)
	b.AddBox(vec.Vec3{10, 10, 1.5}, vec.Vec3{30, 30, 4}, bsp.MaterialWater)
	b.AddBox(vec.Vec3{-30, 20, 1}, vec.Vec3{-29, 22, 7}, bsp.MaterialLadder)
	b.AddBox(vec.Vec3{-20, -30, 1}, vec.Vec3{-10, -20, 1.1}, bsp.MaterialStruct|bsp.MaterialSlick)
	for i := 0; i < 4; i++ {
		z := 1 + float32(i+1)*0.3
		x := 20 + float32(i)*2
		b.AddBox(vec.Vec3{x, -30, 1}, vec.Vec3{38, -20, z}, bsp.MaterialStruct)
	}

	b.AddEntity(bsp.EntitySpec{
		Move:     vec.Vec3{1.9, 0, 0},
		Mode:     bsp.EntityPushing,
		RatioInc: 1,
		Timeout:  2,
		Flags:    bsp.EntityAutoOpen,
		Boxes: []bsp.Box{
			{Mins: vec.Vec3{-1, 39, 1}, Maxs: vec.Vec3{1, 40, 6}, Flags: bsp.MaterialStruct},
		},
	})
	b.AddEntity(bsp.EntitySpec{
		Move:     vec.Vec3{0, 0, 4},
		Mode:     bsp.EntityBlocking,
		RatioInc: 0.25,
		Timeout:  3,
		Flags:    bsp.EntityAutoOpen,
		Boxes: []bsp.Box{
			{Mins: vec.Vec3{-30, -10, 1}, Maxs: vec.Vec3{-26, -6, 1.2}, Flags: bsp.MaterialStruct},
		},
	})
	return b.Build()
}

// hills is a rolling terrain with the sea in one corner.
func hills() *terra.Terrain {
	const verts = 65
	heights := make([]float32, verts*verts)
	for iy := 0; iy < verts; iy++ {
		for ix := 0; ix < verts; ix++ {
			x, y := float32(ix)/verts, float32(iy)/verts
			h := 12 + 5*math32.Sin(x*2*math32.Pi)*math32.Cos(y*3*math32.Pi)
			h -= 30 * math32.Max(0, x+y-1.4)
			heights[iy*verts+ix] = h
		}
	}
	t, err := terra.FromHeights(verts, 8, heights)
	if err != nil {
		log.Fatalf("terrain: %v", err)
	}
	return t
}

func loadStructure(structures *library.Cache[*bsp.BSP]) (uuid.UUID, *bsp.BSP) {
	name := commandline.BSP()
	if name == "" {
		return uuid.Must(uuid.NewV7()), arena()
	}
	e, err := structures.Acquire(name)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return e.ID, e.Value
}

func loadTerrain(terrains *library.Cache[*terra.Terrain]) *terra.Terrain {
	name := commandline.Terrain()
	if name == "" {
		return hills()
	}
	e, err := terrains.Acquire(name)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return e.Value
}

func populate(w *world.World, rng *rand.Generator) {
	for i := 0; i < commandline.Bodies(); i++ {
		p := rng.InBounds(vec.Bounds{Mins: vec.Vec3{-30, -30, 30}, Maxs: vec.Vec3{30, 30, 40}})
		s := rng.Range(0.3, 0.8)
		o := world.NewDynamic(p, vec.Vec3{s, s, s}, rng.Range(10, 50), rng.Range(0.5, 1.5), 100)
		o.Class = "crate"
		o.Resistance = 1
		w.AddObject(o)
	}

	car := world.NewDynamic(vec.Vec3{0, -10, 23}, vec.Vec3{1, 2, 0.75}, 800, 0.8, 500)
	car.Class = "car"
	car.Flags |= world.VehicleBit
	car.Dynamic.Vehicle = &world.Vehicle{
		Kind:         world.VehicleWheeled,
		Forward:      1,
		Turn:         0.5,
		MoveMomentum: 8,
		TurnRate:     1,
	}
	w.AddObject(car)

	for i := 0; i < commandline.Frags(); i++ {
		v := rng.Spread(vec.Vec3{0, 0, 7}, vec.Vec3{8, 8, 5})
		w.AddFrag(world.NewFrag(vec.Vec3{0, 0, 30}, v, rng.Range(2, 6), 0.1, rng.Range(0.2, 0.8)))
	}
}

func dump(w *world.World) {
	js, err := snapshot.Marshal(w)
	if err != nil {
		slog.Error("Snapshot failed", slog.Any("err", err))
		return
	}
	os.Stdout.Write(js)
	fmt.Println()
}

const configName = "ozphys.cfg"

func execConfig(name string) {
	f, err := filesystem.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Error("Could not open config", slog.String("name", name), slog.Any("err", err))
		}
		return
	}
	defer f.Close()
	slog.Debug("Executing config", slog.String("dir", filesystem.BaseDir()), slog.String("name", name))
	if err := cvar.ExecuteConfig(f); err != nil {
		slog.Error("Config failed", slog.String("name", name), slog.Any("err", err))
	}
}

func main() {
	flag.Parse()
	conlog.SetPrintf(func(format string, v ...interface{}) {
		fmt.Fprintf(os.Stderr, format, v...)
	})
	if commandline.Developer() {
		cvars.Developer.SetValue(1)
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if dir := commandline.BaseDirectory(); dir != "" {
		filesystem.UseBaseDir(dir)
		execConfig(configName)
	}
	for _, c := range commandline.Commands(flag.Args()) {
		if !cvar.Execute(c) {
			conlog.Printf("Unknown command \"%s\"\n", c[0])
		}
	}

	structures := library.NewBSPCache()
	terrains := library.NewTerraCache()

	w := world.New()
	w.Terra = loadTerrain(terrains)
	id, m := loadStructure(structures)
	w.AddStruct(world.NewStructure(id, m, vec.Vec3{0, 0, 20},
		world.HeadingFromDegrees(commandline.Heading())))

	rng := rand.New(uint32(commandline.Seed()))
	populate(w, &rng)

	p := physics.New(w, collider.New(w))
	p.Seed(uint32(commandline.Seed()))

	var gt gametime.GameTime
	frame := time.Second / 30
	start := time.Now()
	ticks := 0
	for ticks < commandline.Ticks() {
		n := min(gt.Advance(frame), commandline.Ticks()-ticks)
		for i := 0; i < n; i++ {
			p.Step(gt.Tick())
			ticks++
			for _, e := range w.DrainEvents() {
				conlog.DPrintf("%v obj %d str %d intensity %.2f\n", e.Kind, e.Obj, e.Struct, e.Intensity)
			}
			if commandline.Dump() && ticks%commandline.DumpInterval() == 0 {
				dump(w)
			}
		}
	}

	structs, objects, frags := w.Len()
	slog.Info("Simulation done",
		slog.Int("ticks", ticks),
		slog.Float64("time", gt.Time()),
		slog.Float64("dropped", gt.Dropped()),
		slog.Float64("remainder", gt.Remainder()),
		slog.Int("frames", gt.FrameCount()),
		slog.Duration("wall", time.Since(start)),
		slog.Int("structs", structs),
		slog.Int("objects", objects),
		slog.Int("frags", frags),
		slog.Int("library", structures.Len()+terrains.Len()))
}
