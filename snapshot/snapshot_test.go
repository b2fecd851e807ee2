// SPDX-License-Identifier: GPL-2.0-or-later

package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"

	"ozphys/bsp"
	"ozphys/math/vec"
	"ozphys/world"
)

func testWorld() *world.World {
	b := bsp.NewBuilder()
	b.AddBox(vec.Vec3{-5, -5, -1}, vec.Vec3{5, 5, 0}, bsp.MaterialStruct)
	w := world.New()
	w.AddStruct(world.NewStructure(uuid.New(), b.Build(), vec.Vec3{1, 2, 3}, world.East))
	w.AddObject(world.NewObject(vec.Vec3{0, 0, 1}, vec.Vec3{1, 1, 1}, 10))
	d := world.NewDynamic(vec.Vec3{0, 3, 1}, vec.Vec3{1, 1, 1}, 5, 1, 10)
	d.Dynamic.Velocity = vec.Vec3{1, 0, 0}
	w.AddObject(d)
	w.AddFrag(world.NewFrag(vec.Vec3{0, 0, 5}, vec.Vec3{}, 1, 0.1, 0.5))
	w.AddEvent(world.Event{Kind: world.EventHit, Obj: 1, Struct: -1, Intensity: 4})
	return w
}

func TestTake(t *testing.T) {
	s := Take(testWorld())
	for name, want := range map[string]int{"structs": 1, "objects": 2, "frags": 1, "events": 1} {
		if got := len(s.GetFields()[name].GetListValue().GetValues()); got != want {
			t.Errorf("%s: got %d entries, want %d", name, got, want)
		}
	}
	objs := s.GetFields()["objects"].GetListValue().GetValues()
	if _, ok := objs[0].GetStructValue().GetFields()["velocity"]; ok {
		t.Errorf("static object has a velocity")
	}
	if _, ok := objs[1].GetStructValue().GetFields()["velocity"]; !ok {
		t.Errorf("dynamic object has no velocity")
	}
	str := s.GetFields()["structs"].GetListValue().GetValues()[0].GetStructValue()
	if h := str.GetFields()["heading"].GetStringValue(); h != "east" {
		t.Errorf("heading = %q, want east", h)
	}
}

func TestMarshal(t *testing.T) {
	w := testWorld()
	js, err := Marshal(w)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(js, &decoded); err != nil {
		t.Fatalf("json output does not parse: %v", err)
	}
	if _, ok := decoded["objects"]; !ok {
		t.Errorf("json output without objects: %s", js)
	}

	b, err := MarshalBinary(w)
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	s, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !proto.Equal(s, Take(w)) {
		t.Errorf("binary round trip changed the snapshot")
	}
	if _, err := Unmarshal([]byte{0xff}); err == nil {
		t.Errorf("Unmarshal of garbage succeeded")
	}
}
