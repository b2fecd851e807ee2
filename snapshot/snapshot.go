// SPDX-License-Identifier: GPL-2.0-or-later

// Package snapshot exports the state of a world for external observers.
package snapshot

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"ozphys/math/vec"
	"ozphys/world"
)

func number[T ~int | ~float32](v T) *structpb.Value {
	return structpb.NewNumberValue(float64(v))
}

func vector(v vec.Vec3) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{
		Values: []*structpb.Value{number(v[0]), number(v[1]), number(v[2])},
	})
}

func object(fields map[string]*structpb.Value) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

func list(values []*structpb.Value) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func structure(s *world.Structure) *structpb.Value {
	entities := make([]*structpb.Value, 0, len(s.Entities))
	for i := range s.Entities {
		e := &s.Entities[i]
		entities = append(entities, object(map[string]*structpb.Value{
			"state":  number(e.State),
			"ratio":  number(e.Ratio),
			"offset": vector(e.Offset),
		}))
	}
	return object(map[string]*structpb.Value{
		"index":     number(s.Index),
		"bsp":       structpb.NewStringValue(s.BSPID.String()),
		"pos":       vector(s.P),
		"heading":   structpb.NewStringValue(s.Heading.String()),
		"life":      number(s.Life),
		"destroyed": structpb.NewBoolValue(s.Destroyed),
		"entities":  list(entities),
	})
}

func dynamicObject(o *world.Object) *structpb.Value {
	fields := map[string]*structpb.Value{
		"index": number(o.Index),
		"class": structpb.NewStringValue(o.Class),
		"pos":   vector(o.P),
		"dim":   vector(o.Dim),
		"flags": number(o.Flags),
		"life":  number(o.Life),
	}
	if d := o.Dynamic; d != nil {
		fields["velocity"] = vector(d.Velocity)
		fields["mass"] = number(d.Mass)
		fields["lower"] = number(d.Lower)
		if v := d.Vehicle; v != nil {
			fields["vehicle"] = object(map[string]*structpb.Value{
				"kind":    structpb.NewStringValue(v.Kind.String()),
				"heading": number(v.Heading),
			})
		}
	}
	return object(fields)
}

func frag(f *world.Frag) *structpb.Value {
	return object(map[string]*structpb.Value{
		"index":    number(f.Index),
		"pos":      vector(f.P),
		"velocity": vector(f.Velocity),
		"life":     number(f.Life),
	})
}

// Take captures the structures, objects, frags and pending events of w.
func Take(w *world.World) *structpb.Struct {
	var structs, objects, frags, events []*structpb.Value
	for _, s := range w.Structs {
		if s != nil {
			structs = append(structs, structure(s))
		}
	}
	for _, o := range w.Objects {
		if o != nil {
			objects = append(objects, dynamicObject(o))
		}
	}
	for _, f := range w.Frags {
		if f != nil {
			frags = append(frags, frag(f))
		}
	}
	for _, e := range w.Events() {
		events = append(events, object(map[string]*structpb.Value{
			"kind":      structpb.NewStringValue(e.Kind.String()),
			"obj":       number(e.Obj),
			"str":       number(e.Struct),
			"intensity": number(e.Intensity),
		}))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"structs": list(structs),
		"objects": list(objects),
		"frags":   list(frags),
		"events":  list(events),
	}}
}

// Marshal returns the snapshot of w as indented JSON.
func Marshal(w *world.World) ([]byte, error) {
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(Take(w))
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: encoding json")
	}
	return out, nil
}

// MarshalBinary returns the snapshot of w in the protobuf wire format.
func MarshalBinary(w *world.World) ([]byte, error) {
	out, err := proto.Marshal(Take(w))
	if err != nil {
		return nil, errors.Wrap(err, "snapshot: encoding")
	}
	return out, nil
}

// Unmarshal decodes a snapshot written by MarshalBinary.
func Unmarshal(b []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(b, s); err != nil {
		return nil, errors.Wrap(err, "snapshot: decoding")
	}
	return s, nil
}
