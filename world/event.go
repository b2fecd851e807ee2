// SPDX-License-Identifier: GPL-2.0-or-later

package world

type EventKind int

const (
	EventHit EventKind = iota
	EventSplash
	EventFricting
	EventDestroy
	EventStructDestroy
)

func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventSplash:
		return "splash"
	case EventFricting:
		return "fricting"
	case EventDestroy:
		return "destroy"
	case EventStructDestroy:
		return "struct destroy"
	}
	return "unknown"
}

// Event is something the world update driver may want to react on, e.g.
// by playing a sound.
type Event struct {
	Kind      EventKind
	Obj       int
	Struct    int
	Intensity float32
}

func (w *World) AddEvent(e Event) {
	w.events = append(w.events, e)
}

// Events returns the pending events without removing them.
func (w *World) Events() []Event {
	return w.events
}

// DrainEvents returns and clears the pending events.
func (w *World) DrainEvents() []Event {
	e := w.events
	w.events = nil
	return e
}
