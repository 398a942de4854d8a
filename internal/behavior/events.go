package behavior

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type EventKind int

const (
	ChaseStarted EventKind = iota
	ChaseEnded
	Proximity
	Teleported
)

func (k EventKind) String() string {
	switch k {
	case ChaseStarted:
		return "chase_started"
	case ChaseEnded:
		return "chase_ended"
	case Proximity:
		return "proximity"
	case Teleported:
		return "teleported"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is sent to the alert collaborator. Agent is uuid.Nil for group-wide
// chase transitions.
type Event struct {
	Kind     EventKind
	Group    string
	Species  string
	Agent    uuid.UUID
	Position mgl64.Vec3
	At       time.Duration
}

// AlertSink receives events during Update. Notify must not block.
type AlertSink interface {
	Notify(Event)
}

// AlertFunc adapts a function to AlertSink.
type AlertFunc func(Event)

func (f AlertFunc) Notify(e Event) { f(e) }

type discard struct{}

func (discard) Notify(Event) {}
