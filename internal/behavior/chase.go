package behavior

import (
	"fmt"
	"math"
	"time"

	"island-sim/internal/entity"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ChaseScope selects whether a group shares one chase episode or each agent
// runs its own.
type ChaseScope int

const (
	ScopeGroup ChaseScope = iota
	ScopeAgent
)

func (s ChaseScope) String() string {
	if s == ScopeAgent {
		return "agent"
	}
	return "group"
}

func ParseChaseScope(s string) (ChaseScope, error) {
	switch s {
	case "", "group":
		return ScopeGroup, nil
	case "agent":
		return ScopeAgent, nil
	}
	return ScopeGroup, fmt.Errorf("unknown chase scope %q", s)
}

// Transition is the result of one ChaseState step.
type Transition int

const (
	NoTransition Transition = iota
	Started
	Ended
)

// ChaseState is the delay/duration timer for one chase episode.
type ChaseState struct {
	Chasing      bool
	Started      time.Duration
	Pending      bool
	PendingSince time.Duration
}

// Step advances the timer. A chase starts once near has held for
// TriggerDelay and ends Duration later regardless of proximity. Leaving range
// while pending cancels the trigger.
func (s *ChaseState) Step(now time.Duration, near bool, p entity.ChaseParams) Transition {
	if s.Chasing {
		if now-s.Started >= p.Duration {
			s.Chasing = false
			return Ended
		}
		return NoTransition
	}
	if !near {
		s.Pending = false
		return NoTransition
	}
	if !s.Pending {
		s.Pending = true
		s.PendingSince = now
	}
	if now-s.PendingSince >= p.TriggerDelay {
		s.Pending = false
		s.Chasing = true
		s.Started = s.PendingSince + p.TriggerDelay
		return Started
	}
	return NoTransition
}

// Reset drops any episode, reporting whether one was running.
func (s *ChaseState) Reset() bool {
	was := s.Chasing
	*s = ChaseState{}
	return was
}

// ChaseCoordinator owns the chase timers of one group and the proximity
// alert cooldown.
type ChaseCoordinator struct {
	Scope ChaseScope

	group     ChaseState
	agents    map[uuid.UUID]*ChaseState
	lastAlert time.Duration
	alerted   bool
}

func NewChaseCoordinator(scope ChaseScope) *ChaseCoordinator {
	return &ChaseCoordinator{Scope: scope, agents: make(map[uuid.UUID]*ChaseState)}
}

// GroupState returns the shared episode; it is only driven in group scope.
func (c *ChaseCoordinator) GroupState() ChaseState { return c.group }

// Update steps the timers for agents against the player and writes the
// resulting Wandering/Chasing state back onto each agent.
func (c *ChaseCoordinator) Update(now time.Duration, g *Group, player PlayerSnapshot, emit func(Event)) {
	p := g.Species.Chase
	ev := func(kind EventKind, id uuid.UUID, pos mgl64.Vec3) {
		emit(Event{Kind: kind, Group: g.Name, Species: g.Species.Name, Agent: id, Position: pos, At: now})
	}

	nearest, nearestDist := (*entity.Agent)(nil), math.Inf(1)
	dists := make([]float64, len(g.Agents))
	for i, a := range g.Agents {
		dists[i] = math.Inf(1)
		if player.Present {
			dists[i] = player.XZ().Sub(a.XZ()).Len()
		}
		if dists[i] < nearestDist {
			nearest, nearestDist = a, dists[i]
		}
	}
	anyNear := nearestDist < p.Distance

	if anyNear && (!c.alerted || now-c.lastAlert >= p.AlertCooldown) {
		c.alerted = true
		c.lastAlert = now
		ev(Proximity, nearest.ID, nearest.Position)
	}

	switch c.Scope {
	case ScopeAgent:
		for i, a := range g.Agents {
			s, ok := c.agents[a.ID]
			if !ok {
				s = &ChaseState{}
				c.agents[a.ID] = s
			}
			var tr Transition
			if player.Present {
				tr = s.Step(now, dists[i] < p.Distance, p)
			} else if s.Reset() {
				tr = Ended
			}
			switch tr {
			case Started:
				ev(ChaseStarted, a.ID, a.Position)
			case Ended:
				ev(ChaseEnded, a.ID, a.Position)
			}
			setChasing(a, s.Chasing)
		}
	default:
		var tr Transition
		if player.Present {
			tr = c.group.Step(now, anyNear, p)
		} else if c.group.Reset() {
			tr = Ended
		}
		switch tr {
		case Started:
			ev(ChaseStarted, uuid.Nil, nearest.Position)
		case Ended:
			ev(ChaseEnded, uuid.Nil, player.Position)
		}
		for _, a := range g.Agents {
			setChasing(a, c.group.Chasing)
		}
	}
}

func setChasing(a *entity.Agent, chasing bool) {
	if chasing {
		a.State = entity.Chasing
	} else {
		a.State = entity.Wandering
	}
}
