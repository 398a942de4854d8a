// Package behavior advances agents each tick: wandering, chasing the
// player, grazing, schooling and circling overhead, over a height field with exclusion zones.
package behavior

import (
	"math"
	"math/rand"
	"time"

	"island-sim/internal/entity"
	"island-sim/internal/physics"
	"island-sim/internal/profiling"
	"island-sim/internal/terrain"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// ReferenceRate is the tick rate at which profile speeds are expressed, in
// units per tick.
const ReferenceRate = 60.0

// Environment is the static world the engine moves agents through.
type Environment struct {
	Ground     terrain.Ground
	Size       float64
	WaterLevel float64
	Zones      physics.Zones
}

// PlayerSnapshot is supplied by the player collaborator every tick.
type PlayerSnapshot struct {
	Position mgl64.Vec3
	InWater  bool
	Present  bool
}

func (p PlayerSnapshot) XZ() mgl64.Vec2 {
	return mgl64.Vec2{p.Position.X(), p.Position.Z()}
}

// Tick carries simulation time since start and the step length.
type Tick struct {
	Now   time.Duration
	Delta time.Duration
}

// Group is a set of agents of one species sharing a chase coordinator.
type Group struct {
	Name    string
	Species *entity.Profile
	Agents  []*entity.Agent
	Chase   *ChaseCoordinator
}

func NewGroup(name string, species *entity.Profile, scope ChaseScope, agents []*entity.Agent) *Group {
	return &Group{Name: name, Species: species, Agents: agents, Chase: NewChaseCoordinator(scope)}
}

// Engine owns mutation of every agent it is given. It is not safe for
// concurrent use.
type Engine struct {
	env    Environment
	rng    *rand.Rand
	sink   AlertSink
	groups []*Group
}

// NewEngine returns an engine; a nil sink discards events.
func NewEngine(env Environment, rng *rand.Rand, sink AlertSink) *Engine {
	if sink == nil {
		sink = discard{}
	}
	return &Engine{env: env, rng: rng, sink: sink}
}

func (e *Engine) AddGroup(g *Group) { e.groups = append(e.groups, g) }

func (e *Engine) Groups() []*Group { return e.groups }

func (e *Engine) Environment() Environment { return e.env }

// Update advances every group by one tick.
func (e *Engine) Update(tick Tick, player PlayerSnapshot) {
	defer profiling.Track("behavior.Update")()

	f := tick.Delta.Seconds() * ReferenceRate
	for _, g := range e.groups {
		switch g.Species.Behavior {
		case entity.Graze:
			for _, a := range g.Agents {
				e.stepGraze(a, tick, f)
			}
		case entity.School:
			e.stepSchool(g, tick, player, f)
		case entity.Circle:
			for _, a := range g.Agents {
				e.stepCircle(a, f)
			}
		default:
			e.updateRoam(g, tick, player, f)
		}
	}
}

func (e *Engine) emit(ev Event) {
	switch ev.Kind {
	case ChaseStarted, ChaseEnded:
		log.Debug("chase", "event", ev.Kind, "group", ev.Group, "at", ev.At)
	}
	e.sink.Notify(ev)
}

func (e *Engine) updateRoam(g *Group, tick Tick, player PlayerSnapshot, f float64) {
	if g.Species.CanChase() {
		g.Chase.Update(tick.Now, g, player, e.emit)
	}
	t := tick.Now.Seconds()
	for _, a := range g.Agents {
		if a.State == entity.Chasing && player.Present {
			e.stepChase(a, player, t, f)
		} else {
			e.stepWander(a, t, f)
		}
	}
}

func (e *Engine) bounds(p *entity.Profile) float64 {
	return e.env.Size / 2 * p.BoundsFraction
}

// legal reports whether (x, z) is a place the agent may stand, and the
// ground height there.
func (e *Engine) legal(a *entity.Agent, x, z float64) (float64, bool) {
	p := a.Species
	lim := e.bounds(p)
	if math.Abs(x) > lim || math.Abs(z) > lim {
		return 0, false
	}
	if e.env.Zones.Blocks(x, z) {
		return 0, false
	}
	h := e.env.Ground.Height(x, z, a.LastGroundY)
	if !p.Habitat.AllowsGround(h, e.env.WaterLevel, p.WaterMargin) {
		return 0, false
	}
	return h, true
}

// tryMove applies the displacement if the destination is legal. A rejected
// move leaves the agent untouched.
func (e *Engine) tryMove(a *entity.Agent, dx, dz float64) bool {
	if dx == 0 && dz == 0 {
		return true
	}
	nx, nz := a.Position.X()+dx, a.Position.Z()+dz
	h, ok := e.legal(a, nx, nz)
	if !ok {
		return false
	}
	e.place(a, nx, nz, h)
	a.Heading = math.Atan2(dx, dz)
	if a.Species.SlopeTilt {
		a.Tilt = e.slopeTilt(a, dx, dz, h)
	}
	return true
}

func (e *Engine) place(a *entity.Agent, x, z, h float64) {
	p := a.Species
	a.LastGroundY = h
	a.Position = mgl64.Vec3{x, math.Max(h, p.Floor(e.env.WaterLevel)) + p.VerticalOffset, z}
}

const slopeSampleDistance = 10.0

func (e *Engine) slopeTilt(a *entity.Agent, dx, dz, here float64) entity.Tilt {
	l := math.Hypot(dx, dz)
	ax := a.Position.X() + dx/l*slopeSampleDistance
	az := a.Position.Z() + dz/l*slopeSampleDistance
	ahead := e.env.Ground.Height(ax, az, here)
	return entity.Tilt{
		Pitch: math.Atan2(ahead-here, slopeSampleDistance),
		Roll:  math.Sin(a.WanderAngle*5) * a.Species.RollSway,
	}
}

// turnAway reverses the agent with some jitter after a rejected move.
func (e *Engine) turnAway(a *entity.Agent) {
	a.WanderAngle += math.Pi + (e.rng.Float64()-0.5)*1.0
}

func (e *Engine) randDuration(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(e.rng.Int63n(int64(hi-lo)))
}
