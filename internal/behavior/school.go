package behavior

import (
	"math"

	"island-sim/internal/entity"
	"island-sim/internal/profiling"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	stuckGain         = 2
	territoryInner    = 0.4
	territoryMaxPull  = 0.5
	scentMaxPull      = 0.3
	turnSpread        = 1.5 * math.Pi
	teleportTries     = 8
	teleportMinFrac   = 0.75
	teleportFracRange = 0.2
	swimBobFreq       = 2.0
)

// RepulsionForce is the magnitude pushing two schooling agents apart at
// distance d. It falls to zero at the interaction radius.
func RepulsionForce(d float64, sp entity.SchoolParams) float64 {
	if d >= sp.InteractionRadius || sp.InteractionRadius <= 0 {
		return 0
	}
	k := 1 - d/sp.InteractionRadius
	return sp.PairRepulsion * k * k
}

// Repulsion is the force on an agent at a from one at b.
func Repulsion(a, b mgl64.Vec2, sp entity.SchoolParams) mgl64.Vec2 {
	diff := a.Sub(b)
	d := diff.Len()
	if d < 1e-9 {
		return mgl64.Vec2{}
	}
	return diff.Mul(RepulsionForce(d, sp) / d)
}

// originRepulsion keeps schools from collapsing onto the spawn point.
func originRepulsion(p mgl64.Vec2, sp entity.SchoolParams) mgl64.Vec2 {
	d := p.Len()
	if d >= sp.InteractionRadius || d < 1e-9 {
		return mgl64.Vec2{}
	}
	return p.Mul(sp.OriginRepulsion * (1 - d/sp.InteractionRadius) / d)
}

func territoryPull(a *entity.Agent, p mgl64.Vec2) mgl64.Vec2 {
	if a.TerritoryRadius <= 0 {
		return mgl64.Vec2{}
	}
	to := a.Territory.Sub(p)
	d := to.Len()
	inner := territoryInner * a.TerritoryRadius
	if d <= inner {
		return mgl64.Vec2{}
	}
	return to.Mul(math.Min(territoryMaxPull, (d-inner)/a.TerritoryRadius) / d)
}

// scent draws agents toward a swimming player and pushes them off once
// inside personal space.
func scent(p mgl64.Vec2, player PlayerSnapshot, sp entity.SchoolParams) mgl64.Vec2 {
	if !player.Present || !player.InWater || sp.ScentRange <= 0 {
		return mgl64.Vec2{}
	}
	to := player.XZ().Sub(p)
	d := to.Len()
	if d >= sp.ScentRange || d < 1e-9 {
		return mgl64.Vec2{}
	}
	if d < sp.PersonalSpace {
		return to.Mul(-1 / d)
	}
	r := d / sp.ScentRange
	return to.Mul(math.Min(scentMaxPull, 1-r*r) / d)
}

// stepSchool moves a schooling group. Forces are computed from a snapshot
// of positions taken before any agent moves.
func (e *Engine) stepSchool(g *Group, tick Tick, player PlayerSnapshot, f float64) {
	defer profiling.Track("behavior.School")()

	snap := make([]mgl64.Vec2, len(g.Agents))
	for i, a := range g.Agents {
		snap[i] = a.XZ()
	}
	t := tick.Now.Seconds()

	for i, a := range g.Agents {
		p := a.Species
		sp := p.School
		here := snap[i]

		force := mgl64.Vec2{}
		crowded := false
		for j, other := range snap {
			if j == i {
				continue
			}
			force = force.Add(Repulsion(here, other, sp))
			if here.Sub(other).Len() < sp.TooClose {
				crowded = true
			}
		}
		force = force.Add(originRepulsion(here, sp))

		if crowded {
			a.StuckTimer += stuckGain * tick.Delta
		} else {
			a.StuckTimer = 0
		}
		if a.StuckTimer > sp.StuckLimit {
			e.teleport(g, a, tick, "crowded")
			continue
		}
		if here.Len() < sp.OriginGuard {
			if a.VisitedOrigin {
				e.teleport(g, a, tick, "origin")
				continue
			}
			a.VisitedOrigin = true
		}

		force = force.Add(territoryPull(a, here)).Add(scent(here, player, sp))

		if tick.Now >= a.NextTurn {
			a.WanderAngle += (e.rng.Float64() - 0.5) * turnSpread
			a.NextTurn = tick.Now + e.randDuration(sp.TurnMin, sp.TurnMax)
		}

		v := mgl64.Vec2{math.Cos(a.WanderAngle), math.Sin(a.WanderAngle)}.Mul(a.Speed).Add(force).Mul(f)
		if e.tryMove(a, v.X(), v.Y()) {
			if v.Len() > 1e-9 {
				a.WanderAngle = math.Atan2(v.Y(), v.X())
			}
		} else {
			e.turnAway(a)
		}

		a.Bob = math.Sin(t*a.Speed*swimBobFreq) * p.Bob
		a.Tilt = entity.Tilt{Pitch: math.Sin(t*1.5) * 0.1, Roll: math.Cos(t*0.7) * 0.05}
	}
}

// teleport moves a to a far legal point and re-centres its territory there.
// If no point is found the agent stays put with its timers reset.
func (e *Engine) teleport(g *Group, a *entity.Agent, tick Tick, reason string) {
	lim := e.bounds(a.Species)
	for range teleportTries {
		ang := e.rng.Float64() * 2 * math.Pi
		d := lim * (teleportMinFrac + e.rng.Float64()*teleportFracRange)
		x, z := math.Cos(ang)*d, math.Sin(ang)*d
		if h, ok := e.legal(a, x, z); ok {
			e.place(a, x, z, h)
			a.Territory = mgl64.Vec2{x, z}
			break
		}
	}
	a.StuckTimer = 0
	a.VisitedOrigin = false
	log.Debug("agent relocated", "group", g.Name, "agent", a.ID, "reason", reason, "pos", a.Position)
	e.emit(Event{Kind: Teleported, Group: g.Name, Species: a.Species.Name, Agent: a.ID, Position: a.Position, At: tick.Now})
}
