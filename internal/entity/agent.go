package entity

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Tilt is the visual-only orientation of the body sub-part. It never feeds
// back into movement.
type Tilt struct {
	Pitch float64
	Roll  float64
}

// Agent is the runtime state of one creature. Only the behavior engine
// mutates it; renderers read View snapshots.
type Agent struct {
	ID      uuid.UUID
	Species *Profile

	Position mgl64.Vec3 // ground reference, excludes Bob
	Heading  float64    // movement yaw, atan2(dx, dz)
	Tilt     Tilt
	Bob      float64

	State State
	Speed float64

	WanderAngle      float64
	WanderAngleDelta float64
	WanderRadius     float64

	Territory       mgl64.Vec2
	TerritoryRadius float64
	StuckTimer      time.Duration
	VisitedOrigin   bool
	NextTurn        time.Duration

	// PhaseEnds is when the current graze move or rest ends.
	PhaseEnds time.Duration

	// Altitude is the cruising height of circling agents.
	Altitude float64

	LastGroundY float64
}

// NewAgent places a fresh agent of species p at pos.
func NewAgent(p *Profile, pos mgl64.Vec3, rng *rand.Rand) *Agent {
	a := &Agent{
		ID:           uuid.New(),
		Species:      p,
		Position:     pos,
		State:        Wandering,
		Speed:        p.BaseSpeed,
		WanderAngle:  rng.Float64() * 2 * math.Pi,
		WanderRadius: p.WanderRadius,
		Territory:    mgl64.Vec2{pos.X(), pos.Z()},
		LastGroundY:  pos.Y() - p.VerticalOffset,
	}
	switch p.Behavior {
	case School:
		a.TerritoryRadius = p.School.TerritoryMin + rng.Float64()*(p.School.TerritoryMax-p.School.TerritoryMin)
	case Circle:
		// pos is the orbit centre; the agent starts on its orbit.
		c := p.Circle
		a.Speed = p.WanderSpeedMin + rng.Float64()*(p.WanderSpeedMax-p.WanderSpeedMin)
		a.WanderRadius = c.RadiusMin + rng.Float64()*(c.RadiusMax-c.RadiusMin)
		a.Altitude = c.AltitudeMin + rng.Float64()*(c.AltitudeMax-c.AltitudeMin)
		a.Position = a.OrbitPoint(a.WanderAngle, a.Altitude)
	}
	a.Heading = a.WanderAngle
	return a
}

// OrbitPoint is where a circling agent sits at orbit angle theta and height
// y. The radius swings twice per revolution.
func (a *Agent) OrbitPoint(theta, y float64) mgl64.Vec3 {
	r := a.WanderRadius + math.Sin(theta*2)*a.Species.Circle.RadiusSwing
	return mgl64.Vec3{
		a.Territory.X() + math.Cos(theta)*r,
		y,
		a.Territory.Y() + math.Sin(theta)*r,
	}
}

// XZ is the agent's position on the ground plane.
func (a *Agent) XZ() mgl64.Vec2 {
	return mgl64.Vec2{a.Position.X(), a.Position.Z()}
}

// RenderYaw is the heading corrected for the model's authored orientation.
func (a *Agent) RenderYaw() float64 {
	return a.Heading + a.Species.YawOffset
}

// View is what the rendering collaborator reads once per tick.
type View struct {
	ID       uuid.UUID
	Species  string
	Model    string
	State    State
	Position mgl64.Vec3 // includes the visual bob
	Yaw      float64
	Tilt     Tilt
}

func (a *Agent) View() View {
	return View{
		ID:       a.ID,
		Species:  a.Species.Name,
		Model:    a.Species.Model,
		State:    a.State,
		Position: a.Position.Add(mgl64.Vec3{0, a.Bob, 0}),
		Yaw:      a.RenderYaw(),
		Tilt:     a.Tilt,
	}
}
