package behavior

import (
	"math"

	"island-sim/internal/entity"
	"island-sim/internal/profiling"
)

const (
	driftChance       = 0.005
	radiusChance      = 0.01
	angleDeltaSpread  = 0.05
	turnPerSpeed      = 0.01
	referenceRadius   = 150.0
	radiusSwing       = 30.0
	minWanderRadius   = 50.0
	wanderRadiusRange = 200.0
	rejectShrink      = 0.8
	chaseBobFreq      = 10.0
	chaseBobAmplitude = 1.0
	wanderBobFreq     = 10.0
	grazeBobFreq      = 5.0
	orbitRate         = 0.01
)

// Chase deflections tried in order when the direct path is blocked.
var deflections = [...]float64{0, 0.5, -0.5, 1.0, -1.0}

func (e *Engine) stepWander(a *entity.Agent, t, f float64) {
	p := a.Species
	if e.rng.Float64() < driftChance {
		a.Speed = p.WanderSpeedMin + e.rng.Float64()*(p.WanderSpeedMax-p.WanderSpeedMin)
		a.WanderAngleDelta = (e.rng.Float64() - 0.5) * angleDeltaSpread
	}

	// A slowly swinging radius bends the circling into non-circular paths.
	turn := a.Speed * turnPerSpeed
	if a.WanderRadius > 0 {
		r := math.Max(a.WanderRadius+math.Sin(t*0.5)*radiusSwing, 1)
		turn *= referenceRadius / r
	}
	a.WanderAngle += (a.WanderAngleDelta + turn) * f
	if e.rng.Float64() < radiusChance {
		a.WanderRadius = minWanderRadius + e.rng.Float64()*wanderRadiusRange
	}

	step := a.Speed * f
	dx, dz := math.Cos(a.WanderAngle)*step, math.Sin(a.WanderAngle)*step
	if !e.tryMove(a, dx, dz) {
		e.turnAway(a)
		a.WanderRadius = math.Max(minWanderRadius, a.WanderRadius*rejectShrink)
	}
	a.Bob = math.Sin(t*a.Speed*wanderBobFreq) * p.Bob
}

func (e *Engine) stepChase(a *entity.Agent, player PlayerSnapshot, t, f float64) {
	to := player.XZ().Sub(a.XZ())
	d := to.Len()
	a.Bob = math.Sin(t*chaseBobFreq) * chaseBobAmplitude
	if d < 1e-6 {
		return
	}
	base := math.Atan2(to.X(), to.Y())
	step := math.Min(a.Species.Chase.Speed*f, d)
	for _, off := range deflections {
		ang := base + off
		if e.tryMove(a, math.Sin(ang)*step, math.Cos(ang)*step) {
			break
		}
	}
	a.Heading = base
}

func (e *Engine) stepGraze(a *entity.Agent, tick Tick, f float64) {
	defer profiling.Track("behavior.Graze")()

	p := a.Species
	g := p.Graze
	if a.PhaseEnds == 0 || tick.Now >= a.PhaseEnds {
		if a.PhaseEnds == 0 || a.State == entity.Resting {
			a.State = entity.Wandering
			a.WanderAngle = e.rng.Float64() * 2 * math.Pi
			a.Speed = p.WanderSpeedMin + e.rng.Float64()*(p.WanderSpeedMax-p.WanderSpeedMin)
			a.PhaseEnds = tick.Now + e.randDuration(g.MoveMin, g.MoveMax)
		} else {
			a.State = entity.Resting
			a.PhaseEnds = tick.Now + e.randDuration(g.RestMin, g.RestMax)
		}
	}
	if a.State == entity.Resting {
		a.Bob = 0
		return
	}

	step := a.Speed * f
	if !e.tryMove(a, math.Cos(a.WanderAngle)*step, math.Sin(a.WanderAngle)*step) {
		e.turnAway(a)
	}
	a.Bob = math.Sin(tick.Now.Seconds()*grazeBobFreq*a.Speed) * g.Bob
}

// stepCircle advances a flyer along its orbit. Flyers ignore habitat and
// zones; they only keep Clearance above the ground or water below.
func (e *Engine) stepCircle(a *entity.Agent, f float64) {
	p := a.Species
	c := p.Circle
	a.WanderAngle += a.Speed * orbitRate * f
	theta := a.WanderAngle

	next := a.OrbitPoint(theta, 0)
	below := math.Max(e.env.Ground.Height(next.X(), next.Z(), a.LastGroundY), e.env.WaterLevel)
	next[1] = math.Max(a.Altitude, below+c.Clearance) + p.VerticalOffset

	dx, dz := next.X()-a.Position.X(), next.Z()-a.Position.Z()
	if dx != 0 || dz != 0 {
		a.Heading = math.Atan2(dx, dz)
	}
	a.LastGroundY = below
	a.Position = next
	a.Tilt = entity.Tilt{Roll: math.Cos(theta) * c.Bank}
	a.Bob = (math.Sin(theta*3) + 0.5*math.Sin(theta*7)) * p.Bob
}
