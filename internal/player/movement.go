package player

import (
	"math"
	"time"

	"island-sim/internal/profiling"
)

// Input is one tick of intent from the input collaborator. Forward and
// Strafe are in [-1, 1]; Turn is in turn steps.
type Input struct {
	Forward float64
	Strafe  float64
	Turn    float64
	Jump    bool
}

// StartJump begins a jump when grounded. It reports whether a jump started.
func (p *Player) StartJump() bool {
	if p.State != Grounded {
		return false
	}
	p.State = Jumping
	p.JumpElapsed = 0
	return true
}

// jumpOffset is the height above ground along a half-sine arc.
func (p *Player) jumpOffset() float64 {
	if p.State != Jumping {
		return 0
	}
	t := float64(p.JumpElapsed) / float64(JumpTime)
	return JumpHeight * math.Sin(math.Pi*t)
}

// Update applies input for a tick of length dt.
func (p *Player) Update(dt time.Duration, in Input) {
	defer profiling.Track("player.Update")()

	f := dt.Seconds() * referenceRate
	p.Yaw += in.Turn * TurnSpeed * f

	fwd := clamp(in.Forward, -1, 1)
	str := clamp(in.Strafe, -1, 1)
	if fwd != 0 || str != 0 {
		sin, cos := math.Sincos(p.Yaw)
		dx := (sin*fwd - cos*str) * WalkSpeed * f
		dz := (cos*fwd + sin*str) * WalkSpeed * f
		p.Position[0] = clamp(p.Position.X()+dx, -p.bounds, p.bounds)
		p.Position[2] = clamp(p.Position.Z()+dz, -p.bounds, p.bounds)
	}

	if in.Jump {
		p.StartJump()
	}
	if p.State == Jumping {
		p.JumpElapsed += dt
		if p.JumpElapsed >= JumpTime {
			p.State = Grounded
			p.JumpElapsed = 0
		}
	}
	p.settle(p.jumpOffset())
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
