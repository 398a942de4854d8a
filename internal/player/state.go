package player

import (
	"fmt"
	"math"
	"time"

	"island-sim/internal/behavior"
	"island-sim/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	EyeHeight   = 10.0
	WalkSpeed   = 7.0 // units per reference tick
	TurnSpeed   = 0.05
	JumpHeight  = 5.0
	JumpTime    = 800 * time.Millisecond
	ShoreMargin = 0.5 // the player wades, never sinks below water+ShoreMargin

	referenceRate = 60.0
)

// MoveState is the vertical movement state.
type MoveState int

const (
	Grounded MoveState = iota
	Jumping
)

func (s MoveState) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Jumping:
		return "jumping"
	default:
		return fmt.Sprintf("MoveState(%d)", int(s))
	}
}

// Player is the reference player collaborator: it follows the ground and
// reports its position to the behavior engine.
type Player struct {
	Position mgl64.Vec3 // eye position
	Yaw      float64    // 0 faces +z

	State       MoveState
	JumpElapsed time.Duration

	LastGroundY float64

	ground     terrain.Ground
	waterLevel float64
	bounds     float64
}

// New places the player at (x, z) on the given ground.
func New(ground terrain.Ground, size, waterLevel, x, z float64) *Player {
	p := &Player{
		ground:      ground,
		waterLevel:  waterLevel,
		bounds:      size / 2,
		LastGroundY: waterLevel,
	}
	p.Position = mgl64.Vec3{x, 0, z}
	p.settle(0)
	return p
}

// GroundY is the terrain height under the player, falling back to the last
// known value off the map.
func (p *Player) GroundY() float64 {
	return p.LastGroundY
}

// InWater reports whether the terrain under the player is below water level.
func (p *Player) InWater() bool {
	return p.LastGroundY < p.waterLevel
}

// Snapshot is what the behavior engine consumes each tick.
func (p *Player) Snapshot() behavior.PlayerSnapshot {
	return behavior.PlayerSnapshot{Position: p.Position, InWater: p.InWater(), Present: true}
}

// settle snaps the eye height to the ground plus the jump offset.
func (p *Player) settle(jumpOffset float64) {
	h := p.ground.Height(p.Position.X(), p.Position.Z(), p.LastGroundY)
	p.LastGroundY = h
	base := math.Max(h, p.waterLevel+ShoreMargin)
	p.Position[1] = base + EyeHeight + jumpOffset
}
