package game

import (
	"time"

	"island-sim/internal/config"
	"island-sim/internal/player"
	"island-sim/internal/profiling"
	"island-sim/internal/world"
)

// Session is one running island with its player.
type Session struct {
	World  *world.World
	Player *player.Player

	Paused bool
	Ticks  int
}

// NewSession builds the world and puts the player beside the shelter, or at
// the origin when there is none.
func NewSession(opts world.Options) *Session {
	w := world.New(opts)
	hf := w.HeightField()

	x, z := 0.0, 0.0
	if s, ok := w.Shelter(); ok {
		x = s.Position.X() + s.Zone.Radius + 10
		z = s.Position.Z()
	}
	p := player.New(w.Ground(), hf.Size(), hf.WaterLevel(), x, z)

	return &Session{World: w, Player: p}
}

// Update advances the player then the world by dt. Nothing moves while
// paused.
func (s *Session) Update(dt time.Duration, in player.Input) {
	if s.Paused {
		return
	}
	func() {
		defer profiling.Track("session.Player")()
		s.Player.Update(dt, in)
	}()
	s.World.Update(dt, s.Player.Snapshot())
	s.Ticks++
}

func (s *Session) SetPaused(paused bool) {
	s.Paused = paused
}

// Apply handles the non-movement parts of a command.
func (s *Session) Apply(cmd Command) {
	if cmd.TogglePause {
		s.SetPaused(!s.Paused)
	}
	if cmd.ToggleDebug {
		config.ToggleDebugOverlay()
	}
}
