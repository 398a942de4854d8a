package game

import (
	"context"
	"time"

	"island-sim/internal/player"
	"island-sim/internal/profiling"

	"github.com/charmbracelet/log"
)

// SlowTick is the processing time above which a tick is logged.
const SlowTick = 16 * time.Millisecond

// maxTickDelta caps dt after a stall so agents do not jump across the map.
const maxTickDelta = 250 * time.Millisecond

// Command is one tick of input plus loop controls.
type Command struct {
	player.Input
	TogglePause bool
	ToggleDebug bool
	Quit        bool
}

// InputSource is polled once per tick.
type InputSource interface {
	Poll() Command
}

// InputFunc adapts a function to InputSource.
type InputFunc func() Command

func (f InputFunc) Poll() Command { return f() }

// Renderer draws the session after each tick. It may be nil.
type Renderer interface {
	Render(s *Session)
}

// App drives a session at the configured tick rate.
type App struct {
	Session  *Session
	Input    InputSource
	Renderer Renderer

	// FixedStep, when non-zero, replaces wall-clock dt. Used for
	// reproducible runs.
	FixedStep time.Duration

	limiter *FPSLimiter
}

func NewApp(s *Session, in InputSource, r Renderer) *App {
	return &App{Session: s, Input: in, Renderer: r, limiter: NewFPSLimiter()}
}

// Run ticks until ctx is cancelled or the input asks to quit.
func (a *App) Run(ctx context.Context) error {
	log.Info("session started", "groups", len(a.Session.World.Groups().Summaries()), "agents", a.Session.World.Groups().Count())

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("session stopped", "ticks", a.Session.Ticks, "reason", ctx.Err())
			return ctx.Err()
		default:
		}

		now := time.Now()
		dt := now.Sub(last)
		last = now
		if a.FixedStep > 0 {
			dt = a.FixedStep
		}
		dt = min(dt, maxTickDelta)

		if !a.tick(dt) {
			log.Info("session stopped", "ticks", a.Session.Ticks, "reason", "quit")
			return nil
		}

		a.limiter.Wait(a.Session.Paused)
	}
}

// tick runs one loop iteration and reports whether to continue.
func (a *App) tick(dt time.Duration) bool {
	profiling.ResetTick()
	start := time.Now()

	var cmd Command
	if a.Input != nil {
		cmd = a.Input.Poll()
	}
	if cmd.Quit {
		return false
	}
	a.Session.Apply(cmd)
	a.Session.Update(dt, cmd.Input)

	if a.Renderer != nil {
		func() {
			defer profiling.Track("app.Render")()
			a.Renderer.Render(a.Session)
		}()
	}

	if d := time.Since(start); d > SlowTick {
		log.Warn("slow tick", "dur", d, "top", profiling.TopNTick(5))
	}
	return true
}
