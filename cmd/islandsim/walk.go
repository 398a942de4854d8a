package main

import (
	"island-sim/internal/game"
	"island-sim/internal/player"
)

const (
	walkTurnEvery = 240 // ticks between heading changes
	walkTurnTicks = 30
	walkJumpEvery = 150
)

// walk is a scripted player: it walks forward, turns periodically and jumps
// now and then. It quits after limit ticks when limit is positive.
type walk struct {
	limit int
	tick  int
}

func (w *walk) Poll() game.Command {
	w.tick++
	if w.limit > 0 && w.tick > w.limit {
		return game.Command{Quit: true}
	}

	in := player.Input{Forward: 1}
	if w.tick%walkTurnEvery < walkTurnTicks {
		in.Turn = 1
	}
	if w.tick%walkJumpEvery == 0 {
		in.Jump = true
	}
	return game.Command{Input: in}
}
