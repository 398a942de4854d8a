package main

import (
	"island-sim/internal/game"

	"github.com/gdamore/tcell/v2"
)

// keyInput turns queued terminal events into one command per tick.
type keyInput struct {
	events chan tcell.Event
	resize func()
}

func newKeyInput(s tcell.Screen, resize func()) *keyInput {
	k := &keyInput{events: make(chan tcell.Event, 100), resize: resize}
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				close(k.events)
				return
			}
			k.events <- ev
		}
	}()
	return k
}

// Poll implements game.InputSource.
func (k *keyInput) Poll() game.Command {
	var cmd game.Command
	for {
		select {
		case ev, ok := <-k.events:
			if !ok {
				cmd.Quit = true
				return cmd
			}
			apply(&cmd, ev, k.resize)
		default:
			return cmd
		}
	}
}

func apply(cmd *game.Command, ev tcell.Event, resize func()) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyUp:
			cmd.Forward = 1
		case tcell.KeyDown:
			cmd.Forward = -1
		case tcell.KeyLeft:
			cmd.Turn = -1
		case tcell.KeyRight:
			cmd.Turn = 1
		case tcell.KeyEscape:
			cmd.TogglePause = true
		case tcell.KeyCtrlC:
			cmd.Quit = true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'w', 'W':
				cmd.Forward = 1
			case 's', 'S':
				cmd.Forward = -1
			case 'a', 'A':
				cmd.Strafe = 1
			case 'd', 'D':
				cmd.Strafe = -1
			case ' ':
				cmd.Jump = true
			case 'v', 'V':
				cmd.ToggleDebug = true
			case 'p', 'P':
				cmd.TogglePause = true
			case 'q', 'Q':
				cmd.Quit = true
			}
		}
	case *tcell.EventResize:
		if resize != nil {
			resize()
		}
	}
}
