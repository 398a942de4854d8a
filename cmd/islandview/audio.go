package main

import (
	"time"

	"island-sim/internal/behavior"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// alarm plays short tones for behavior events. Notify never blocks: events
// arriving while the queue is full are dropped.
type alarm struct {
	queue   chan behavior.EventKind
	enabled bool
}

func newAlarm() *alarm {
	a := &alarm{queue: make(chan behavior.EventKind, 8)}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, the viewer runs without sound
		log.Warn("audio disabled", "err", err)
		return a
	}
	a.enabled = true
	go a.loop()
	return a
}

// Notify implements behavior.AlertSink.
func (a *alarm) Notify(e behavior.Event) {
	if !a.enabled {
		return
	}
	select {
	case a.queue <- e.Kind:
	default:
	}
}

func (a *alarm) loop() {
	for kind := range a.queue {
		freq, dur := toneFor(kind)
		if freq == 0 {
			continue
		}
		sine, err := generators.SineTone(sampleRate, freq)
		if err != nil {
			log.Debug("tone", "err", err)
			continue
		}
		speaker.Play(beep.Take(sampleRate.N(dur), sine))
	}
}

func toneFor(k behavior.EventKind) (float64, time.Duration) {
	switch k {
	case behavior.ChaseStarted:
		return 880, 250 * time.Millisecond
	case behavior.Proximity:
		return 440, 60 * time.Millisecond
	default:
		return 0, 0
	}
}

func (a *alarm) Close() {
	if a.enabled {
		a.enabled = false
		close(a.queue)
		speaker.Close()
	}
}
