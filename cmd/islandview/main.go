package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"island-sim/internal/config"
	"island-sim/internal/game"
	"island-sim/internal/world"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
)

func main() {
	configPath := flag.String("config", "", "world config (YAML); defaults when empty")
	logPath := flag.String("log", "", "write logs to this file (the terminal is taken by the map)")
	mute := flag.Bool("mute", false, "disable alert tones")
	flag.Parse()

	if err := run(*configPath, *logPath, *mute); err != nil {
		fmt.Fprintf(os.Stderr, "islandview: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logPath string, mute bool) error {
	if logPath == "" {
		log.SetOutput(io.Discard)
	} else {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	config.SetFPSLimit(cfg.TickRateHz)

	opts, err := world.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	if !mute {
		a := newAlarm()
		defer a.Close()
		opts.Alerts = a
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	session := game.NewSession(opts)
	in := newKeyInput(screen, screen.Sync)
	app := game.NewApp(session, in, newView(screen, cfg.Seed))
	return app.Run(context.Background())
}
