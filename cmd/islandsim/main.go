package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"island-sim/internal/behavior"
	"island-sim/internal/config"
	"island-sim/internal/game"
	"island-sim/internal/profiling"
	"island-sim/internal/world"

	"github.com/charmbracelet/log"
	"github.com/xlab/closer"
)

func main() {
	configPath := flag.String("config", "", "world config (YAML); defaults when empty")
	ticks := flag.Int("ticks", 3600, "ticks to run, 0 runs until interrupted")
	fixed := flag.Bool("fixed", false, "use a fixed step instead of wall-clock time")
	unlimited := flag.Bool("fast", false, "do not cap the tick rate")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "path", *configPath, "err", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "err", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn("unknown log level, using info", "level", cfg.LogLevel)
		level = log.InfoLevel
	}
	if *verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	opts, err := world.OptionsFromConfig(cfg)
	if err != nil {
		log.Fatal("build options", "err", err)
	}
	opts.Alerts = behavior.AlertFunc(logEvent)

	if *unlimited {
		config.SetFPSLimit(0)
	} else {
		config.SetFPSLimit(cfg.TickRateHz)
	}

	session := game.NewSession(opts)
	app := game.NewApp(session, &walk{limit: *ticks}, nil)
	if *fixed {
		app.FixedStep = time.Second / time.Duration(cfg.TickRateHz)
	}

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(func() {
		cancel()
		for _, s := range session.World.Groups().Summaries() {
			log.Info("group", "name", s.Name, "species", s.Species, "agents", s.Agents,
				"chasing", s.Chasing, "resting", s.Resting, "wandering", s.Wander)
		}
		log.Info("profiling totals", "ticks", profiling.Ticks(), "top", profiling.TopNTotal(8))
	})

	go func() {
		err := app.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("run", "err", err)
		}
		if ctx.Err() == nil {
			closer.Close()
		}
	}()
	closer.Hold()
}

func logEvent(e behavior.Event) {
	kv := []any{"group", e.Group, "species", e.Species, "at", e.At, "pos", e.Position}
	switch e.Kind {
	case behavior.ChaseStarted, behavior.ChaseEnded:
		log.Info(e.Kind.String(), kv...)
	case behavior.Teleported:
		log.Debug(e.Kind.String(), append(kv, "agent", e.Agent)...)
	default:
		log.Debug(e.Kind.String(), kv...)
	}
}
