// Package game hosts the wandering-emoji simulation: it wires the demo
// systems into a scheduler and a paced loop, and exposes the frames they
// publish to local and remote viewers.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"emoji-sim/internal/component"
	"emoji-sim/internal/config"
	"emoji-sim/internal/ecs"
	"emoji-sim/internal/loop"
	"emoji-sim/internal/render"
	"emoji-sim/internal/sched"
	"emoji-sim/internal/system"
)

// Game owns the standing components and the loop that advances them.
type Game struct {
	cfg      config.Config
	logger   *slog.Logger
	hub      *render.Hub
	loop     *loop.Loop
	standing ecs.Components
	runLog   RunLog

	// saveRun persists the run summary; tests swap it out.
	saveRun func(RunLog, *slog.Logger)
}

// Options carries the optional collaborators of New.
type Options struct {
	Logger *slog.Logger
	Clock  loop.Clock
	// OnTick is called after every tick, after the hub status is updated.
	OnTick func(loop.Stats)
}

// New builds the registry, systems, scheduler and loop described by cfg.
func New(cfg config.Config, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry, err := component.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("register components: %w", err)
	}

	g := &Game{
		cfg:      cfg,
		logger:   logger,
		hub:      render.NewHub(),
		standing: make(ecs.Components),
		saveRun:  saveRunLog,
	}
	p := system.NewPipeline(cfg.Sim(), g.hub)

	s, err := sched.New(sched.Options{
		Main:      p.Main,
		Cleanup:   p.Cleanup,
		MaxPasses: cfg.MaxPasses,
		Registry:  registry,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build scheduler: %w", err)
	}
	g.loop, err = loop.New(loop.Options{
		Config:    cfg.Loop(),
		Init:      p.Init,
		Scheduler: s,
		Clock:     opts.Clock,
		Logger:    logger,
		OnTick: func(st loop.Stats) {
			g.runLog.record(st)
			g.hub.SetStatus(statusOf(st))
			if opts.OnTick != nil {
				opts.OnTick(st)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build loop: %w", err)
	}
	return g, nil
}

// Hub returns the frame hub viewers subscribe to.
func (g *Game) Hub() *render.Hub { return g.hub }

// Standing returns the live component tables. Only safe to read once Run
// has returned.
func (g *Game) Standing() ecs.Components { return g.standing }

// RunLog returns the summary of the last Run.
func (g *Game) RunLog() RunLog { return g.runLog }

// Run initializes the simulation and ticks it until the tick budget is
// spent or ctx is done. A cancelled context is not an error.
func (g *Game) Run(ctx context.Context) error {
	g.runLog = RunLog{
		Timestamp: time.Now(),
		Seed:      g.cfg.Seed,
		Width:     g.cfg.Width,
		Height:    g.cfg.Height,
	}
	g.logger.Info("simulation starting",
		"field", fmt.Sprintf("%dx%d", g.cfg.Width, g.cfg.Height),
		"entities", g.cfg.Entities, "min_tick", g.cfg.MinTick, "max_ticks", g.cfg.MaxTicks)

	start := time.Now()
	err := g.loop.Run(ctx, g.standing)
	g.runLog.Duration = time.Since(start)
	g.runLog.FinalRows = g.standing.Rows()
	if pos, ok := g.standing[component.CPosition]; ok {
		g.runLog.FinalEntities = pos.Len()
	}
	if err != nil && ctx.Err() == nil {
		g.runLog.Error = err.Error()
	}
	if g.cfg.RunLog {
		g.saveRun(g.runLog, g.logger)
	}

	if err != nil && ctx.Err() != nil {
		g.logger.Info("simulation interrupted", "ticks", g.runLog.Ticks)
		return nil
	}
	return err
}

func statusOf(st loop.Stats) render.Status {
	return render.Status{
		Tick:    st.Tick,
		Step:    st.Step,
		Wait:    st.Wait,
		Elapsed: st.Elapsed,
		Passes:  st.Passes,
		Rows:    st.Rows,
	}
}
