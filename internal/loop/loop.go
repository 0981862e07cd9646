// Package loop drives a simulation: initialization systems once, then paced
// ticks of the scheduler until the tick budget runs out or the context ends.
package loop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"emoji-sim/internal/ecs"
	"emoji-sim/internal/sched"
)

const (
	DefaultMinTick = 10 * time.Millisecond
	DefaultWindow  = 5
)

var (
	ErrInvalidConfig      = errors.New("loop: invalid config")
	ErrAlreadyInitialized = errors.New("loop: already initialized")
)

// Config holds the pacing parameters.
type Config struct {
	// MinTick is the shortest wall-clock tick; faster ticks wait out the rest.
	MinTick time.Duration
	// Window is how many recent tick durations feed the step length.
	Window int
	// MaxTicks bounds the run. Zero runs until the context is done.
	MaxTicks int
}

// Ticker runs one tick against the standing components.
type Ticker interface {
	Tick(ctx context.Context, standing ecs.Components, dt float64) (sched.Result, error)
}

// Stats describes one completed tick.
type Stats struct {
	Tick     int
	Step     time.Duration // simulated time step handed to the systems
	Wait     time.Duration // pacing wait before the tick
	Elapsed  time.Duration // wall-clock time spent in the scheduler
	Passes   int
	Deferred int
	Rows     int // rows across all standing tables after the tick
}

// Options wires a Loop.
type Options struct {
	Config
	Init      []ecs.System
	Scheduler Ticker
	Clock     Clock
	Logger    *slog.Logger
	// OnTick, when set, is called after every completed tick.
	OnTick func(Stats)
}

// Loop owns the pacing state carried across ticks.
type Loop struct {
	cfg         Config
	init        []ecs.System
	sched       Ticker
	clock       Clock
	logger      *slog.Logger
	onTick      func(Stats)
	window      *Window
	tick        int
	step        time.Duration
	initialized bool
}

// New validates opts and builds a Loop. The duration window starts full of
// MinTick samples so the first tick steps by the minimum without waiting.
func New(opts Options) (*Loop, error) {
	cfg := opts.Config
	switch {
	case cfg.MinTick < 0:
		return nil, fmt.Errorf("%w: negative min tick %v", ErrInvalidConfig, cfg.MinTick)
	case cfg.Window <= 0:
		return nil, fmt.Errorf("%w: window must be positive, got %d", ErrInvalidConfig, cfg.Window)
	case cfg.MaxTicks < 0:
		return nil, fmt.Errorf("%w: negative max ticks %d", ErrInvalidConfig, cfg.MaxTicks)
	case opts.Scheduler == nil:
		return nil, fmt.Errorf("%w: scheduler is required", ErrInvalidConfig)
	}
	if err := sched.Validate(opts.Init); err != nil {
		return nil, err
	}
	l := &Loop{
		cfg:    cfg,
		init:   opts.Init,
		sched:  opts.Scheduler,
		clock:  opts.Clock,
		logger: opts.Logger,
		onTick: opts.OnTick,
		window: NewWindow(cfg.Window),
		step:   cfg.MinTick,
	}
	if l.clock == nil {
		l.clock = RealClock{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	l.window.Fill(cfg.MinTick)
	return l, nil
}

// Initialize runs every initialization system once against standing. It may
// be called at most once; Run calls it when needed.
func (l *Loop) Initialize(standing ecs.Components) error {
	if l.initialized {
		return ErrAlreadyInitialized
	}
	for _, sys := range l.init {
		d := sys.Descriptor()
		r, w := ecs.Views(standing, d)
		if err := sys.Initialize(r, w); err != nil {
			return fmt.Errorf("initialize %s: %w", d.Name, err)
		}
		l.logger.Debug("system initialized", "system", d.Name)
	}
	l.initialized = true
	return nil
}

// Run ticks until the budget is spent (returning nil) or ctx is done
// (returning its error). A failed tick stops the run; its partial mutations
// are kept.
func (l *Loop) Run(ctx context.Context, standing ecs.Components) error {
	if !l.initialized {
		if err := l.Initialize(standing); err != nil {
			return err
		}
	}
	l.logger.Info("simulation started",
		"min_tick", l.cfg.MinTick, "window", l.cfg.Window, "max_ticks", l.cfg.MaxTicks)
	for l.cfg.MaxTicks == 0 || l.tick < l.cfg.MaxTicks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := l.Step(ctx, standing); err != nil {
			return err
		}
	}
	l.logger.Info("tick budget spent", "ticks", l.tick)
	return nil
}

// Step paces and runs a single tick.
func (l *Loop) Step(ctx context.Context, standing ecs.Components) (Stats, error) {
	wait, step := Pace(l.window.Mean(), l.cfg.MinTick)
	if wait > 0 {
		if err := l.clock.Sleep(ctx, wait); err != nil {
			return Stats{}, err
		}
	}
	l.step = step

	start := l.clock.Now()
	res, err := l.sched.Tick(ctx, standing, step.Seconds())
	elapsed := l.clock.Now().Sub(start)
	if err != nil {
		return Stats{}, fmt.Errorf("tick %d: %w", l.tick, err)
	}
	l.window.Push(elapsed)
	l.tick++

	st := Stats{
		Tick:     l.tick,
		Step:     step,
		Wait:     wait,
		Elapsed:  elapsed,
		Passes:   res.Passes,
		Deferred: res.Deferred,
		Rows:     standing.Rows(),
	}
	l.logger.Debug("tick", "tick", st.Tick, "step", st.Step, "wait", st.Wait,
		"elapsed", st.Elapsed, "passes", st.Passes)
	if l.onTick != nil {
		l.onTick(st)
	}
	return st, nil
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() int { return l.tick }

// StepLength returns the step chosen for the most recent tick.
func (l *Loop) StepLength() time.Duration { return l.step }
