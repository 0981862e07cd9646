package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"emoji-sim/internal/ecs"
	"emoji-sim/internal/sched"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

// fakeClock advances only when told to.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return ctx.Err()
}

// fakeTicker pretends each tick takes cost of wall-clock time.
type fakeTicker struct {
	clock *fakeClock
	cost  time.Duration
	dts   []float64
	err   error
}

func (f *fakeTicker) Tick(_ context.Context, _ ecs.Components, dt float64) (sched.Result, error) {
	f.dts = append(f.dts, dt)
	f.clock.now = f.clock.now.Add(f.cost)
	return sched.Result{}, f.err
}

func newTestLoop(t *testing.T, cost time.Duration, cfg Config, init ...ecs.System) (*Loop, *fakeClock, *fakeTicker) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(0, 0)}
	ticker := &fakeTicker{clock: clock, cost: cost}
	l, err := New(Options{Config: cfg, Init: init, Scheduler: ticker, Clock: clock})
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}
	return l, clock, ticker
}

func defaultConfig(maxTicks int) Config {
	return Config{MinTick: DefaultMinTick, Window: DefaultWindow, MaxTicks: maxTicks}
}

type initProbe struct {
	ecs.Base
	inits int
}

func (p *initProbe) Descriptor() ecs.Descriptor {
	return ecs.Descriptor{Name: "probe", Writes: ecs.MaskOf(1)}
}

func (p *initProbe) Initialize(_ ecs.Reads, w ecs.Writes) error {
	p.inits++
	_, err := w.Create(1, ecs.Schema{{Name: "v", Type: ecs.FieldInt}})
	return err
}

func (p *initProbe) Run(ecs.Reads, ecs.Writes, float64) (ecs.Components, error) { return nil, nil }

// ─── pacing ───────────────────────────────────────────────────────────────────

func TestPace(t *testing.T) {
	cases := []struct {
		name     string
		mean     time.Duration
		min      time.Duration
		wantWait time.Duration
		wantStep time.Duration
	}{
		{"slow ticks step by mean", 20 * time.Millisecond, 10 * time.Millisecond, 0, 20 * time.Millisecond},
		{"fast ticks wait for minimum", time.Millisecond, 10 * time.Millisecond, 9 * time.Millisecond, 10 * time.Millisecond},
		{"exactly minimum", 10 * time.Millisecond, 10 * time.Millisecond, 0, 10 * time.Millisecond},
		{"zero minimum", 3 * time.Millisecond, 0, 0, 3 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wait, step := Pace(tc.mean, tc.min)
			if wait != tc.wantWait || step != tc.wantStep {
				t.Errorf("Pace(%v, %v) = %v, %v; want %v, %v",
					tc.mean, tc.min, wait, step, tc.wantWait, tc.wantStep)
			}
		})
	}
}

func TestWindowMeanOfFullWindow(t *testing.T) {
	w := NewWindow(5)
	for range 5 {
		w.Push(20 * time.Millisecond)
	}
	wait, step := Pace(w.Mean(), 10*time.Millisecond)
	if wait != 0 || step != 20*time.Millisecond {
		t.Fatalf("expected no wait and 20ms step, got %v / %v", wait, step)
	}
}

func TestWindowEvictsOldest(t *testing.T) {
	w := NewWindow(3)
	if w.Mean() != 0 {
		t.Fatal("empty window should have zero mean")
	}
	w.Push(3 * time.Millisecond)
	if w.Mean() != 3*time.Millisecond || w.Len() != 1 {
		t.Fatalf("partial window mean = %v, len = %d", w.Mean(), w.Len())
	}
	w.Push(6 * time.Millisecond)
	w.Push(9 * time.Millisecond)
	w.Push(12 * time.Millisecond) // evicts 3ms
	if w.Len() != 3 || w.Cap() != 3 {
		t.Fatalf("len/cap = %d/%d", w.Len(), w.Cap())
	}
	if w.Mean() != 9*time.Millisecond {
		t.Fatalf("expected mean 9ms, got %v", w.Mean())
	}
	w.Fill(time.Millisecond)
	if w.Mean() != time.Millisecond {
		t.Fatalf("expected mean 1ms after fill, got %v", w.Mean())
	}
}

// ─── loop ─────────────────────────────────────────────────────────────────────

func TestFastTicksWaitForMinimum(t *testing.T) {
	l, clock, ticker := newTestLoop(t, time.Millisecond, defaultConfig(6))
	if err := l.Run(context.Background(), ecs.Components{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if l.Ticks() != 6 {
		t.Fatalf("expected 6 ticks, got %d", l.Ticks())
	}
	// The first five ticks see a window still holding MinTick samples and
	// progressively 1ms samples; the sixth sees [1ms]*5.
	last := clock.sleeps[len(clock.sleeps)-1]
	if last != 9*time.Millisecond {
		t.Fatalf("expected final wait 9ms, got %v", last)
	}
	for i, dt := range ticker.dts {
		if dt != 0.01 {
			t.Fatalf("tick %d: expected step 0.01s, got %v", i, dt)
		}
	}
	if l.StepLength() != 10*time.Millisecond {
		t.Fatalf("expected step 10ms, got %v", l.StepLength())
	}
}

func TestSlowTicksFallBehind(t *testing.T) {
	l, clock, ticker := newTestLoop(t, 20*time.Millisecond, defaultConfig(6))
	if err := l.Run(context.Background(), ecs.Components{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(clock.sleeps) != 0 {
		t.Fatalf("overloaded loop must not wait, slept %v", clock.sleeps)
	}
	if ticker.dts[0] != 0.01 {
		t.Fatalf("first tick should step by the minimum, got %v", ticker.dts[0])
	}
	if got := ticker.dts[5]; got != 0.02 {
		t.Fatalf("sixth tick should step by the 20ms mean, got %v", got)
	}
}

func TestRunInitializesOnce(t *testing.T) {
	probe := &initProbe{}
	l, _, _ := newTestLoop(t, time.Millisecond, defaultConfig(2), probe)
	standing := ecs.Components{}
	if err := l.Run(context.Background(), standing); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, ok := standing[1]; !ok {
		t.Fatal("init system should create its table in the standing components")
	}
	if err := l.Run(context.Background(), standing); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if probe.inits != 1 {
		t.Fatalf("expected one initialize call, got %d", probe.inits)
	}
	if err := l.Initialize(standing); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	l, _, _ := newTestLoop(t, time.Millisecond, defaultConfig(0))
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	l.onTick = func(Stats) {
		ticks++
		if ticks == 3 {
			cancel()
		}
	}
	if err := l.Run(ctx, ecs.Components{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if l.Ticks() != 3 {
		t.Fatalf("expected 3 ticks before cancellation, got %d", l.Ticks())
	}
}

func TestRunStopsOnTickError(t *testing.T) {
	l, _, ticker := newTestLoop(t, time.Millisecond, defaultConfig(5))
	ticker.err = sched.ErrPassLimit
	if err := l.Run(context.Background(), ecs.Components{}); !errors.Is(err, sched.ErrPassLimit) {
		t.Fatalf("expected ErrPassLimit, got %v", err)
	}
	if l.Ticks() != 0 {
		t.Fatalf("failed tick must not count, got %d", l.Ticks())
	}
}

func TestStepReportsStats(t *testing.T) {
	var got []Stats
	clock := &fakeClock{now: time.Unix(0, 0)}
	l, err := New(Options{
		Config:    defaultConfig(0),
		Scheduler: &fakeTicker{clock: clock, cost: 4 * time.Millisecond},
		Clock:     clock,
		OnTick:    func(s Stats) { got = append(got, s) },
	})
	if err != nil {
		t.Fatalf("new loop: %v", err)
	}
	st, err := l.Step(context.Background(), ecs.Components{})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if st.Tick != 1 || st.Elapsed != 4*time.Millisecond || st.Step != 10*time.Millisecond {
		t.Fatalf("unexpected stats %+v", st)
	}
	if len(got) != 1 || got[0] != st {
		t.Fatalf("OnTick not called with the step stats: %+v", got)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	ticker := &fakeTicker{clock: &fakeClock{}}
	cases := []struct {
		name string
		opts Options
	}{
		{"zero window", Options{Config: Config{MinTick: time.Millisecond}, Scheduler: ticker}},
		{"negative min tick", Options{Config: Config{MinTick: -1, Window: 1}, Scheduler: ticker}},
		{"negative max ticks", Options{Config: Config{Window: 1, MaxTicks: -1}, Scheduler: ticker}},
		{"missing scheduler", Options{Config: Config{Window: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRealClockSleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (RealClock{}).Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := (RealClock{}).Sleep(context.Background(), time.Microsecond); err != nil {
		t.Fatalf("short sleep: %v", err)
	}
}
