package game

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"emoji-sim/internal/component"
	"emoji-sim/internal/config"
	"emoji-sim/internal/loop"
	"emoji-sim/internal/render"
	"emoji-sim/internal/sched"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

// sleepClock advances only when the loop waits, so ticks cost no wall time.
type sleepClock struct{ now time.Time }

func (c *sleepClock) Now() time.Time { return c.now }

func (c *sleepClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return ctx.Err()
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Parse(flag.NewFlagSet("test", flag.ContinueOnError), []string{
		"-ticks", "30",
		"-entities", "6",
		"-seed", "11",
		"-lifetime", "100ms",
		"-spawn-interval", "30ms",
		"-run-log=false",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, cfg config.Config, onTick func(loop.Stats)) *Game {
	t.Helper()
	g, err := New(cfg, Options{Clock: &sleepClock{now: time.Unix(0, 0)}, OnTick: onTick})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(80, 24)
	return ss
}

// ─── game ─────────────────────────────────────────────────────────────────────

func TestRunSpendsTickBudget(t *testing.T) {
	g := newTestGame(t, testConfig(t), nil)
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	rl := g.RunLog()
	if rl.Ticks != 30 {
		t.Fatalf("expected 30 ticks, got %d", rl.Ticks)
	}
	if rl.Deferred == 0 {
		t.Fatal("expected spawn and despawn requests to be resolved")
	}
	if rl.LastStep != 10*time.Millisecond {
		t.Fatalf("expected the minimum step, got %v", rl.LastStep)
	}
	if st := g.Hub().Latest().Status; st.Tick != 30 {
		t.Fatalf("hub status should track the last tick, got %d", st.Tick)
	}
	pos := g.Standing()[component.CPosition]
	if pos == nil || pos.Len() != rl.FinalEntities {
		t.Fatalf("run log entities %d do not match standing", rl.FinalEntities)
	}
	for _, ct := range component.Body.Types() {
		if g.Standing()[ct].Len() != pos.Len() {
			t.Fatalf("body table %d out of step with positions", ct)
		}
	}
}

func TestRunInterruptedIsNotAnError(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxTicks = 0
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g := newTestGame(t, cfg, func(st loop.Stats) {
		if st.Tick == 3 {
			cancel()
		}
	})
	if err := g.Run(ctx); err != nil {
		t.Fatalf("interrupted run should return nil, got %v", err)
	}
	if g.RunLog().Ticks != 3 {
		t.Fatalf("expected 3 ticks, got %d", g.RunLog().Ticks)
	}
}

func TestRunSavesRunLog(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfg := testConfig(t)
	cfg.RunLog = true
	cfg.MaxTicks = 5
	g := newTestGame(t, cfg, nil)
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	dir, err := runLogDir()
	if err != nil {
		t.Fatalf("run log dir: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "runs.jsonl"))
	if err != nil {
		t.Fatalf("open run log: %v", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		t.Fatal("run log is empty")
	}
	var rl RunLog
	if err := json.Unmarshal(sc.Bytes(), &rl); err != nil {
		t.Fatalf("decode run log: %v", err)
	}
	if rl.Ticks != 5 || rl.Seed != 11 {
		t.Fatalf("unexpected run log %+v", rl)
	}
}

func TestRunLogRecord(t *testing.T) {
	var rl RunLog
	rl.record(loop.Stats{Tick: 1, Passes: 2, Deferred: 3, Wait: time.Millisecond, Step: 10 * time.Millisecond})
	rl.record(loop.Stats{Tick: 2, Passes: 1, Deferred: 1, Wait: time.Millisecond, Step: 12 * time.Millisecond})
	if rl.Ticks != 2 || rl.MaxPasses != 2 || rl.Deferred != 4 || rl.Waited != 2*time.Millisecond || rl.LastStep != 12*time.Millisecond {
		t.Fatalf("unexpected summary %+v", rl)
	}
}

func TestRunReportsSchedulerFailure(t *testing.T) {
	cfg := testConfig(t)
	var saved []RunLog
	g := newTestGame(t, cfg, nil)
	g.cfg.RunLog = true
	g.saveRun = func(rl RunLog, _ *slog.Logger) { saved = append(saved, rl) }
	g.standing = nil // no body tables, so spawn requests cannot resolve

	if err := g.Run(context.Background()); err == nil {
		t.Fatal("expected run to fail without standing tables")
	}
	if len(saved) != 1 || saved[0].Error == "" {
		t.Fatalf("failed run should still be logged with its error, got %+v", saved)
	}
}

func TestNewRequiresPassLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxPasses = 0
	if _, err := New(cfg, Options{}); !errors.Is(err, sched.ErrPassLimitRequired) {
		t.Fatalf("expected ErrPassLimitRequired, got %v", err)
	}
}

// ─── viewer ───────────────────────────────────────────────────────────────────

func TestKeyToAction(t *testing.T) {
	cases := []struct {
		name string
		ev   *tcell.EventKey
		want Action
	}{
		{"q quits", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), ActionQuit},
		{"Q quits", tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), ActionQuit},
		{"escape quits", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), ActionQuit},
		{"ctrl-c quits", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), ActionQuit},
		{"r redraws", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone), ActionRedraw},
		{"ctrl-l redraws", tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl), ActionRedraw},
		{"other keys ignored", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), ActionNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := keyToAction(tc.ev); got != tc.want {
				t.Errorf("keyToAction = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWatchStopsOnQuitKey(t *testing.T) {
	screen := newSimScreen(t)
	defer screen.Fini()
	hub := render.NewHub()

	done := make(chan struct{})
	go func() {
		Watch(context.Background(), screen, hub, "q to quit")
		close(done)
	}()

	hub.Publish(render.Frame{Width: 4, Height: 4})
	if err := screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)); err != nil {
		t.Fatalf("post event: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after q")
	}
	if hub.Viewers() != 0 {
		t.Fatalf("viewer should unsubscribe on exit, %d left", hub.Viewers())
	}
}

func TestWatchStopsOnContext(t *testing.T) {
	screen := newSimScreen(t)
	defer screen.Fini()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Watch(ctx, screen, render.NewHub(), "")
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
