package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T) tcell.Screen {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	ss.SetSize(80, 24)
	t.Cleanup(ss.Fini)
	return ss
}

func screenRow(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestDrawPlacesCellsAndStatus(t *testing.T) {
	screen := newSimScreen(t)
	r := NewRenderer(screen)
	f := Frame{
		Width:  10,
		Height: 5,
		Cells:  []Cell{{X: 5, Y: 2, Glyph: "A", Color: tcell.ColorRed}},
		Status: Status{Tick: 42, Passes: 1, Rows: 7},
	}
	r.Draw(f, "press q to quit")

	sx, sy, ok := r.camera.WorldToScreen(5, 2)
	if !ok {
		t.Fatal("center cell should be visible")
	}
	if got, _, _, _ := screen.GetContent(sx, sy); got != 'A' {
		t.Fatalf("expected 'A' at (%d,%d), got %q", sx, sy, got)
	}
	if !strings.Contains(screenRow(screen, 22), "tick 42") {
		t.Fatalf("status row missing tick: %q", screenRow(screen, 22))
	}
	if !strings.Contains(screenRow(screen, 23), "press q to quit") {
		t.Fatalf("hint row missing: %q", screenRow(screen, 23))
	}
}

func TestDrawOrdersCells(t *testing.T) {
	screen := newSimScreen(t)
	r := NewRenderer(screen)
	r.Draw(Frame{
		Width:  4,
		Height: 4,
		Cells: []Cell{
			{X: 1, Y: 1, Glyph: "T", Order: 5},
			{X: 1, Y: 1, Glyph: "B", Order: 1},
		},
	}, "")
	sx, sy, _ := r.camera.WorldToScreen(1, 1)
	if got, _, _, _ := screen.GetContent(sx, sy); got != 'T' {
		t.Fatalf("higher order cell should be drawn last, got %q", got)
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	c := NewCamera(10, 5, 20, 10)
	sx, sy, ok := c.WorldToScreen(10, 5)
	if !ok || sx != 10 || sy != 5 {
		t.Fatalf("center maps to (%d,%d,%v)", sx, sy, ok)
	}
	if _, _, ok := c.WorldToScreen(100, 5); ok {
		t.Fatal("far cell should be off screen")
	}
	c.Resize(40, 10)
	if sx, _, _ := c.WorldToScreen(10, 5); sx != 20 {
		t.Fatalf("resize should keep center, got sx=%d", sx)
	}
}

func TestHubSignalsSubscribers(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe()
	if h.Viewers() != 1 {
		t.Fatalf("expected 1 viewer, got %d", h.Viewers())
	}

	h.SetStatus(Status{Tick: 3})
	h.Publish(Frame{Width: 2, Height: 2})
	h.Publish(Frame{Width: 7, Height: 2})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a pending signal")
	}
	select {
	case <-ch:
		t.Fatal("signals should coalesce into one")
	default:
	}
	got := h.Latest()
	if got.Width != 7 || got.Status.Tick != 3 {
		t.Fatalf("latest frame = %+v", got)
	}

	h.Unsubscribe(id)
	if _, open := <-ch; open {
		t.Fatal("channel should be closed after unsubscribe")
	}
	h.Unsubscribe(id) // second call is a no-op
}

func TestStatusString(t *testing.T) {
	s := Status{Tick: 9, Step: 10 * time.Millisecond, Passes: 2, Rows: 40}.String()
	for _, want := range []string{"tick 9", "step 10ms", "passes 2", "rows 40"} {
		if !strings.Contains(s, want) {
			t.Errorf("status %q missing %q", s, want)
		}
	}
}
