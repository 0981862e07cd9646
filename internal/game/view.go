package game

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"emoji-sim/internal/render"
)

// Watch draws every frame published to hub on screen until the viewer quits,
// the hub drops the subscription or ctx is done. hint is shown under the
// status line. The caller owns screen and calls Fini afterwards, which also
// stops the event goroutine.
func Watch(ctx context.Context, screen tcell.Screen, hub *render.Hub, hint string) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	id, frames := hub.Subscribe()
	defer hub.Unsubscribe(id)

	redraw := make(chan struct{}, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				cancel()
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				switch keyToAction(ev) {
				case ActionQuit:
					cancel()
					return
				case ActionRedraw:
					select {
					case redraw <- struct{}{}:
					default:
					}
				}
			}
		}
	}()

	r := render.NewRenderer(screen)
	r.Draw(hub.Latest(), hint)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-frames:
			if !ok {
				return
			}
		case <-redraw:
			screen.Sync()
		}
		r.Draw(hub.Latest(), hint)
	}
}
