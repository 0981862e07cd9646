// Package ssh adapts gliderlabs/ssh sessions into tcell screens for
// spectators of a running simulation.
package ssh

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// SessionTty implements tcell.Tty on top of one SSH session. Each spectator
// gets its own SessionTty and tcell.Screen pair.
type SessionTty struct {
	session gossh.Session

	mu      sync.Mutex
	window  gossh.Window
	winCh   <-chan gossh.Window
	onSize  func()
	watched bool
}

// NewSessionTty wraps s. pty holds the initial window size; winCh delivers
// later resizes and is closed when the session ends.
func NewSessionTty(s gossh.Session, pty gossh.Pty, winCh <-chan gossh.Window) *SessionTty {
	return &SessionTty{session: s, window: pty.Window, winCh: winCh}
}

func (t *SessionTty) Read(b []byte) (int, error)  { return t.session.Read(b) }
func (t *SessionTty) Write(b []byte) (int, error) { return t.session.Write(b) }
func (t *SessionTty) Close() error                { return t.session.Close() }

// Start, Stop and Drain are no-ops: the channel is opened and torn down by
// the server handler.
func (t *SessionTty) Start() error { return nil }
func (t *SessionTty) Stop() error  { return nil }
func (t *SessionTty) Drain() error { return nil }

// WindowSize returns the most recent terminal size.
func (t *SessionTty) WindowSize() (tcell.WindowSize, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tcell.WindowSize{Width: t.window.Width, Height: t.window.Height}, nil
}

// NotifyResize registers cb for window changes. The first call starts the
// goroutine draining the window channel; later calls only swap the callback.
func (t *SessionTty) NotifyResize(cb func()) {
	t.mu.Lock()
	t.onSize = cb
	start := !t.watched && t.winCh != nil
	t.watched = true
	t.mu.Unlock()

	if start {
		go t.watch()
	}
}

func (t *SessionTty) watch() {
	for win := range t.winCh {
		t.mu.Lock()
		t.window = win
		cb := t.onSize
		t.mu.Unlock()
		if cb != nil {
			cb()
		}
	}
}
