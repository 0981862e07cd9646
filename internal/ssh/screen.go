package ssh

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	gossh "github.com/gliderlabs/ssh"
)

// DefaultTerm is used when the client sends no TERM or one we do not trust.
const DefaultTerm = "xterm-256color"

var ErrNoPTY = errors.New("ssh: session has no pty")

// allowedTerms lists the terminfo entries a client may select. TERM ends up
// in the process environment, so anything else is replaced by DefaultTerm.
var allowedTerms = map[string]bool{
	"xterm":                 true,
	"xterm-256color":        true,
	"screen":                true,
	"screen-256color":       true,
	"tmux":                  true,
	"tmux-256color":         true,
	"linux":                 true,
	"vt100":                 true,
	"vt220":                 true,
	"rxvt-unicode":          true,
	"rxvt-unicode-256color": true,
}

// Term picks the terminal type from a session environment.
func Term(environ []string) string {
	for _, kv := range environ {
		if v, ok := strings.CutPrefix(kv, "TERM="); ok {
			if allowedTerms[v] {
				return v
			}
			break
		}
	}
	return DefaultTerm
}

// termMu serializes os.Setenv("TERM") around terminfo lookups, which read
// the process environment.
var termMu sync.Mutex

// NewScreen builds and initializes a tcell screen drawing into s.
func NewScreen(s gossh.Session) (tcell.Screen, error) {
	pty, winCh, ok := s.Pty()
	if !ok {
		return nil, ErrNoPTY
	}
	tty := NewSessionTty(s, pty, winCh)

	termMu.Lock()
	_ = os.Setenv("TERM", Term(s.Environ()))
	screen, err := tcell.NewTerminfoScreenFromTty(tty)
	termMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen init: %w", err)
	}
	return screen, nil
}
