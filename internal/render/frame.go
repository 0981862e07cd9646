package render

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Cell is one drawable entity, already snapped to the grid.
type Cell struct {
	X, Y  int
	Glyph string
	Color tcell.Color
	Order int
}

// Status is the per-tick summary shown under the field.
type Status struct {
	Tick    int
	Step    time.Duration
	Wait    time.Duration
	Elapsed time.Duration
	Passes  int
	Rows    int
}

func (s Status) String() string {
	return fmt.Sprintf("tick %d  step %v  wait %v  busy %v  passes %d  rows %d",
		s.Tick, s.Step.Round(time.Microsecond), s.Wait.Round(time.Microsecond),
		s.Elapsed.Round(time.Microsecond), s.Passes, s.Rows)
}

// Frame is an immutable snapshot of the field, safe to hand to other
// goroutines once published.
type Frame struct {
	Width, Height int
	Cells         []Cell
	Status        Status
}
