package loop

import "time"

// Window is a fixed-capacity ring of durations with a running mean. Pushing
// into a full window evicts the oldest sample.
type Window struct {
	samples []time.Duration
	next    int
	count   int
	sum     time.Duration
}

// NewWindow creates an empty window holding up to size samples. size must be
// positive.
func NewWindow(size int) *Window {
	return &Window{samples: make([]time.Duration, size)}
}

// Push records d, evicting the oldest sample when full.
func (w *Window) Push(d time.Duration) {
	if w.count == len(w.samples) {
		w.sum -= w.samples[w.next]
	} else {
		w.count++
	}
	w.samples[w.next] = d
	w.sum += d
	w.next = (w.next + 1) % len(w.samples)
}

// Fill replaces every slot with d.
func (w *Window) Fill(d time.Duration) {
	for i := range w.samples {
		w.samples[i] = d
	}
	w.count = len(w.samples)
	w.next = 0
	w.sum = d * time.Duration(len(w.samples))
}

// Mean is the average of the recorded samples, or zero when empty.
func (w *Window) Mean() time.Duration {
	if w.count == 0 {
		return 0
	}
	return w.sum / time.Duration(w.count)
}

func (w *Window) Len() int { return w.count }

func (w *Window) Cap() int { return len(w.samples) }
