package platform

import (
	"sync"

	"github.com/gammazero/deque"
)

const maxHistory = 500

// History keeps a bounded rolling window of recent raw readings for the
// stats line in the simulation TUI.
type History struct {
	mu     sync.Mutex
	values deque.Deque[int]
}

func NewHistory() *History {
	h := &History{}
	h.values.Grow(maxHistory)
	return h
}

func (h *History) Push(value int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values.PushBack(value)
	if h.values.Len() > maxHistory {
		h.values.PopFront()
	}
}

// Stats returns min, max and mean over the retained readings. ok is false
// while the history is still empty.
func (h *History) Stats() (min, max int, mean float64, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := h.values.Len()
	if n == 0 {
		return 0, 0, 0, false
	}

	min = h.values.At(0)
	max = min
	sum := 0
	for i := 0; i < n; i++ {
		v := h.values.At(i)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, float64(sum) / float64(n), true
}
