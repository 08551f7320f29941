package monitor

// Window is a fixed-capacity circular buffer over the most recent samples
// with a running sum, so the mean costs one subtraction and one addition per
// sample. Only the Sampler touches it.
type Window struct {
	values   []int
	index    int
	sum      int
	capacity int
}

func NewWindow(capacity int) *Window {
	return &Window{
		values:   make([]int, capacity),
		capacity: capacity,
	}
}

// Add stores value at the current cursor, advances the cursor circularly and
// returns the integer mean over all slots. The slots start out at zero, so
// the mean ramps up until the buffer has cycled once. That start-up
// transient is part of the contract, not something to paper over.
func (w *Window) Add(value int) int {
	w.sum = w.sum - w.values[w.index] + value
	w.values[w.index] = value
	w.index = (w.index + 1) % w.capacity
	return w.sum / w.capacity
}
