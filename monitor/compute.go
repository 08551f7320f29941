package monitor

import (
	"log/slog"
	"math"
	"sync"
	"time"

	c "lautenbacher.net/luxmon/config"
)

// Compute is the one-shot background task: it searches the configured range
// for primes by trial division, emits each find and yields briefly so the
// sampling tasks stay responsive under the load. Once the range is done the
// task exits for good.
type Compute struct {
	rangeStart int
	rangeEnd   int
	yieldTime  time.Duration
	emit       func(int)
}

// NewCompute creates the background task. A nil emit logs each prime at
// debug level.
func NewCompute(cfg c.ComputeConfig, emit func(int)) *Compute {
	if emit == nil {
		emit = func(p int) {
			slog.Debug("Found prime", "value", p)
		}
	}
	return &Compute{
		rangeStart: cfg.RangeStart,
		rangeEnd:   cfg.RangeEnd,
		yieldTime:  cfg.YieldTime.Duration,
		emit:       emit,
	}
}

func (c *Compute) Run(stop chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	for n := c.rangeStart; n <= c.rangeEnd; n++ {
		if !isPrime(n) {
			continue
		}
		c.emit(n)
		timer := time.NewTimer(c.yieldTime)
		select {
		case <-stop:
			timer.Stop()
			slog.Info("Ending BackgroundCompute go-routine")
			return
		case <-timer.C:
		}
	}
	slog.Info("BackgroundCompute finished", "from", c.rangeStart, "to", c.rangeEnd)
}

// isPrime does trial division up to the integer square root.
func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	root := int(math.Sqrt(float64(n)))
	for d := 2; d <= root; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
