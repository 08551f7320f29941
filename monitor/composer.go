package monitor

import (
	"log/slog"
	"sync"

	u "lautenbacher.net/luxmon/util"
)

// Composer turns changed readings into display messages. It is woken on
// every sampling cycle but only enqueues a message when the raw or the
// smoothed value differs from what it last handed out; either field
// differing is enough. The send blocks when the channel is full.
type Composer struct {
	wake    *u.AtomicEvent[Reading]
	out     chan<- Message
	columns int

	last     Reading
	haveLast bool
}

func NewComposer(wake *u.AtomicEvent[Reading], out chan<- Message, columns int) *Composer {
	return &Composer{
		wake:    wake,
		out:     out,
		columns: columns,
	}
}

func (c *Composer) Run(stop chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-stop:
			slog.Info("Ending DisplayComposer go-routine")
			return
		case <-c.wake.Channel():
			reading := c.wake.Value()
			if c.haveLast && reading == c.last {
				continue
			}
			select {
			case c.out <- ComposeMessage(reading, c.columns):
			case <-stop:
				slog.Info("Ending DisplayComposer go-routine")
				return
			}
			c.last = reading
			c.haveLast = true
		}
	}
}
