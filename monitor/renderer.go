package monitor

import (
	"log/slog"
	"sync"
)

// Renderer drains the message channel in FIFO order and drives the display.
// Each message replaces the full display contents; there are no partial
// updates.
type Renderer struct {
	in      <-chan Message
	display LineRenderer
}

func NewRenderer(in <-chan Message, display LineRenderer) *Renderer {
	return &Renderer{
		in:      in,
		display: display,
	}
}

func (r *Renderer) Run(stop chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-stop:
			slog.Info("Ending Renderer go-routine")
			return
		case msg := <-r.in:
			r.display.Render(msg.Line1, msg.Line2)
		}
	}
}
