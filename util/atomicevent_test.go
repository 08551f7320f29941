package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAtomicEvent(t *testing.T) {
	ae := NewAtomicEvent[int]()
	assert.NotNil(t, ae, "NewAtomicEvent should not return nil")
	assert.NotNil(t, ae.notify, "notify channel should be initialized")
}

func TestSendAndValue(t *testing.T) {
	ae := NewAtomicEvent[int]()
	ae.Send(123)
	assert.Equal(t, 123, ae.Value(), "Value should be 123")

	type reading struct {
		Raw, Smoothed int
	}
	aeStruct := NewAtomicEvent[reading]()
	aeStruct.Send(reading{Raw: 4000, Smoothed: 2400})
	assert.Equal(t, reading{Raw: 4000, Smoothed: 2400}, aeStruct.Value())
}

func TestCoalescing(t *testing.T) {
	ae := NewAtomicEvent[string]()

	// A single Send raises exactly one wake.
	ae.Send("event1")
	select {
	case <-ae.Channel():
	default:
		t.Fatal("should have received a notification")
	}
	select {
	case <-ae.Channel():
		t.Fatal("channel should be empty")
	default:
	}

	// Two rapid Sends before the consumer resumes collapse into one wake.
	ae.Send("event2")
	ae.Send("event3")
	assert.True(t, ae.HasPending(), "a wake should be pending")
	select {
	case <-ae.Channel():
	default:
		t.Fatal("should have received a notification")
	}
	select {
	case <-ae.Channel():
		t.Fatal("second Send must not queue a second wake")
	default:
	}

	// The snapshot is the latest one sent.
	assert.Equal(t, "event3", ae.Value(), "Value should be the last event sent")
}

func TestConcurrency(t *testing.T) {
	ae := NewAtomicEvent[int]()
	done := make(chan struct{})

	go func() {
		for i := 0; i < 1000; i++ {
			ae.Send(i)
		}
		close(done)
	}()

	lastRead := -1
	var readerWg sync.WaitGroup
	readerWg.Add(1)
	go func() {
		defer readerWg.Done()
		for {
			select {
			case <-ae.Channel():
				val := ae.Value()
				if val < lastRead {
					t.Errorf("read a stale value: got %d, last was %d", val, lastRead)
				}
				lastRead = val
			case <-done:
				// Drain the channel one last time to avoid a race.
				select {
				case <-ae.Channel():
					val := ae.Value()
					if val < lastRead {
						t.Errorf("read a stale value: got %d, last was %d", val, lastRead)
					}
					lastRead = val
				default:
				}
				return
			}
		}
	}()

	readerWg.Wait()

	assert.Equal(t, 999, ae.Value(), "Final value should be 999")
}
