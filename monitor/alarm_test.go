package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	c "lautenbacher.net/luxmon/config"
	u "lautenbacher.net/luxmon/util"
)

type fakeAlarmOutput struct {
	mu    sync.Mutex
	calls []bool
}

func (f *fakeAlarmOutput) SetAlarm(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, on)
}

func (f *fakeAlarmOutput) getCalls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	ret := make([]bool, len(f.calls))
	copy(ret, f.calls)
	return ret
}

func testAlarmConfig() c.AlarmConfig {
	return c.AlarmConfig{
		LowThreshold:  300,
		HighThreshold: 3800,
		Repetitions:   3,
		ToggleTime:    c.Duration{Duration: 5 * time.Millisecond},
		CooldownTime:  c.Duration{Duration: 20 * time.Millisecond},
	}
}

func startAlarmMonitor(t *testing.T, wake *u.AtomicEvent[Reading], out *fakeAlarmOutput) {
	t.Helper()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go NewAlarmMonitor(wake, out, testAlarmConfig()).Run(stop, &wg)
	t.Cleanup(func() {
		close(stop)
		wg.Wait()
	})
}

func TestAlarmTriggersAboveHighThreshold(t *testing.T) {
	wake := u.NewAtomicEvent[Reading]()
	out := &fakeAlarmOutput{}
	startAlarmMonitor(t, wake, out)

	wake.Send(Reading{Raw: 4000, Smoothed: 4000})
	time.Sleep(100 * time.Millisecond)

	// Three repetitions: on/off three times, ending low.
	assert.Equal(t, []bool{true, false, true, false, true, false}, out.getCalls())
}

func TestAlarmTriggersBelowLowThreshold(t *testing.T) {
	wake := u.NewAtomicEvent[Reading]()
	out := &fakeAlarmOutput{}
	startAlarmMonitor(t, wake, out)

	wake.Send(Reading{Raw: 299, Smoothed: 299})
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, []bool{true, false, true, false, true, false}, out.getCalls())
}

func TestAlarmStaysQuietInRange(t *testing.T) {
	wake := u.NewAtomicEvent[Reading]()
	out := &fakeAlarmOutput{}
	startAlarmMonitor(t, wake, out)

	// The bounds themselves are in-range.
	for _, v := range []int{300, 1000, 3800} {
		wake.Send(Reading{Raw: v, Smoothed: v})
		time.Sleep(20 * time.Millisecond)
	}

	assert.Empty(t, out.getCalls(), "output must never be driven for in-range values")
}

func TestAlarmEpisodeCoalescesWakes(t *testing.T) {
	wake := u.NewAtomicEvent[Reading]()
	out := &fakeAlarmOutput{}
	startAlarmMonitor(t, wake, out)

	// First wake starts an episode. The monitor blocks through toggles and
	// cool-down, so the wakes raised meanwhile collapse into one, which
	// starts exactly one follow-up episode.
	wake.Send(Reading{Raw: 4000, Smoothed: 4000})
	time.Sleep(10 * time.Millisecond)
	for i := 0; i < 5; i++ {
		wake.Send(Reading{Raw: 4000, Smoothed: 4000})
	}

	// One episode is 6 toggle calls over 30ms plus 20ms cool-down.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 12, len(out.getCalls()), "five wakes during the episode must coalesce into a single extra episode")
}

func TestAlarmTogglePacing(t *testing.T) {
	wake := u.NewAtomicEvent[Reading]()
	out := &fakeAlarmOutput{}
	startAlarmMonitor(t, wake, out)

	start := time.Now()
	wake.Send(Reading{Raw: 4000, Smoothed: 4000})

	assert.Eventually(t, func() bool {
		return len(out.getCalls()) == 6
	}, time.Second, time.Millisecond)

	// Six half-periods of 5ms each: the episode cannot complete instantly.
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}
