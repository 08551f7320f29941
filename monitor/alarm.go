package monitor

import (
	"log/slog"
	"sync"
	"time"

	c "lautenbacher.net/luxmon/config"
	u "lautenbacher.net/luxmon/util"
)

// AlarmMonitor watches the smoothed value and drives the alarm output when
// it leaves the allowed band [low, high]; values equal to a bound are
// in-range. An episode is a fixed number of on/off toggles followed by a
// cool-down, implemented as blocking phases in the style of an animation
// runner: the task does not consume wakes while a phase runs, so wakes
// raised in that window coalesce into at most one pending wake.
type AlarmMonitor struct {
	wake        *u.AtomicEvent[Reading]
	out         AlarmOutput
	low         int
	high        int
	repetitions int
	toggleTime  time.Duration
	cooldown    time.Duration
}

func NewAlarmMonitor(wake *u.AtomicEvent[Reading], out AlarmOutput, cfg c.AlarmConfig) *AlarmMonitor {
	return &AlarmMonitor{
		wake:        wake,
		out:         out,
		low:         cfg.LowThreshold,
		high:        cfg.HighThreshold,
		repetitions: cfg.Repetitions,
		toggleTime:  cfg.ToggleTime.Duration,
		cooldown:    cfg.CooldownTime.Duration,
	}
}

func (m *AlarmMonitor) Run(stop chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-stop:
			slog.Info("Ending AlarmMonitor go-routine")
			return
		case <-m.wake.Channel():
			reading := m.wake.Value()
			if reading.Smoothed >= m.low && reading.Smoothed <= m.high {
				continue
			}
			slog.Warn("Smoothed intensity out of range",
				"smoothed", reading.Smoothed, "low", m.low, "high", m.high)
			if stopped := m.alarmPhase(stop); stopped {
				return
			}
			if stopped := m.cooldownPhase(stop); stopped {
				return
			}
		}
	}
}

// alarmPhase toggles the output high/low for the configured number of
// repetitions at the configured half-period, leaving the output low.
func (m *AlarmMonitor) alarmPhase(stop chan struct{}) (stopped bool) {
	for i := 0; i < m.repetitions; i++ {
		m.out.SetAlarm(true)
		if blockFor(stop, m.toggleTime) {
			m.out.SetAlarm(false)
			return true
		}
		m.out.SetAlarm(false)
		if blockFor(stop, m.toggleTime) {
			return true
		}
	}
	return false
}

// cooldownPhase holds the output off for the cool-down duration.
func (m *AlarmMonitor) cooldownPhase(stop chan struct{}) (stopped bool) {
	return blockFor(stop, m.cooldown)
}

// blockFor is the blocking delay inside an alarm episode. It only gives way
// to a stop request, never to new wake signals.
func blockFor(stop chan struct{}, d time.Duration) (stopped bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-stop:
		return true
	case <-timer.C:
		return false
	}
}
