package monitor

import (
	"log/slog"
	"sync"
	"time"

	c "lautenbacher.net/luxmon/config"
	u "lautenbacher.net/luxmon/util"
)

// Sampler reads the light sensor at a fixed cadence, feeds the smoothing
// window and publishes the paired reading to both downstream wake signals.
// It raises the wakes on every cycle whether or not the value changed;
// filtering for "changed" is the consumers' job.
type Sampler struct {
	sensor      IntensityReader
	window      *Window
	period      time.Duration
	displayWake *u.AtomicEvent[Reading]
	alarmWake   *u.AtomicEvent[Reading]
}

func NewSampler(sensor IntensityReader, cfg c.SamplerConfig, displayWake, alarmWake *u.AtomicEvent[Reading]) *Sampler {
	return &Sampler{
		sensor:      sensor,
		window:      NewWindow(cfg.SmoothingSize),
		period:      cfg.Period.Duration,
		displayWake: displayWake,
		alarmWake:   alarmWake,
	}
}

func (s *Sampler) Run(stop chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			slog.Info("Ending Sampler go-routine")
			return
		case <-ticker.C:
			raw := s.sensor.ReadIntensity()
			reading := Reading{Raw: raw, Smoothed: s.window.Add(raw)}
			s.displayWake.Send(reading)
			s.alarmWake.Send(reading)
		}
	}
}
