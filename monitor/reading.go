package monitor

// Reading is one published sensor snapshot: the raw intensity and the
// smoothed value derived from it. The two fields belong to the same sampling
// cycle and are always published and read as a pair.
type Reading struct {
	Raw      int
	Smoothed int
}

// IntensityReader reads the current ambient light level as an integer in
// [0, 4095]. The read always succeeds and returns quickly.
type IntensityReader interface {
	ReadIntensity() int
}

// LineRenderer replaces the full contents of the two-line display.
type LineRenderer interface {
	Render(line1, line2 string)
}

// AlarmOutput drives the binary alarm signal.
type AlarmOutput interface {
	SetAlarm(on bool)
}
