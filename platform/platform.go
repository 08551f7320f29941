package platform

// Platform bundles the three hardware capabilities the monitor tasks run
// against: the light sensor, the two-line character display and the binary
// alarm output. Two implementations exist: the Raspberry Pi platform for the
// real hardware and a simulation TUI for development on a desk.
type Platform interface {
	// Start initializes the platform. An error here is fatal: no task may
	// run on a half-initialized platform.
	Start() error
	Stop()
	// Ready returns a channel that is closed once the platform can accept
	// renders and log output.
	Ready() <-chan bool

	ReadIntensity() int
	Render(line1, line2 string)
	SetAlarm(on bool)
}
