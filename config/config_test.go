package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const validSampler = `
Sampler:
  Period: 200ms
  SmoothingSize: 5
`

const validDisplay = `
Display:
  ChannelCapacity: 5
  Columns: 16
`

const validAlarm = `
Alarm:
  LowThreshold: 300
  HighThreshold: 3800
  Repetitions: 3
  ToggleTime: 250ms
  CooldownTime: 2s
`

const validCompute = `
Compute:
  RangeStart: 2
  RangeEnd: 5000
  YieldTime: 10ms
`

const validTasks = `
Tasks:
  Sampler: {Priority: 3, Core: 0}
  AlarmMonitor: {Priority: 2, Core: 0}
  DisplayComposer: {Priority: 2, Core: 1}
  Renderer: {Priority: 1, Core: 1}
  BackgroundCompute: {Priority: 0, Core: 1}
`

const validLogging = `
Logging:
  Level: "DEBUG"
  Format: "text"
  File: ""
`

const validHardware = `
Hardware:
  SPIFrequency: 1000000
  AdcChannel: 0
  AlarmPin: 17
  Lcd:
    RSPin: 25
    EnablePin: 24
    DataPins: [23, 22, 27, 18]
`

func getBaseConfig() string {
	return validSampler + validDisplay + validAlarm + validCompute + validTasks + validLogging + validHardware
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(path, []byte(content), 0o644)
	assert.NoError(t, err)
	return path
}

func TestReadConfig(t *testing.T) {
	path := writeConfig(t, getBaseConfig())

	conf, err := ReadConfig(path, false)
	assert.NoError(t, err)
	assert.NotNil(t, conf)

	assert.Equal(t, 200*time.Millisecond, conf.Sampler.Period.Duration)
	assert.Equal(t, 5, conf.Sampler.SmoothingSize)
	assert.Equal(t, 5, conf.Display.ChannelCapacity)
	assert.Equal(t, 16, conf.Display.Columns)
	assert.Equal(t, 300, conf.Alarm.LowThreshold)
	assert.Equal(t, 3800, conf.Alarm.HighThreshold)
	assert.Equal(t, 3, conf.Alarm.Repetitions)
	assert.Equal(t, 250*time.Millisecond, conf.Alarm.ToggleTime.Duration)
	assert.Equal(t, 2*time.Second, conf.Alarm.CooldownTime.Duration)
	assert.Equal(t, 2, conf.Compute.RangeStart)
	assert.Equal(t, 5000, conf.Compute.RangeEnd)
	assert.Equal(t, 10*time.Millisecond, conf.Compute.YieldTime.Duration)
	assert.Equal(t, TaskCfg{Priority: 3, Core: 0}, conf.Tasks["Sampler"])
	assert.Equal(t, TaskCfg{Priority: 0, Core: 1}, conf.Tasks["BackgroundCompute"])
	assert.Equal(t, path, conf.Configfile)
	assert.False(t, conf.RealHW)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yml"), false)
	assert.Error(t, err)
}

func TestReadConfigBadYaml(t *testing.T) {
	path := writeConfig(t, "Sampler: [not a mapping")
	_, err := ReadConfig(path, false)
	assert.Error(t, err)
}

func TestReadConfigBadDuration(t *testing.T) {
	content := strings.Replace(getBaseConfig(), "Period: 200ms", "Period: fast", 1)
	path := writeConfig(t, content)
	_, err := ReadConfig(path, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		old  string
		new  string
	}{
		{"zero smoothing", "SmoothingSize: 5", "SmoothingSize: 0"},
		{"zero channel capacity", "ChannelCapacity: 5", "ChannelCapacity: 0"},
		{"zero columns", "Columns: 16", "Columns: 0"},
		{"inverted thresholds", "HighThreshold: 3800", "HighThreshold: 100"},
		{"zero repetitions", "Repetitions: 3", "Repetitions: 0"},
		{"range start below 2", "RangeStart: 2", "RangeStart: 1"},
		{"range end below start", "RangeEnd: 5000", "RangeEnd: 1"},
		{"negative core", "Core: 0}", "Core: -1}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := strings.Replace(getBaseConfig(), tc.old, tc.new, 1)
			path := writeConfig(t, content)
			_, err := ReadConfig(path, false)
			assert.Error(t, err, "expected validation error for %s", tc.name)
		})
	}
}

func TestValidateHardwareOnlyOnRealHW(t *testing.T) {
	content := strings.Replace(getBaseConfig(), "DataPins: [23, 22, 27, 18]", "DataPins: [23]", 1)
	path := writeConfig(t, content)

	// Simulation mode does not touch the GPIO wiring, so it passes.
	_, err := ReadConfig(path, false)
	assert.NoError(t, err)

	// On real hardware the LCD needs all four data pins.
	_, err = ReadConfig(path, true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DataPins")
}
